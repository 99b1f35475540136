package service

import (
	"net/url"
	"strings"

	"stellar-federation/internal/domain/federation"
	"stellar-federation/internal/pkg/xerrors"
)

// FederationPath 解析器端点路径
const FederationPath = "/.federation"

// SiteConfig 站点信息：公开地址和系统名称
type SiteConfig struct {
	URL  string
	Name string
}

// Host 返回站点主机名（不含端口），按联邦地址的规则转为小写
func (s SiteConfig) Host() (string, error) {
	u, err := s.parse()
	if err != nil {
		return "", err
	}
	return federation.Lower(u.Hostname()), nil
}

// ResolverURL 返回解析器的公开地址：强制 https，保留站点路径，追加 /.federation
func (s SiteConfig) ResolverURL() (string, error) {
	u, err := s.parse()
	if err != nil {
		return "", err
	}

	resolver := url.URL{
		Scheme: "https",
		Host:   u.Host,
		Path:   strings.TrimRight(u.Path, "/") + FederationPath,
	}
	return resolver.String(), nil
}

func (s SiteConfig) parse() (*url.URL, error) {
	u, err := url.Parse(s.URL)
	if err != nil {
		return nil, xerrors.NewWithError(xerrors.CodeFederationConfig, "站点地址无效", err).
			WithMetadata("site_url", s.URL)
	}
	if u.Host == "" {
		return nil, xerrors.New(xerrors.CodeFederationConfig, "站点地址缺少主机名").
			WithMetadata("site_url", s.URL)
	}
	return u, nil
}
