package service

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
)

// discoveryDocument stellar.toml 中唯一的动态字段
type discoveryDocument struct {
	FederationServer string `toml:"FEDERATION_SERVER"`
}

// DiscoveryService 生成 /.well-known/stellar.toml
type DiscoveryService struct {
	document []byte
}

// NewDiscoveryService 根据站点配置生成发现文档，内容在进程生命周期内不变
func NewDiscoveryService(site SiteConfig) (*DiscoveryService, error) {
	resolverURL, err := site.ResolverURL()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s Federation\n", site.Name)
	if err := toml.NewEncoder(&buf).Encode(discoveryDocument{FederationServer: resolverURL}); err != nil {
		return nil, fmt.Errorf("编码 stellar.toml 失败: %w", err)
	}

	return &DiscoveryService{document: buf.Bytes()}, nil
}

// Document 返回发现文档内容
func (s *DiscoveryService) Document() []byte {
	return s.document
}
