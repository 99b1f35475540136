package service

import (
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiteConfig_ResolverURL(t *testing.T) {
	tests := []struct {
		name    string
		siteURL string
		want    string
	}{
		{"http 升级为 https", "http://example.com", "https://example.com/.federation"},
		{"保留站点路径", "https://example.com/blog/", "https://example.com/blog/.federation"},
		{"保留端口", "http://localhost:8080", "https://localhost:8080/.federation"},
		{"丢弃查询参数", "https://example.com/?p=1#top", "https://example.com/.federation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SiteConfig{URL: tt.siteURL, Name: "Example"}.ResolverURL()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSiteConfig_Host(t *testing.T) {
	host, err := SiteConfig{URL: "https://Example.COM:8443/blog"}.Host()
	require.NoError(t, err)
	assert.Equal(t, "example.com", host)

	// 与地址解析使用同一套小写规则
	host, err = SiteConfig{URL: "https://\u212Aelvin.example"}.Host()
	require.NoError(t, err)
	assert.Equal(t, "kelvin.example", host)

	_, err = SiteConfig{URL: "/relative"}.Host()
	assert.Error(t, err)
}

func TestDiscoveryService_Document(t *testing.T) {
	s, err := NewDiscoveryService(SiteConfig{URL: "http://example.com/press", Name: "StellarPress"})
	require.NoError(t, err)

	doc := string(s.Document())
	assert.Equal(t,
		"# StellarPress Federation\nFEDERATION_SERVER = \"https://example.com/press/.federation\"\n",
		doc)

	var parsed struct {
		FederationServer string `toml:"FEDERATION_SERVER"`
	}
	_, err = toml.Decode(doc, &parsed)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/press/.federation", parsed.FederationServer)
}

func TestNewDiscoveryService_InvalidSite(t *testing.T) {
	_, err := NewDiscoveryService(SiteConfig{URL: "://bad", Name: "x"})
	assert.Error(t, err)
}
