package federation

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name string
		in   string
		ok   bool
		want StellarAddress
	}{
		{"标准地址", "alice*example.com", true, StellarAddress{"alice", "example.com"}},
		{"大小写归一", "Alice*EXAMPLE.com", true, StellarAddress{"alice", "example.com"}},
		{"开尔文符号按 Unicode 规则转小写", "\u212Aate*Example.com", true, StellarAddress{"kate", "example.com"}},
		{"邮箱形式的名称", "bob@mail.org*example.com", true, StellarAddress{"bob@mail.org", "example.com"}},
		{"没有分隔符", "alice", false, StellarAddress{}},
		{"多个分隔符", "a*b*c", false, StellarAddress{}},
		{"名称为空", "*example.com", false, StellarAddress{}},
		{"域名为空", "alice*", false, StellarAddress{}},
		{"空字符串", "", false, StellarAddress{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAddress(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStellarAddress_ServedBy(t *testing.T) {
	tests := []struct {
		name   string
		domain string
		host   string
		want   bool
	}{
		{"完全相同", "example.com", "example.com", true},
		{"子域名站点", "example.com", "blog.example.com", true},
		{"主机须预先转为小写", "example.com", "Blog.Example.COM", false},
		{"非标签边界也匹配", "ample.com", "example.com", true},
		{"不同域名", "evil.com", "example.com", false},
		{"域名比主机长", "www.example.com", "example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr := StellarAddress{Name: "alice", Domain: tt.domain}
			assert.Equal(t, tt.want, addr.ServedBy(tt.host))
		})
	}
}

func TestLower(t *testing.T) {
	assert.Equal(t, "example.com", Lower("EXAMPLE.com"))
	assert.Equal(t, "kate", Lower("\u212Aate"))
}

func TestQueryFromValues(t *testing.T) {
	values, err := url.ParseQuery("type=&q=alice*example.com&q=bob*example.com")
	require.NoError(t, err)

	q := QueryFromValues(values)
	assert.True(t, q.HasType)
	assert.Equal(t, "", q.Type)
	assert.True(t, q.HasQ)
	assert.Equal(t, "alice*example.com", q.Q)

	empty := QueryFromValues(url.Values{})
	assert.False(t, empty.HasType)
	assert.False(t, empty.HasQ)
}

func TestResult_Body(t *testing.T) {
	tests := []struct {
		name       string
		result     Result
		wantStatus int
		wantBody   string
	}{
		{
			name:       "成功",
			result:     Success("GABC", StellarAddress{"alice", "example.com"}),
			wantStatus: http.StatusOK,
			wantBody:   `{"account_id":"GABC","stellar_address":"alice*example.com"}`,
		},
		{
			name:       "缺少参数",
			result:     ErrMissingParams(),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"code":"invalid_request","message":"both q and type parameter are required"}`,
		},
		{
			name:       "地址格式错误使用 invalid_request",
			result:     ErrInvalidQuery(),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"code":"invalid_request","message":"Please use an address of the form name*domain.com"}`,
		},
		{
			name:       "未实现",
			result:     ErrNotImplemented(),
			wantStatus: http.StatusNotImplemented,
			wantBody:   `{"code":"not_implemented","message":"This operation is not implemented. Only type=name is supported."}`,
		},
		{
			name:       "未找到",
			result:     ErrNotFound(),
			wantStatus: http.StatusNotFound,
			wantBody:   `{"code":"not_found","message":"Account not found"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := tt.result.Body()
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, tt.result.HTTPStatus())
			assert.JSONEq(t, tt.wantBody, string(body))
			assert.Equal(t, tt.result.Record != nil, tt.result.OK())
		})
	}
}
