// Package federation 定义联邦地址、查询与解析结果等领域类型。
package federation

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AddressSeparator 名称与域名之间的分隔符
const AddressSeparator = "*"

// StellarAddress 形如 name*domain 的联邦地址，两部分均已小写
type StellarAddress struct {
	Name   string
	Domain string
}

// ParseAddress 按 "*" 切分，要求恰好两段且均非空
func ParseAddress(q string) (StellarAddress, bool) {
	parts := strings.Split(q, AddressSeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return StellarAddress{}, false
	}

	return StellarAddress{
		Name:   Lower(parts[0]),
		Domain: Lower(parts[1]),
	}, true
}

// Lower 地址各部分和站点主机统一使用的小写规则
func Lower(s string) string {
	// cases.Caser 不是并发安全的，每次单独创建
	return cases.Lower(language.Und).String(s)
}

// String 返回 name*domain
func (a StellarAddress) String() string {
	return a.Name + AddressSeparator + a.Domain
}

// ServedBy 报告站点主机是否对该地址的域名负责
// siteHost 须已经过 Lower；规则为后缀匹配，不要求落在标签边界
func (a StellarAddress) ServedBy(siteHost string) bool {
	return strings.HasSuffix(siteHost, a.Domain)
}
