package federation

import "net/url"

// QueryTypeName 唯一支持的查询类型
const QueryTypeName = "name"

// Query 联邦查询参数，区分“未提供”和“提供了空值”
type Query struct {
	Type    string
	Q       string
	HasType bool
	HasQ    bool
}

// QueryFromValues 从 URL 查询参数构造 Query，重复参数取第一个值
func QueryFromValues(values url.Values) Query {
	return Query{
		Type:    values.Get("type"),
		Q:       values.Get("q"),
		HasType: values.Has("type"),
		HasQ:    values.Has("q"),
	}
}

// NewQuery 构造两个参数都已提供的查询
func NewQuery(queryType, q string) Query {
	return Query{Type: queryType, Q: q, HasType: true, HasQ: true}
}
