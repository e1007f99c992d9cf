package listmodel

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"kama_address_book/internal/contact"
	"kama_address_book/pkg/errorx"
)

// InsertPolicy 决定新条目插入的行号
type InsertPolicy interface {
	Row(list []*contact.Contact, c *contact.Contact) int
}

// AppendPolicy 追加到末尾
type AppendPolicy struct{}

func (AppendPolicy) Row(list []*contact.Contact, _ *contact.Contact) int {
	return len(list)
}

// SortedByNamePolicy 按显示名排序插入，忽略大小写；同名时排在已有条目之后
// 从第一行开始查找，不要求现有列表有序
type SortedByNamePolicy struct {
	collator *collate.Collator
}

func NewSortedByNamePolicy(tag language.Tag) *SortedByNamePolicy {
	return &SortedByNamePolicy{collator: collate.New(tag, collate.IgnoreCase)}
}

func (p *SortedByNamePolicy) Row(list []*contact.Contact, c *contact.Contact) int {
	name := c.Username()
	for i, existing := range list {
		if p.collator.CompareString(existing.Username(), name) > 0 {
			return i
		}
	}
	return len(list)
}

// PolicyFromName 解析配置中的插入策略
func PolicyFromName(name, locale string) (InsertPolicy, error) {
	switch name {
	case "", "append":
		return AppendPolicy{}, nil
	case "name":
		tag, err := language.Parse(locale)
		if err != nil {
			tag = language.Und
		}
		return NewSortedByNamePolicy(tag), nil
	default:
		return nil, errorx.Newf(errorx.CodeInvalidParam, "未知的插入策略 %q", name)
	}
}
