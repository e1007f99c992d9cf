package listmodel

import "kama_address_book/internal/contact"

// EventKind 结构变更通知类型
type EventKind int8

const (
	RowsAboutToBeInserted EventKind = iota + 1
	RowsInserted
	RowsAboutToBeRemoved
	RowsRemoved
	DataChanged
	ContactAdded
	ContactRemoved
)

func (k EventKind) String() string {
	switch k {
	case RowsAboutToBeInserted:
		return "rowsAboutToBeInserted"
	case RowsInserted:
		return "rowsInserted"
	case RowsAboutToBeRemoved:
		return "rowsAboutToBeRemoved"
	case RowsRemoved:
		return "rowsRemoved"
	case DataChanged:
		return "dataChanged"
	case ContactAdded:
		return "contactAdded"
	case ContactRemoved:
		return "contactRemoved"
	default:
		return "unknown"
	}
}

// Event 一次通知。行区间为闭区间 [First, Last]；
// ContactAdded / ContactRemoved 携带对应条目
type Event struct {
	Kind    EventKind
	First   int
	Last    int
	Contact *contact.Contact
}

// Observer 在模型所属的协程上同步调用
// 在 RowsAboutToBe* 回调中读到的是变更前的状态，在 RowsInserted/RowsRemoved 中读到的是变更后的状态
type Observer func(Event)

type observerEntry struct {
	id int
	fn Observer
}
