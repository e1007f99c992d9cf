// Package addresses 实现 SIP 地址列表模型
// 它是联系人列表的兄弟视图：每一行是一个 SIP 地址，并能反查到所属联系人。
// 通过 ContactSource 访问联系人列表，而不是直接访问列表内部状态
package addresses

import (
	"slices"
	"sort"

	"kama_address_book/internal/contact"
	"kama_address_book/internal/listmodel"
)

// ContactSource 地址模型需要从联系人列表获得的能力
type ContactSource interface {
	Contacts() []*contact.Contact
	FindBySipAddress(addr string) *contact.Contact
	Subscribe(fn listmodel.Observer) func()
}

// SipAddressesModel 按地址字典序排列的 SIP 地址列表
type SipAddressesModel struct {
	source    ContactSource
	addresses []string
	owners    map[string]*contact.Contact

	observers   []listmodel.Observer
	unsubscribe func()
}

// New 由联系人列表的当前内容构建，并跟随其后续变更
func New(source ContactSource) *SipAddressesModel {
	m := &SipAddressesModel{
		source: source,
		owners: make(map[string]*contact.Contact),
	}
	for _, c := range source.Contacts() {
		for _, addr := range c.SipAddresses() {
			if _, ok := m.owners[addr]; ok {
				continue
			}
			m.owners[addr] = c
			m.addresses = append(m.addresses, addr)
		}
	}
	sort.Strings(m.addresses)
	m.unsubscribe = source.Subscribe(m.handleEvent)
	return m
}

// Close 停止跟随联系人列表
func (m *SipAddressesModel) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Subscribe 注册观察者
func (m *SipAddressesModel) Subscribe(fn listmodel.Observer) {
	m.observers = append(m.observers, fn)
}

func (m *SipAddressesModel) RowCount(parent listmodel.ModelIndex) int {
	if parent.Valid {
		return 0
	}
	return len(m.addresses)
}

func (m *SipAddressesModel) RoleNames() map[listmodel.Role]string {
	return map[listmodel.Role]string{
		listmodel.RoleContact:    "$contact",
		listmodel.RoleUsername:   "username",
		listmodel.RoleSipAddress: "sipAddress",
	}
}

func (m *SipAddressesModel) Data(index listmodel.ModelIndex, role listmodel.Role) any {
	if !index.Valid || index.Row < 0 || index.Row >= len(m.addresses) {
		return nil
	}
	addr := m.addresses[index.Row]
	switch role {
	case listmodel.RoleSipAddress:
		return addr
	case listmodel.RoleContact:
		return m.owners[addr]
	case listmodel.RoleUsername:
		return m.owners[addr].Username()
	default:
		return nil
	}
}

// MapSipAddressToContact 返回地址所属的联系人，未知地址返回 nil
func (m *SipAddressesModel) MapSipAddressToContact(addr string) *contact.Contact {
	return m.owners[addr]
}

func (m *SipAddressesModel) handleEvent(ev listmodel.Event) {
	switch ev.Kind {
	case listmodel.ContactAdded:
		for _, addr := range ev.Contact.SipAddresses() {
			if _, ok := m.owners[addr]; ok {
				continue
			}
			m.insert(addr, ev.Contact)
		}
	case listmodel.ContactRemoved:
		for _, addr := range ev.Contact.SipAddresses() {
			owner, ok := m.owners[addr]
			if !ok || owner.RefKey() != ev.Contact.RefKey() {
				continue
			}
			row, _ := slices.BinarySearch(m.addresses, addr)
			if next := m.source.FindBySipAddress(addr); next != nil {
				m.owners[addr] = next
				m.emit(listmodel.Event{Kind: listmodel.DataChanged, First: row, Last: row})
				continue
			}
			m.remove(row, addr)
		}
	}
}

func (m *SipAddressesModel) insert(addr string, c *contact.Contact) {
	row, _ := slices.BinarySearch(m.addresses, addr)
	m.emit(listmodel.Event{Kind: listmodel.RowsAboutToBeInserted, First: row, Last: row})
	m.addresses = slices.Insert(m.addresses, row, addr)
	m.owners[addr] = c
	m.emit(listmodel.Event{Kind: listmodel.RowsInserted, First: row, Last: row})
}

func (m *SipAddressesModel) remove(row int, addr string) {
	m.emit(listmodel.Event{Kind: listmodel.RowsAboutToBeRemoved, First: row, Last: row})
	m.addresses = slices.Delete(m.addresses, row, row+1)
	delete(m.owners, addr)
	m.emit(listmodel.Event{Kind: listmodel.RowsRemoved, First: row, Last: row})
}

func (m *SipAddressesModel) emit(ev listmodel.Event) {
	for _, fn := range m.observers {
		fn(ev)
	}
}
