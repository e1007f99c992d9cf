// Package listmodel 实现联系人列表模型（ContactsListModel）
// 模型把好友列表中的记录暴露为按行读取的有序列表，并保证列表与好友列表一一对应。
//
// 模型不加锁：所有方法都必须在同一个协程上调用（见 eventloop 包）。
// 结构变更按 "即将变更 -> 变更 -> 已变更" 的顺序通知观察者，
// 变更进行中时拒绝重入的写操作，引擎侧的异步变更则排队到变更结束后再处理。
package listmodel

import (
	"slices"

	"go.uber.org/zap"

	"kama_address_book/internal/contact"
	"kama_address_book/internal/model"
	"kama_address_book/internal/registry"
	"kama_address_book/internal/vcard"
	"kama_address_book/pkg/errorx"
)

// ContactsListModel 联系人列表模型
type ContactsListModel struct {
	list    []*contact.Contact
	friends registry.Registry
	policy  InsertPolicy

	observers      []observerEntry
	nextObserverID int

	mutating bool
	flushing bool
	pending  []registry.Change
}

// Option 构造选项
type Option func(*ContactsListModel)

// WithInsertPolicy 设置新条目的插入策略，默认追加
func WithInsertPolicy(p InsertPolicy) Option {
	return func(m *ContactsListModel) {
		if p != nil {
			m.policy = p
		}
	}
}

// New 枚举好友列表中已有的记录，按好友列表返回的顺序填充模型
// 无法解析的记录和重复的标识会被跳过并记录日志
func New(friends registry.Registry, opts ...Option) (*ContactsListModel, error) {
	if friends == nil {
		return nil, errorx.New(errorx.CodeInvalidParam, "好友列表不能为空")
	}
	m := &ContactsListModel{
		friends: friends,
		policy:  AppendPolicy{},
	}
	for _, opt := range opts {
		opt(m)
	}

	records, err := friends.Records()
	if err != nil {
		return nil, errorx.Wrap(err, errorx.CodeRegistryError, "枚举好友列表失败")
	}
	m.list = make([]*contact.Contact, 0, len(records))
	for _, friend := range records {
		c, err := contact.New(friend)
		if err != nil {
			zap.L().Warn("skip unreadable friend record", zap.Error(err))
			continue
		}
		if m.rowOf(c.RefKey()) >= 0 {
			zap.L().Warn("skip duplicated friend record", zap.String("refKey", c.RefKey()))
			continue
		}
		m.list = append(m.list, c)
	}
	zap.L().Info("contacts list model loaded", zap.Int("rows", len(m.list)))
	return m, nil
}

// ==================== 读取 ====================

// RowCount 返回行数；扁平列表中任何有效父节点都没有子行
func (m *ContactsListModel) RowCount(parent ModelIndex) int {
	if parent.Valid {
		return 0
	}
	return len(m.list)
}

// RoleNames 返回字段标识到字段名的映射（副本）
func (m *ContactsListModel) RoleNames() map[Role]string {
	out := make(map[Role]string, len(roleNames))
	for role, name := range roleNames {
		out[role] = name
	}
	return out
}

// Data 读取某行的某个字段；越界或未知字段返回 nil
func (m *ContactsListModel) Data(index ModelIndex, role Role) any {
	if !index.Valid || index.Column != 0 || index.Row < 0 || index.Row >= len(m.list) {
		return nil
	}
	c := m.list[index.Row]
	switch role {
	case RoleContact:
		return c
	case RoleUsername:
		return c.Username()
	case RoleSipAddress:
		return c.PrimarySipAddress()
	case RoleAvatar:
		return c.Avatar()
	case RolePresence:
		return c.Presence().String()
	default:
		return nil
	}
}

// At 返回第 row 行的条目，越界返回 nil
func (m *ContactsListModel) At(row int) *contact.Contact {
	if row < 0 || row >= len(m.list) {
		return nil
	}
	return m.list[row]
}

// Find 按标识查找条目及其行号，不存在时行号为 -1
func (m *ContactsListModel) Find(refKey string) (int, *contact.Contact) {
	row := m.rowOf(refKey)
	if row < 0 {
		return -1, nil
	}
	return row, m.list[row]
}

// Contacts 返回当前条目的快照
func (m *ContactsListModel) Contacts() []*contact.Contact {
	return slices.Clone(m.list)
}

// FindBySipAddress 按 SIP 地址查找条目
func (m *ContactsListModel) FindBySipAddress(addr string) *contact.Contact {
	for _, c := range m.list {
		if c.HasSipAddress(addr) {
			return c
		}
	}
	return nil
}

// Mutating 是否处于变更通知区间内
func (m *ContactsListModel) Mutating() bool {
	return m.mutating
}

// ==================== 观察者 ====================

// Subscribe 注册观察者，返回取消函数
func (m *ContactsListModel) Subscribe(fn Observer) func() {
	m.nextObserverID++
	id := m.nextObserverID
	m.observers = append(m.observers, observerEntry{id: id, fn: fn})
	return func() {
		m.observers = slices.DeleteFunc(m.observers, func(e observerEntry) bool {
			return e.id == id
		})
	}
}

func (m *ContactsListModel) emit(ev Event) {
	for _, e := range slices.Clone(m.observers) {
		e.fn(ev)
	}
}

// ==================== 写操作 ====================

// AddContact 由名片创建条目：先写入好友列表，再按插入策略放入列表并通知观察者
// 失败时好友列表和模型都保持原状
func (m *ContactsListModel) AddContact(profile *vcard.Vcard) (*contact.Contact, error) {
	if profile == nil {
		return nil, errorx.ErrNilProfile
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if err := m.begin(); err != nil {
		return nil, err
	}
	defer m.end()

	friend, err := m.friends.AddRecord(profile)
	if err != nil {
		zap.L().Warn("unable to add friend from vcard", zap.Error(err), zap.String("username", profile.Username))
		return nil, errorx.Wrap(err, errorx.CodeRegistryError, "无法将名片写入好友列表")
	}
	c, err := contact.New(friend)
	if err != nil {
		if rmErr := m.friends.RemoveRecord(friend); rmErr != nil {
			zap.L().Error("rollback friend record error", zap.Error(rmErr), zap.String("refKey", friend.RefKey))
		}
		return nil, err
	}

	m.insert(m.policy.Row(m.list, c), c)
	return c, nil
}

// RemoveContact 删除条目；条目不在列表中时什么也不做
func (m *ContactsListModel) RemoveContact(c *contact.Contact) error {
	if c == nil {
		return nil
	}
	row := m.rowOf(c.RefKey())
	if row < 0 {
		return nil
	}
	return m.RemoveRowErr(row)
}

// RemoveRow 删除第 row 行，返回是否成功
func (m *ContactsListModel) RemoveRow(row int) bool {
	return m.RemoveRowErr(row) == nil
}

// RemoveRowErr 同 RemoveRow，返回失败原因
func (m *ContactsListModel) RemoveRowErr(row int) error {
	if row < 0 || row >= len(m.list) {
		return errorx.Wrapf(errorx.ErrOutOfRange, errorx.CodeOutOfRange, "行号 %d 越界，当前共 %d 行", row, len(m.list))
	}
	return m.RemoveRowsErr(row, 1)
}

// RemoveRows 删除从 row 开始的连续 count 行，返回是否成功
func (m *ContactsListModel) RemoveRows(row, count int) bool {
	return m.RemoveRowsErr(row, count) == nil
}

// RemoveRowsErr 同 RemoveRows，返回失败原因
// 好友列表中的记录作为一个事务删除，成功后才发出一对覆盖整个区间的通知；
// count 为 0 时直接成功，不发通知
func (m *ContactsListModel) RemoveRowsErr(row, count int) error {
	n := len(m.list)
	if row < 0 || count < 0 || row > n || count > n-row {
		return errorx.Wrapf(errorx.ErrOutOfRange, errorx.CodeOutOfRange, "区间 [%d, %d) 越界，当前共 %d 行", row, row+count, n)
	}
	if count == 0 {
		return nil
	}
	if err := m.begin(); err != nil {
		return err
	}
	defer m.end()

	victims := slices.Clone(m.list[row : row+count])
	friends := make([]*model.Friend, 0, count)
	for _, c := range victims {
		friends = append(friends, c.Friend())
	}
	if err := m.friends.RemoveRecords(friends); err != nil {
		zap.L().Warn("unable to remove friends", zap.Error(err), zap.Int("row", row), zap.Int("count", count))
		return errorx.Wrap(err, errorx.CodeRegistryError, "无法从好友列表删除联系人")
	}

	m.remove(row, count)
	return nil
}

// ==================== 引擎侧变更 ====================

// HandleChange 处理通信引擎推送的好友列表变更
// 变更进行中收到的事件会排队，等当前变更结束后依次处理
func (m *ContactsListModel) HandleChange(ch registry.Change) {
	if m.mutating || m.flushing {
		m.pending = append(m.pending, ch)
		return
	}
	m.applyChange(ch)
}

func (m *ContactsListModel) applyChange(ch registry.Change) {
	switch ch.Kind {
	case registry.ChangeAdded:
		if m.rowOf(ch.RefKey) >= 0 {
			return
		}
		friend, err := m.friends.FindRecord(ch.RefKey)
		if err != nil {
			zap.L().Warn("added friend not found in registry", zap.Error(err), zap.String("refKey", ch.RefKey))
			return
		}
		c, err := contact.New(friend)
		if err != nil {
			zap.L().Warn("skip unreadable friend record", zap.Error(err), zap.String("refKey", ch.RefKey))
			return
		}
		if ch.Presence != "" {
			c.SetPresence(contact.ParsePresence(ch.Presence))
		}
		m.mutating = true
		m.insert(m.policy.Row(m.list, c), c)
		m.end()

	case registry.ChangeRemoved:
		// 记录已被引擎删除，这里只同步列表
		row := m.rowOf(ch.RefKey)
		if row < 0 {
			return
		}
		m.mutating = true
		m.remove(row, 1)
		m.end()

	case registry.ChangePresence:
		row := m.rowOf(ch.RefKey)
		if row < 0 {
			return
		}
		if m.list[row].SetPresence(contact.ParsePresence(ch.Presence)) {
			m.mutating = true
			m.emit(Event{Kind: DataChanged, First: row, Last: row})
			m.end()
		}

	default:
		zap.L().Warn("unknown friend change", zap.Int8("kind", int8(ch.Kind)))
	}
}

// ==================== 内部 ====================

func (m *ContactsListModel) begin() error {
	if m.mutating {
		return errorx.ErrReentrant
	}
	m.mutating = true
	return nil
}

// end 结束变更并处理排队的引擎事件
func (m *ContactsListModel) end() {
	m.mutating = false
	if m.flushing {
		return
	}
	m.flushing = true
	for len(m.pending) > 0 {
		ch := m.pending[0]
		m.pending = m.pending[1:]
		m.applyChange(ch)
	}
	m.pending = nil
	m.flushing = false
}

func (m *ContactsListModel) insert(row int, c *contact.Contact) {
	m.emit(Event{Kind: RowsAboutToBeInserted, First: row, Last: row})
	m.list = slices.Insert(m.list, row, c)
	m.emit(Event{Kind: RowsInserted, First: row, Last: row})
	m.emit(Event{Kind: ContactAdded, First: row, Last: row, Contact: c})
}

func (m *ContactsListModel) remove(row, count int) {
	last := row + count - 1
	victims := slices.Clone(m.list[row : row+count])

	m.emit(Event{Kind: RowsAboutToBeRemoved, First: row, Last: last})
	m.list = slices.Delete(m.list, row, row+count)
	m.emit(Event{Kind: RowsRemoved, First: row, Last: last})
	for _, c := range victims {
		m.emit(Event{Kind: ContactRemoved, First: -1, Last: -1, Contact: c})
	}
}

func (m *ContactsListModel) rowOf(refKey string) int {
	for i, c := range m.list {
		if c.RefKey() == refKey {
			return i
		}
	}
	return -1
}
