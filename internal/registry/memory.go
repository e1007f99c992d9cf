package registry

import (
	"sync"

	"kama_address_book/internal/model"
	"kama_address_book/internal/vcard"
	"kama_address_book/pkg/errorx"
)

// Memory 进程内好友列表，记录按写入顺序枚举
type Memory struct {
	name    string
	mu      sync.Mutex
	records []*model.Friend
}

func NewMemory(name string) *Memory {
	return &Memory{name: name}
}

func (m *Memory) Records() ([]*model.Friend, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.Friend(nil), m.records...), nil
}

func (m *Memory) FindRecord(refKey string) (*model.Friend, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexOf(refKey); i >= 0 {
		return m.records[i], nil
	}
	return nil, errorx.Wrapf(errorx.ErrRecordNotFound, errorx.CodeNotFound, "查询好友 ref_key=%s", refKey)
}

func (m *Memory) AddRecord(profile *vcard.Vcard) (*model.Friend, error) {
	friend, err := NewRecord(m.name, profile)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, friend)
	return friend, nil
}

func (m *Memory) RemoveRecord(friend *model.Friend) error {
	return m.RemoveRecords([]*model.Friend{friend})
}

func (m *Memory) RemoveRecords(friends []*model.Friend) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	drop := make(map[string]struct{}, len(friends))
	for _, f := range friends {
		if f == nil || m.indexOf(f.RefKey) < 0 {
			return errorx.ErrRecordNotFound
		}
		drop[f.RefKey] = struct{}{}
	}
	kept := m.records[:0:0]
	for _, f := range m.records {
		if _, ok := drop[f.RefKey]; !ok {
			kept = append(kept, f)
		}
	}
	m.records = kept
	return nil
}

func (m *Memory) indexOf(refKey string) int {
	for i, f := range m.records {
		if f.RefKey == refKey {
			return i
		}
	}
	return -1
}

var _ Registry = (*Memory)(nil)
