package addresses

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kama_address_book/internal/listmodel"
	"kama_address_book/internal/registry"
	"kama_address_book/internal/vcard"
)

func card(name string, addrs ...string) *vcard.Vcard {
	return &vcard.Vcard{Username: name, SipAddresses: addrs}
}

func rows(m *SipAddressesModel) []string {
	out := []string{}
	for row := 0; row < m.RowCount(listmodel.RootIndex()); row++ {
		out = append(out, m.Data(listmodel.Index(row), listmodel.RoleSipAddress).(string))
	}
	return out
}

func TestBuildsFromExistingContacts(t *testing.T) {
	reg := registry.NewMemory("default")
	_, err := reg.AddRecord(card("bob", "sip:bob@example.org"))
	require.NoError(t, err)
	_, err = reg.AddRecord(card("alice", "sip:alice@example.org", "sip:alice@home.example.org"))
	require.NoError(t, err)

	contacts, err := listmodel.New(reg)
	require.NoError(t, err)
	m := New(contacts)

	assert.Equal(t, []string{"sip:alice@example.org", "sip:alice@home.example.org", "sip:bob@example.org"}, rows(m))
	assert.Equal(t, "alice", m.Data(listmodel.Index(1), listmodel.RoleUsername))
	assert.Nil(t, m.Data(listmodel.Index(3), listmodel.RoleSipAddress))
	assert.Equal(t, "bob", m.MapSipAddressToContact("sip:bob@example.org").Username())
}

func TestFollowsContactsList(t *testing.T) {
	contacts, err := listmodel.New(registry.NewMemory("default"))
	require.NoError(t, err)
	m := New(contacts)

	var kinds []listmodel.EventKind
	m.Subscribe(func(ev listmodel.Event) { kinds = append(kinds, ev.Kind) })

	alice, err := contacts.AddContact(card("alice", "sip:alice@example.org"))
	require.NoError(t, err)
	_, err = contacts.AddContact(card("carol", "sip:carol@example.org"))
	require.NoError(t, err)
	assert.Equal(t, []string{"sip:alice@example.org", "sip:carol@example.org"}, rows(m))

	require.NoError(t, contacts.RemoveContact(alice))
	assert.Equal(t, []string{"sip:carol@example.org"}, rows(m))
	assert.Nil(t, m.MapSipAddressToContact("sip:alice@example.org"))
	assert.Equal(t, []listmodel.EventKind{
		listmodel.RowsAboutToBeInserted, listmodel.RowsInserted,
		listmodel.RowsAboutToBeInserted, listmodel.RowsInserted,
		listmodel.RowsAboutToBeRemoved, listmodel.RowsRemoved,
	}, kinds)
}

func TestSharedAddressMovesToRemainingOwner(t *testing.T) {
	contacts, err := listmodel.New(registry.NewMemory("default"))
	require.NoError(t, err)
	m := New(contacts)

	first, err := contacts.AddContact(card("front desk", "sip:desk@example.org"))
	require.NoError(t, err)
	_, err = contacts.AddContact(card("reception", "sip:desk@example.org"))
	require.NoError(t, err)
	assert.Equal(t, "front desk", m.MapSipAddressToContact("sip:desk@example.org").Username())

	require.NoError(t, contacts.RemoveContact(first))
	assert.Equal(t, []string{"sip:desk@example.org"}, rows(m))
	assert.Equal(t, "reception", m.MapSipAddressToContact("sip:desk@example.org").Username())
}

func TestCloseStopsFollowing(t *testing.T) {
	contacts, err := listmodel.New(registry.NewMemory("default"))
	require.NoError(t, err)
	m := New(contacts)
	m.Close()

	_, err = contacts.AddContact(card("alice", "sip:alice@example.org"))
	require.NoError(t, err)
	assert.Equal(t, 0, m.RowCount(listmodel.RootIndex()))
}
