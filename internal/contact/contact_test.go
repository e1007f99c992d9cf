package contact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kama_address_book/internal/model"
	"kama_address_book/internal/vcard"
)

func TestNewFromVcardText(t *testing.T) {
	text, err := (&vcard.Vcard{
		Username:     "Alice",
		SipAddresses: []string{"sip:alice@example.org"},
		Avatar:       "https://example.org/alice.png",
	}).Marshal()
	require.NoError(t, err)

	c, err := New(&model.Friend{RefKey: "k1", Vcard: text})
	require.NoError(t, err)
	assert.Equal(t, "k1", c.RefKey())
	assert.Equal(t, "Alice", c.Username())
	assert.Equal(t, "https://example.org/alice.png", c.Avatar())
	assert.True(t, c.HasSipAddress("sip:alice@example.org"))
	assert.False(t, c.HasSipAddress("sip:bob@example.org"))
}

func TestNewFallsBackToColumns(t *testing.T) {
	c, err := New(&model.Friend{
		RefKey:       "k2",
		DisplayName:  "Bob",
		SipAddresses: []string{"sip:bob@example.org"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Bob", c.Username())
	assert.Equal(t, "sip:bob@example.org", c.PrimarySipAddress())
}

func TestNewRejectsMissingRefKey(t *testing.T) {
	_, err := New(&model.Friend{DisplayName: "ghost"})
	assert.Error(t, err)
	_, err = New(nil)
	assert.Error(t, err)
}

func TestPresence(t *testing.T) {
	c, err := New(&model.Friend{RefKey: "k3", DisplayName: "Carol"})
	require.NoError(t, err)

	assert.Equal(t, PresenceOffline, c.Presence())
	assert.True(t, c.SetPresence(PresenceOnline))
	assert.False(t, c.SetPresence(PresenceOnline))
	assert.Equal(t, "online", c.Presence().String())
	assert.Equal(t, PresenceDoNotDisturb, ParsePresence("DND"))
	assert.Equal(t, PresenceOffline, ParsePresence("???"))
}
