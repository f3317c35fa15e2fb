package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vassetti/patter/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "patter.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_EnsureChannelIsIdempotent(t *testing.T) {
	s := openTestStore(t)

	id1, err := s.EnsureChannel("general", "the lobby")
	require.NoError(t, err)
	id2, err := s.EnsureChannel("general", "")
	require.NoError(t, err)
	require.Equal(t, id1, id2)

	other, err := s.EnsureChannel("random", "")
	require.NoError(t, err)
	require.NotEqual(t, id1, other)
}

func TestStore_AppendFillsIdentity(t *testing.T) {
	s := openTestStore(t)
	ch, err := s.EnsureChannel("general", "")
	require.NoError(t, err)

	msg := models.Message{ChannelID: ch, Author: "ada", Body: "hello"}
	require.NoError(t, s.Append(&msg))
	require.NotZero(t, msg.ID)
	require.NotEmpty(t, msg.GUID)
	require.False(t, msg.SentAt.IsZero())
}

func TestStore_MessagesSinceReturnsOnlyNewRows(t *testing.T) {
	s := openTestStore(t)
	ch, err := s.EnsureChannel("general", "")
	require.NoError(t, err)

	first := models.Message{ChannelID: ch, Author: "ada", Body: "one"}
	require.NoError(t, s.Append(&first))
	second := models.Message{ChannelID: ch, Author: "lin", Body: "two"}
	require.NoError(t, s.Append(&second))

	all, err := s.Messages(ch)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "one", all[0].Body)
	require.Equal(t, "two", all[1].Body)

	newer, err := s.MessagesSince(ch, first.ID)
	require.NoError(t, err)
	require.Len(t, newer, 1)
	require.Equal(t, second.GUID, newer[0].GUID)
}

func TestStore_ChannelsCarryLastMessage(t *testing.T) {
	s := openTestStore(t)
	general, err := s.EnsureChannel("general", "the lobby")
	require.NoError(t, err)
	_, err = s.EnsureChannel("quiet", "")
	require.NoError(t, err)

	require.NoError(t, s.Append(&models.Message{ChannelID: general, Author: "ada", Body: "latest"}))

	channels, err := s.Channels()
	require.NoError(t, err)
	require.Len(t, channels, 2)

	// Channel with the newest message sorts first.
	require.Equal(t, "general", channels[0].Name)
	require.Equal(t, "latest", channels[0].LastBody)
	require.Equal(t, "ada", channels[0].LastAuthor)
	require.Equal(t, "quiet", channels[1].Name)
	require.Empty(t, channels[1].LastBody)
}
