package service

import (
	"testing"
	"time"

	"github.com/Badsnus/tabqr/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessions_PutGetDelete(t *testing.T) {
	sessions := NewSessions(time.Hour)

	session := sessions.Put(entity.PopupState{SessionID: "s1", Text: "a"})
	require.NotNil(t, session.Surface)

	got, ok := sessions.Get("s1")
	require.True(t, ok)
	assert.Equal(t, "a", got.State().Text)

	got.Update(func(state entity.PopupState) entity.PopupState {
		state.Text = "b"
		return state
	})
	assert.Equal(t, "b", session.State().Text)

	last, ok := sessions.Delete("s1")
	assert.True(t, ok)
	assert.Equal(t, "b", last.Text)

	_, ok = sessions.Get("s1")
	assert.False(t, ok)
	_, ok = sessions.Delete("s1")
	assert.False(t, ok)
}

func TestSessions_Expire(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	sessions := NewSessions(10 * time.Minute)
	sessions.now = func() time.Time { return now }

	sessions.Put(entity.PopupState{SessionID: "old"})
	now = now.Add(5 * time.Minute)
	sessions.Put(entity.PopupState{SessionID: "fresh"})
	now = now.Add(6 * time.Minute)

	expired := sessions.Expire()
	require.Len(t, expired, 1)
	assert.Equal(t, "old", expired[0].SessionID)
	assert.Equal(t, 1, sessions.Len())

	// Get keeps a session alive
	now = now.Add(8 * time.Minute)
	_, ok := sessions.Get("fresh")
	require.True(t, ok)
	now = now.Add(8 * time.Minute)
	assert.Empty(t, sessions.Expire())
}

func TestSessions_NoTTLNeverExpires(t *testing.T) {
	sessions := NewSessions(0)
	sessions.Put(entity.PopupState{SessionID: "s"})
	assert.Empty(t, sessions.Expire())
}
