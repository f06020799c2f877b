package session

import (
	"errors"
	"path/filepath"
	"testing"

	"oasi/internal/storage"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ana = UserSummary{ID: 7, Name: "Ana", Email: "ana@oasi.dev", Phone: "11 99999-0000"}

// failingStorage fails every operation.
type failingStorage struct{}

func (failingStorage) Get(string) ([]byte, bool, error) { return nil, false, errors.New("disk gone") }
func (failingStorage) Set(string, []byte) error         { return errors.New("disk gone") }
func (failingStorage) Remove(string) error              { return errors.New("disk gone") }

// readOnlyStorage reads and removes but refuses writes.
type readOnlyStorage struct {
	storage.Storage
}

func (readOnlyStorage) Set(string, []byte) error { return errors.New("read-only") }

func TestStore_StartsEmpty(t *testing.T) {
	t.Parallel()
	s := NewStore(storage.NewMemory())

	assert.False(t, s.Authenticated())
	_, ok := s.UserID()
	assert.False(t, ok)
	assert.Empty(t, s.Token())
	assert.Equal(t, Session{}, s.Current())
}

func TestStore_LoginRestoreRoundTrip(t *testing.T) {
	t.Parallel()
	st := storage.NewMemory()

	s := NewStore(st)
	require.NoError(t, s.Login("tok-1", ana))
	assert.True(t, s.Authenticated())

	id, ok := s.UserID()
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)

	// A fresh store over the same storage sees the same session.
	fresh := NewStore(st)
	got := fresh.Restore()
	want := Session{User: &ana, Token: "tok-1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Restore() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, fresh.Current()); diff != "" {
		t.Errorf("Current() mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_RoundTripOnSQLite(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "oasi.db")

	db, err := storage.Open(path)
	require.NoError(t, err)
	require.NoError(t, NewStore(db).Login("tok-sql", ana))
	require.NoError(t, db.Close())

	reopened, err := storage.Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got := NewStore(reopened).Restore()
	require.True(t, got.Present())
	assert.Equal(t, "tok-sql", got.Token)
	assert.Equal(t, ana, *got.User)
}

func TestStore_LogoutThenRestoreIsEmpty(t *testing.T) {
	t.Parallel()
	st := storage.NewMemory()
	s := NewStore(st)
	require.NoError(t, s.Login("tok-1", ana))

	require.NoError(t, s.Logout())
	assert.False(t, s.Authenticated())

	_, present, _ := st.Get(StorageKey)
	assert.False(t, present, "logout removes the durable slot")

	assert.Equal(t, Session{}, NewStore(st).Restore())
}

func TestStore_LoginReplacesPreviousSession(t *testing.T) {
	t.Parallel()
	st := storage.NewMemory()
	s := NewStore(st)
	require.NoError(t, s.Login("tok-1", ana))

	bruno := UserSummary{ID: 8, Name: "Bruno"}
	require.NoError(t, s.Login("tok-2", bruno))

	got := NewStore(st).Restore()
	assert.Equal(t, "tok-2", got.Token)
	assert.Equal(t, int64(8), got.User.ID)
}

func TestStore_LoginRejectsIncompleteSession(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		token string
		user  UserSummary
	}{
		{"empty token", "", ana},
		{"zero user id", "tok", UserSummary{Name: "x"}},
		{"negative user id", "tok", UserSummary{ID: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(storage.NewMemory())
			err := s.Login(tt.token, tt.user)
			assert.ErrorIs(t, err, ErrInvalidSession)
			assert.False(t, s.Authenticated())
		})
	}
}

func TestStore_RestoreMalformedSlot(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "{not json"},
		{"wrong shape", `["a","b"]`},
		{"missing token", `{"user":{"id":1,"nome":"A"}}`},
		{"empty token", `{"user":{"id":1,"nome":"A"},"token":""}`},
		{"null user", `{"user":null,"token":"t"}`},
		{"missing user", `{"token":"t"}`},
		{"zero id", `{"user":{"id":0,"nome":"A"},"token":"t"}`},
		{"string id", `{"user":{"id":"1"},"token":"t"}`},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := storage.NewMemory()
			require.NoError(t, st.Set(StorageKey, []byte(tt.raw)))

			s := NewStore(st)
			var got Session
			assert.NotPanics(t, func() { got = s.Restore() })
			assert.Equal(t, Session{}, got)
			assert.False(t, s.Authenticated())
		})
	}
}

func TestStore_RestoreUnreadableStorage(t *testing.T) {
	t.Parallel()
	s := NewStore(failingStorage{})
	assert.Equal(t, Session{}, s.Restore())
}

func TestStore_LoginKeepsMemoryWhenPersistFails(t *testing.T) {
	t.Parallel()
	s := NewStore(failingStorage{})

	err := s.Login("tok", ana)
	require.Error(t, err)
	assert.True(t, s.Authenticated(), "session is usable for this run")

	require.Error(t, s.Logout())
	assert.False(t, s.Authenticated())
}

func TestStore_RestoreKeepsUnsavedSession(t *testing.T) {
	t.Parallel()
	s := NewStore(readOnlyStorage{storage.NewMemory()})

	require.Error(t, s.Login("tok", ana))
	restored := s.Restore()
	assert.True(t, restored.Present())
	assert.True(t, s.Authenticated(), "an empty slot does not log out an unsaved session")

	require.NoError(t, s.Logout())
	assert.Equal(t, Session{}, s.Restore())
}

func TestStore_RestoreOverwritesMemoryWithStorage(t *testing.T) {
	t.Parallel()
	st := storage.NewMemory()
	a := NewStore(st)
	b := NewStore(st)

	require.NoError(t, a.Login("tok", ana))
	assert.False(t, b.Authenticated())

	b.Restore()
	assert.True(t, b.Authenticated())

	require.NoError(t, a.Logout())
	b.Restore()
	assert.False(t, b.Authenticated(), "another instance's logout is picked up on restore")
}

func TestStore_CurrentIsACopy(t *testing.T) {
	t.Parallel()
	s := NewStore(storage.NewMemory())
	require.NoError(t, s.Login("tok", ana))

	cur := s.Current()
	cur.User.Name = "mutated"
	assert.Equal(t, "Ana", s.Current().User.Name)
}

func TestStore_Subscribe(t *testing.T) {
	t.Parallel()
	st := storage.NewMemory()
	s := NewStore(st)

	var seen []bool
	unsubscribe := s.Subscribe(func(sess Session) { seen = append(seen, sess.Present()) })

	require.NoError(t, s.Login("tok", ana))
	s.Restore() // unchanged, no notification
	require.NoError(t, s.Logout())

	unsubscribe()
	require.NoError(t, s.Login("tok", ana))

	assert.Equal(t, []bool{true, false}, seen)
}
