package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"civicconnect/internal/store"

	"github.com/stretchr/testify/require"
)

const testSessionName = "test_session"

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func saveSession(t *testing.T, s *Store, modify func(values map[any]any)) *http.Cookie {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	sess, err := s.Get(r, testSessionName)
	require.NoError(t, err)
	modify(sess.Values)
	require.NoError(t, sess.Save(r, w))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestSessionRoundTrip(t *testing.T) {
	s := NewStore(store.NewMemoryKV(), testSecret, 3600)

	cookie := saveSession(t, s, func(values map[any]any) {
		values["user_id"] = "42"
	})
	// Cookie carries an opaque signed ID, never the values.
	require.NotContains(t, cookie.Value, "42")
	require.True(t, cookie.HttpOnly)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookie)
	sess, err := s.Get(r, testSessionName)
	require.NoError(t, err)
	require.False(t, sess.IsNew)
	require.Equal(t, "42", sess.Values["user_id"])
}

func TestSessionDestroy(t *testing.T) {
	kv := store.NewMemoryKV()
	s := NewStore(kv, testSecret, 3600)

	cookie := saveSession(t, s, func(values map[any]any) {
		values["user_id"] = "7"
	})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookie)
	w := httptest.NewRecorder()
	sess, err := s.Get(r, testSessionName)
	require.NoError(t, err)
	sess.Options.MaxAge = -1
	require.NoError(t, sess.Save(r, w))

	// Server-side state is gone even if the old cookie is replayed.
	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	r2.AddCookie(cookie)
	sess2, err := s.Get(r2, testSessionName)
	require.NoError(t, err)
	require.True(t, sess2.IsNew)
	require.Nil(t, sess2.Values["user_id"])
}

func TestSessionFlashes(t *testing.T) {
	s := NewStore(store.NewMemoryKV(), testSecret, 3600)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	sess, err := s.Get(r, testSessionName)
	require.NoError(t, err)
	sess.AddFlash("success|Saved")
	require.NoError(t, sess.Save(r, w))
	cookie := w.Result().Cookies()[0]

	// First read drains the flash.
	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	r2.AddCookie(cookie)
	w2 := httptest.NewRecorder()
	sess2, err := s.Get(r2, testSessionName)
	require.NoError(t, err)
	flashes := sess2.Flashes()
	require.Len(t, flashes, 1)
	require.Equal(t, "success|Saved", flashes[0])
	require.NoError(t, sess2.Save(r2, w2))

	// Second read sees nothing.
	r3 := httptest.NewRequest(http.MethodGet, "/", nil)
	r3.AddCookie(cookie)
	sess3, err := s.Get(r3, testSessionName)
	require.NoError(t, err)
	require.Empty(t, sess3.Flashes())
}

func TestTamperedCookieYieldsFreshSession(t *testing.T) {
	s := NewStore(store.NewMemoryKV(), testSecret, 3600)

	cookie := saveSession(t, s, func(values map[any]any) {
		values["user_id"] = "9"
	})
	cookie.Value = "garbage" + cookie.Value

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookie)
	sess, err := s.Get(r, testSessionName)
	require.NoError(t, err)
	require.True(t, sess.IsNew)
	require.Nil(t, sess.Values["user_id"])
}
