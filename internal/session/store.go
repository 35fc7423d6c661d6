package session

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"civicconnect/internal/store"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

const keyPrefix = "session:"

// Store keeps session state server-side in a KV (Redis in production,
// memory in tests). The cookie carries only a signed session ID.
type Store struct {
	kv      store.KV
	codecs  []securecookie.Codec
	options *sessions.Options
}

var _ sessions.Store = (*Store)(nil)

func NewStore(kv store.KV, secret []byte, maxAge int) *Store {
	s := &Store{
		kv:     kv,
		codecs: securecookie.CodecsFromPairs(secret),
		options: &sessions.Options{
			Path:     "/",
			MaxAge:   maxAge,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
	}
	for _, codec := range s.codecs {
		if sc, ok := codec.(*securecookie.SecureCookie); ok {
			sc.MaxAge(maxAge)
		}
	}
	return s
}

func (s *Store) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

func (s *Store) New(r *http.Request, name string) (*sessions.Session, error) {
	sess := sessions.NewSession(s, name)
	opts := *s.options
	sess.Options = &opts
	sess.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return sess, nil
	}
	var id string
	if err := securecookie.DecodeMulti(name, c.Value, &id, s.codecs...); err != nil {
		return sess, nil
	}
	sess.ID = id
	if err := s.load(r, sess); err == nil {
		sess.IsNew = false
	}
	return sess, nil
}

func (s *Store) Save(r *http.Request, w http.ResponseWriter, sess *sessions.Session) error {
	if sess.Options.MaxAge < 0 {
		if sess.ID != "" {
			if err := s.kv.Del(r.Context(), keyPrefix+sess.ID); err != nil {
				return err
			}
		}
		http.SetCookie(w, sessions.NewCookie(sess.Name(), "", sess.Options))
		return nil
	}

	if sess.ID == "" {
		sess.ID = strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	if err := s.persist(r, sess); err != nil {
		return err
	}
	encoded, err := securecookie.EncodeMulti(sess.Name(), sess.ID, s.codecs...)
	if err != nil {
		return err
	}
	http.SetCookie(w, sessions.NewCookie(sess.Name(), encoded, sess.Options))
	return nil
}

// Session values are JSON — only string keys are supported.
func (s *Store) persist(r *http.Request, sess *sessions.Session) error {
	values := make(map[string]any, len(sess.Values))
	for k, v := range sess.Values {
		key, ok := k.(string)
		if !ok {
			return fmt.Errorf("non-string session key %v", k)
		}
		values[key] = v
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return err
	}
	ttl := time.Duration(sess.Options.MaxAge) * time.Second
	return s.kv.Set(r.Context(), keyPrefix+sess.ID, string(raw), ttl)
}

func (s *Store) load(r *http.Request, sess *sessions.Session) error {
	raw, err := s.kv.Get(r.Context(), keyPrefix+sess.ID)
	if err != nil {
		return err
	}
	var values map[string]any
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return err
	}
	for k, v := range values {
		sess.Values[k] = v
	}
	return nil
}
