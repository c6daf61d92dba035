package shared

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "portal:session:"
	fieldUser        = "_user"
	fieldFlashes     = "_flashes"
	valuePrefix      = "v:"
)

// FlashMessage is a one-time notice shown on the next rendered page.
type FlashMessage struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// SessionManager keeps visitor and admin sessions in Redis hashes. The cookie
// carries the session id plus an HMAC of it.
type SessionManager struct {
	client     *redis.Client
	cookieName string
	ttl        time.Duration
	secure     bool
	secret     []byte
}

// Session is the per-request view of a stored session.
type Session struct {
	ID string

	data    map[string]string
	user    string
	flashes []FlashMessage

	fresh       bool
	changed     bool
	destroyed   bool
	rotatedFrom string
}

// NewSessionManager constructs a SessionManager.
func NewSessionManager(client *redis.Client, cookieName string, secret string, ttl time.Duration, secure bool) *SessionManager {
	return &SessionManager{
		client:     client,
		cookieName: cookieName,
		ttl:        ttl,
		secure:     secure,
		secret:     []byte(secret),
	}
}

// Load returns the session named by the request cookie, or a fresh one when
// the cookie is missing, badly signed or no longer stored.
func (sm *SessionManager) Load(ctx context.Context, r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(sm.cookieName)
	if errors.Is(err, http.ErrNoCookie) {
		return sm.fresh(), nil
	}
	if err != nil {
		return nil, err
	}
	id, ok := sm.verify(cookie.Value)
	if !ok {
		return sm.fresh(), nil
	}

	fields, err := sm.client.HGetAll(ctx, sessionKeyPrefix+id).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return sm.fresh(), nil
	}

	sess := &Session{ID: id, data: make(map[string]string, len(fields))}
	for k, v := range fields {
		switch {
		case k == fieldUser:
			sess.user = v
		case k == fieldFlashes:
			if err := json.Unmarshal([]byte(v), &sess.flashes); err != nil {
				return nil, err
			}
		case strings.HasPrefix(k, valuePrefix):
			sess.data[strings.TrimPrefix(k, valuePrefix)] = v
		}
	}
	return sess, nil
}

// Commit writes the session back and sets or clears the cookie. A fresh
// session that never held anything is dropped without a cookie.
func (sm *SessionManager) Commit(ctx context.Context, w http.ResponseWriter, r *http.Request, sess *Session) error {
	if sess == nil {
		return nil
	}

	if sess.destroyed {
		stale := []string{sessionKeyPrefix + sess.ID}
		if sess.rotatedFrom != "" {
			stale = append(stale, sessionKeyPrefix+sess.rotatedFrom)
		}
		if err := sm.client.Del(ctx, stale...).Err(); err != nil {
			return err
		}
		http.SetCookie(w, sm.cookie("", -1))
		return nil
	}

	if sess.fresh && sess.empty() {
		return nil
	}

	if sess.changed {
		if err := sm.save(ctx, sess); err != nil {
			return err
		}
		sess.fresh, sess.changed, sess.rotatedFrom = false, false, ""
	}

	http.SetCookie(w, sm.cookie(sm.CookieValue(sess.ID), 0))
	return nil
}

// save replaces the stored hash in one MULTI so readers never see a partial
// session.
func (sm *SessionManager) save(ctx context.Context, sess *Session) error {
	key := sessionKeyPrefix + sess.ID
	fields := make(map[string]any, len(sess.data)+2)
	for k, v := range sess.data {
		fields[valuePrefix+k] = v
	}
	if sess.user != "" {
		fields[fieldUser] = sess.user
	}
	if len(sess.flashes) > 0 {
		raw, err := json.Marshal(sess.flashes)
		if err != nil {
			return err
		}
		fields[fieldFlashes] = string(raw)
	}

	_, err := sm.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if sess.rotatedFrom != "" {
			pipe.Del(ctx, sessionKeyPrefix+sess.rotatedFrom)
		}
		pipe.Del(ctx, key)
		if len(fields) > 0 {
			pipe.HSet(ctx, key, fields)
			pipe.Expire(ctx, key, sm.ttl)
		}
		return nil
	})
	return err
}

func (sm *SessionManager) cookie(value string, maxAge int) *http.Cookie {
	c := &http.Cookie{
		Name:     sm.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if maxAge == 0 {
		c.Expires = time.Now().Add(sm.ttl)
	}
	return c
}

// CookieValue is the signed cookie payload for a session id.
func (sm *SessionManager) CookieValue(id string) string {
	return id + "." + sm.sign(id)
}

func (sm *SessionManager) sign(id string) string {
	mac := hmac.New(sha256.New, sm.secret)
	mac.Write([]byte(id))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (sm *SessionManager) verify(value string) (string, bool) {
	id, sig, ok := strings.Cut(value, ".")
	if !ok || id == "" {
		return "", false
	}
	return id, hmac.Equal([]byte(sig), []byte(sm.sign(id)))
}

// Destroy marks the session for deletion on commit.
func (sm *SessionManager) Destroy(sess *Session) {
	if sess != nil {
		sess.destroyed = true
	}
}

// Renew gives the session a new id and keeps its contents. The old key is
// removed on commit.
func (sm *SessionManager) Renew(sess *Session) {
	if sess == nil {
		return
	}
	if !sess.fresh && sess.rotatedFrom == "" {
		sess.rotatedFrom = sess.ID
	}
	sess.ID = uuid.NewString()
	sess.changed = true
}

// TTL is the configured session lifetime.
func (sm *SessionManager) TTL() time.Duration { return sm.ttl }

// CookieName is the session cookie name.
func (sm *SessionManager) CookieName() string { return sm.cookieName }

func (sm *SessionManager) fresh() *Session {
	return &Session{ID: uuid.NewString(), data: map[string]string{}, fresh: true, changed: true}
}

// Set stores a value.
func (s *Session) Set(key, value string) {
	if s.data == nil {
		s.data = map[string]string{}
	}
	s.data[key] = value
	s.changed = true
}

// Get returns a stored value or "".
func (s *Session) Get(key string) string {
	return s.data[key]
}

// Delete removes a value.
func (s *Session) Delete(key string) {
	if _, ok := s.data[key]; ok {
		delete(s.data, key)
		s.changed = true
	}
}

// SetUser binds the session to an admin user id; "" signs out.
func (s *Session) SetUser(id string) {
	s.user = id
	s.changed = true
}

// User is the signed-in admin user id, or "".
func (s *Session) User() string {
	return s.user
}

// AddFlash queues a flash message.
func (s *Session) AddFlash(msg FlashMessage) {
	s.flashes = append(s.flashes, msg)
	s.changed = true
}

// PopFlash removes and returns the oldest flash message.
func (s *Session) PopFlash() *FlashMessage {
	if len(s.flashes) == 0 {
		return nil
	}
	msg := s.flashes[0]
	s.flashes = s.flashes[1:]
	s.changed = true
	return &msg
}

func (s *Session) empty() bool {
	return len(s.data) == 0 && s.user == "" && len(s.flashes) == 0
}

type sessionKey struct{}

// ContextWithSession attaches the request session to ctx.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

// SessionFromContext returns the request session, or nil on stateless routes.
func SessionFromContext(ctx context.Context) *Session {
	if sess, ok := ctx.Value(sessionKey{}).(*Session); ok {
		return sess
	}
	return nil
}

// Flash queues a one-time notice when the request carries a session.
func Flash(ctx context.Context, kind, message string) {
	if sess := SessionFromContext(ctx); sess != nil {
		sess.AddFlash(FlashMessage{Kind: kind, Message: message})
	}
}
