package download

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"
)

// tokenBytes gives 256 bits of randomness per token.
const tokenBytes = 32

type record struct {
	filename string
	subject  string
	expiry   time.Time
}

// Manager issues and redeems single-use download tokens bound to an
// artifact filename and the requesting identity.
//
// The store is an in-memory map guarded by a mutex; redemption deletes the
// record under the same lock that reads it, so a token can never be
// observed as valid twice, even under concurrent redemption. State is
// intentionally ephemeral and does not survive a restart.
type Manager struct {
	mu     sync.Mutex
	tokens map[string]record
	ttl    time.Duration
	now    func() time.Time
}

// NewManager constructs a Manager with the given token lifetime.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		tokens: make(map[string]record),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue creates a cryptographically random token bound to the filename and
// the issuing subject, valid for the configured TTL. The subject is kept
// for auditing only; it is not re-checked at redemption.
func (m *Manager) Issue(filename, subject string) string {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failure means the process has no usable entropy
		// source; issuing a guessable token instead is not acceptable.
		panic("download: crypto/rand unavailable: " + err.Error())
	}
	token := base64.RawURLEncoding.EncodeToString(buf)

	m.mu.Lock()
	m.tokens[token] = record{
		filename: filename,
		subject:  subject,
		expiry:   m.now().Add(m.ttl),
	}
	m.mu.Unlock()

	return token
}

// Redeem looks up a token and consumes it. The lookup and the delete happen
// under one lock acquisition: a found record is removed whether it turns
// out to be live or expired, so every token is usable at most once.
//
// Returns the bound filename, the issuing subject and true when the token
// was live; zero values and false otherwise.
func (m *Manager) Redeem(token string) (filename, subject string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, found := m.tokens[token]
	if !found {
		return "", "", false
	}
	delete(m.tokens, token)

	if m.now().After(rec.expiry) {
		return "", "", false
	}
	return rec.filename, rec.subject, true
}

// Sweep evicts expired records that were never redeemed and reports how
// many were removed. Without it, unread expired tokens would accumulate
// for the lifetime of the process.
func (m *Manager) Sweep() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for token, rec := range m.tokens {
		if now.After(rec.expiry) {
			delete(m.tokens, token)
			n++
		}
	}
	return n
}

// Len reports the number of live records, for tests and metrics.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tokens)
}

// StartSweeper runs Sweep on the given interval until ctx is cancelled.
func (m *Manager) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				m.Sweep()
			}
		}
	}()
}
