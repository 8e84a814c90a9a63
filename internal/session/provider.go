package session

import (
	"fmt"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
)

// Key is the storage key holding the guest session id.
const Key = "guest_session_id"

// Provider hands out the anonymous id that scopes every cart row to this
// client. The id is created on first use and kept until Clear.
type Provider struct {
	mu      sync.Mutex
	storage Storage
	newID   func() string
}

func NewProvider(storage Storage) *Provider {
	return &Provider{storage: storage, newID: newSessionID}
}

func (p *Provider) SessionID() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id, ok, err := p.storage.Get(Key)
	if err != nil {
		return "", fmt.Errorf("read session id: %w", err)
	}
	if ok && id != "" {
		return id, nil
	}

	id = p.newID()
	if err := p.storage.Set(Key, id); err != nil {
		return "", fmt.Errorf("store session id: %w", err)
	}
	return id, nil
}

// Clear forgets the id. Rows stored under it stay in the store but this
// client can no longer reach them.
func (p *Provider) Clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.storage.Remove(Key)
}

// newSessionID is a ULID: millisecond timestamp followed by 80 random bits.
func newSessionID() string {
	return "guest_" + strings.ToLower(ulid.Make().String())
}
