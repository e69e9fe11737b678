// Package credentials tracks the health of the API keys and the OAuth
// credential used against the YouTube Data API, and selects which one a
// request should be made with.
package credentials

import (
	"fmt"
	"sync"
	"time"
)

type Class string

const (
	ClassAPIKey Class = "api_key"
	ClassOAuth  Class = "oauth"
)

// OAuthID is the fixed identifier of the single OAuth credential.
const OAuthID = "oauth"

type Credential struct {
	ID    string
	Class Class

	// Key holds the API key secret. Empty for the OAuth credential,
	// whose token lives with the service factory.
	Key string

	QuotaExceeded bool
	Disabled      bool
	LastUsedAt    time.Time
}

// Pool owns the mutable credential state for the process lifetime.
// All operations are non-blocking; Acquire returns nil on exhaustion.
type Pool struct {
	mu    sync.Mutex
	creds []*Credential
}

func NewPool(apiKeys []string, withOAuth bool) *Pool {
	pool := &Pool{}
	for i, key := range apiKeys {
		pool.creds = append(pool.creds, &Credential{
			ID:    fmt.Sprintf("key-%d", i+1),
			Class: ClassAPIKey,
			Key:   key,
		})
	}
	if withOAuth {
		pool.creds = append(pool.creds, &Credential{ID: OAuthID, Class: ClassOAuth})
	}
	return pool
}

// Acquire returns a copy of the least-recently-used eligible credential of
// the first class in `classes` that has one, stamping its LastUsedAt.
// Stamping before returning keeps the rotation fair: a credential handed out
// is immediately the most recently used, whether or not the call succeeds.
func (p *Pool) Acquire(classes ...Class) *Credential {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, class := range classes {
		var best *Credential
		for _, cred := range p.creds {
			if cred.Class != class || cred.QuotaExceeded || cred.Disabled {
				continue
			}
			if best == nil || cred.LastUsedAt.Before(best.LastUsedAt) {
				best = cred
			}
		}
		if best != nil {
			best.LastUsedAt = time.Now()
			cp := *best
			return &cp
		}
	}
	return nil
}

func (p *Pool) MarkQuotaExceeded(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, cred := range p.creds {
		if cred.ID == id {
			cred.QuotaExceeded = true
		}
	}
}

// MarkDisabled takes a credential out of rotation permanently.
// Disabled implies quota-exceeded: an invalid credential is never retried.
func (p *Pool) MarkDisabled(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, cred := range p.creds {
		if cred.ID == id {
			cred.Disabled = true
			cred.QuotaExceeded = true
		}
	}
}

// ResetQuota clears the quota flag on every non-disabled credential.
// Invoked on the provider's daily quota reset schedule.
func (p *Pool) ResetQuota() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, cred := range p.creds {
		if !cred.Disabled {
			cred.QuotaExceeded = false
		}
	}
}

func (p *Pool) HasUsable(classes ...Class) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, cred := range p.creds {
		if cred.QuotaExceeded || cred.Disabled {
			continue
		}
		for _, class := range classes {
			if cred.Class == class {
				return true
			}
		}
	}
	return false
}

// Snapshot returns a copy of the pool state for logging and tests.
func (p *Pool) Snapshot() []Credential {
	p.mu.Lock()
	defer p.mu.Unlock()

	creds := make([]Credential, 0, len(p.creds))
	for _, cred := range p.creds {
		creds = append(creds, *cred)
	}
	return creds
}

func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.creds)
}
