package console

import (
	"errors"
	"sync"
)

var (
	// ErrSecretConsumed means the token was already displayed once.
	ErrSecretConsumed = errors.New("secret already revealed")
	// ErrSecretDismissed means the reveal was closed and the token wiped.
	ErrSecretDismissed = errors.New("secret dismissed")
)

// SecretReveal holds a freshly issued token (instance auth token) for exactly
// one display. The backend never returns the token again, and neither does
// this type: after Reveal the token can still be copied until Dismiss wipes
// it, but a second Reveal or any access after Dismiss fails.
type SecretReveal struct {
	mu        sync.Mutex
	token     string
	revealed  bool
	dismissed bool
}

func NewSecretReveal(token string) *SecretReveal {
	return &SecretReveal{token: token}
}

// Reveal returns the token for display. It succeeds exactly once.
func (r *SecretReveal) Reveal() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dismissed {
		return "", ErrSecretDismissed
	}
	if r.revealed {
		return "", ErrSecretConsumed
	}
	r.revealed = true
	return r.token, nil
}

// Copy hands the token to a clipboard-style callback. It works only while the
// reveal is on display (revealed, not yet dismissed).
func (r *SecretReveal) Copy(fn func(token string) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dismissed {
		return ErrSecretDismissed
	}
	if !r.revealed {
		return errors.New("secret not yet revealed")
	}
	return fn(r.token)
}

// Dismiss wipes the token. The reveal is unusable afterwards.
func (r *SecretReveal) Dismiss() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.token = ""
	r.dismissed = true
}

// Dismissed reports whether the reveal has been closed.
func (r *SecretReveal) Dismissed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dismissed
}
