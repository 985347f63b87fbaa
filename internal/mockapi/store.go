package mockapi

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/nyacdn/cdnctl/internal/api"
)

var ErrNotFound = errors.New("not found")

// collection is an ordered in-memory table. Ids are assigned from a
// monotonically increasing counter and never reused, even after deletes.
type collection[T any] struct {
	nextID int64
	order  []int64
	items  map[int64]T
}

func newCollection[T any]() *collection[T] {
	return &collection[T]{items: make(map[int64]T)}
}

func (c *collection[T]) add(v T) int64 {
	c.nextID++
	id := c.nextID
	c.items[id] = v
	c.order = append(c.order, id)
	return id
}

func (c *collection[T]) get(id int64) (T, bool) {
	v, ok := c.items[id]
	return v, ok
}

func (c *collection[T]) remove(id int64) bool {
	if _, ok := c.items[id]; !ok {
		return false
	}
	delete(c.items, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

func (c *collection[T]) list() []T {
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out
}

type userRecord struct {
	api.User
	passwordHash []byte
}

type instanceRecord struct {
	api.Instance
	// token is the instance's agent credential. It is returned exactly once,
	// by create and rotate, and stripped from every info/list response.
	token string
}

type fileRecord struct {
	api.AdditionalFile
	content []byte
}

// Store is the in-memory state behind the mock admin API. All access goes
// through the handlers under a single mutex; there is no persistence.
type Store struct {
	mu sync.Mutex

	users     *collection[*userRecord]
	instances *collection[*instanceRecord]
	sites     *collection[*api.Site]
	certs     *collection[*api.Cert]
	templates *collection[*api.Template]
	files     *collection[*fileRecord]

	// sessions maps admin bearer tokens to user ids.
	sessions map[string]int64
}

func NewStore() *Store {
	return &Store{
		users:     newCollection[*userRecord](),
		instances: newCollection[*instanceRecord](),
		sites:     newCollection[*api.Site](),
		certs:     newCollection[*api.Cert](),
		templates: newCollection[*api.Template](),
		files:     newCollection[*fileRecord](),
		sessions:  make(map[string]int64),
	}
}

// SeedUser creates an account directly, bypassing the API. Used by the mock
// server binary and by tests to bootstrap a login.
func (s *Store) SeedUser(name, username, password string, isAdmin bool) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := &userRecord{
		User:         api.User{Name: name, Username: username, IsAdmin: isAdmin},
		passwordHash: hash,
	}
	rec.ID = s.users.add(rec)
	return rec.ID, nil
}

func (s *Store) userByUsername(username string) (*userRecord, bool) {
	for _, u := range s.users.list() {
		if u.Username == username {
			return u, true
		}
	}
	return nil, false
}
