package console

import (
	"context"
	"errors"
	"sync"

	"github.com/nyacdn/cdnctl/internal/api"
)

// PasswordPlaceholder is rendered in the locked password field of an existing
// user. It is a display sentinel only and is never accepted as a password.
const PasswordPlaceholder = "--keep-unchanged--"

// ErrPasswordPlaceholder is returned when the sentinel would be submitted as
// a literal password.
var ErrPasswordPlaceholder = errors.New("password field still holds the placeholder value")

// UserFormSession edits users. The generic guard covers the display name;
// username, password and admin role are independently unlockable sub-fields,
// each committed immediately through its own endpoint. On create, everything
// is bundled into the single create call instead.
type UserFormSession struct {
	*FormSession[api.UserInput]

	client *api.Client
	notify Notifier

	// selfID and onSelfChanged let a username change to the current account
	// refresh the session's cached self info.
	selfID        int64
	onSelfChanged func()

	mu               sync.Mutex
	username         string
	password         string
	isAdmin          bool
	usernameUnlocked bool
	passwordUnlocked bool
	roleUnlocked     bool
}

func NewUserFormSession(client *api.Client, notify Notifier, owner Invalidator, selfID int64, onSelfChanged func()) *UserFormSession {
	s := &UserFormSession{
		client:        client,
		notify:        notify,
		selfID:        selfID,
		onSelfChanged: onSelfChanged,
	}

	hooks := FormHooks[api.UserInput]{
		Fetch: func(ctx context.Context, id int64) (api.UserInput, error) {
			user, err := client.GetUser(ctx, id)
			if err != nil {
				return api.UserInput{}, err
			}
			s.mu.Lock()
			s.username = user.Username
			s.password = PasswordPlaceholder
			s.isAdmin = user.IsAdmin
			s.mu.Unlock()
			return api.UserInput{Name: user.Name}, nil
		},
		Create: func(ctx context.Context, input api.UserInput) (SubmitResult, error) {
			s.mu.Lock()
			create := api.UserCreate{
				Name:     input.Name,
				Username: s.username,
				Password: s.password,
				IsAdmin:  s.isAdmin,
			}
			s.mu.Unlock()
			if create.Password == PasswordPlaceholder {
				return SubmitResult{}, ErrPasswordPlaceholder
			}
			// The generic guard only validates the name; the bundled
			// sub-fields need their own pass before the request goes out.
			if err := validate.Struct(create); err != nil {
				return SubmitResult{}, err
			}
			user, err := client.CreateUser(ctx, create)
			if err != nil {
				return SubmitResult{}, err
			}
			return SubmitResult{ID: user.ID, Label: user.Name}, nil
		},
		Update: func(ctx context.Context, id int64, input api.UserInput) (SubmitResult, error) {
			user, err := client.UpdateUserInfo(ctx, id, input)
			if err != nil {
				return SubmitResult{}, err
			}
			return SubmitResult{ID: user.ID, Label: user.Name}, nil
		},
	}

	s.FormSession = NewFormSession("user", hooks, notify, owner)
	return s
}

// Open resets the sub-field state along with the generic session.
func (s *UserFormSession) Open(ctx context.Context, id int64) error {
	s.mu.Lock()
	s.username = ""
	s.password = ""
	s.isAdmin = false
	s.usernameUnlocked = false
	s.passwordUnlocked = false
	s.roleUnlocked = false
	s.mu.Unlock()
	return s.FormSession.Open(ctx, id)
}

func (s *UserFormSession) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username
}

func (s *UserFormSession) Password() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.password
}

func (s *UserFormSession) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isAdmin
}

// editingExisting reports whether the sub-field lock/commit flow applies.
// During creation the sub-fields are plain inputs bundled into the create
// call.
func (s *UserFormSession) editingExisting() bool {
	return s.TargetID() != 0
}

func (s *UserFormSession) UsernameUnlocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usernameUnlocked
}

func (s *UserFormSession) UnlockUsername() {
	s.mu.Lock()
	s.usernameUnlocked = true
	s.mu.Unlock()
}

// SetUsername updates the field. For an existing user it requires the
// username sub-field to be unlocked.
func (s *UserFormSession) SetUsername(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.targetLockedLocked(s.usernameUnlocked) {
		return ErrFormLocked
	}
	s.username = username
	return nil
}

// CommitUsername immediately persists the username for an existing user.
func (s *UserFormSession) CommitUsername(ctx context.Context) error {
	if !s.editingExisting() {
		return ErrNotEditing
	}

	s.mu.Lock()
	username := s.username
	s.mu.Unlock()

	user, err := s.client.UpdateUserUsername(ctx, s.TargetID(), username)
	if err != nil {
		s.notify.Error("username update failed", err.Error())
		return err
	}

	s.mu.Lock()
	s.usernameUnlocked = false
	s.mu.Unlock()

	if user.ID == s.selfID && s.onSelfChanged != nil {
		s.onSelfChanged()
	}
	s.notify.Success("username updated", user.Username)
	return nil
}

func (s *UserFormSession) PasswordUnlocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.passwordUnlocked
}

// UnlockPassword clears the placeholder so the user types a real password.
func (s *UserFormSession) UnlockPassword() {
	s.mu.Lock()
	s.passwordUnlocked = true
	s.password = ""
	s.mu.Unlock()
}

func (s *UserFormSession) SetPassword(password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.targetLockedLocked(s.passwordUnlocked) {
		return ErrFormLocked
	}
	s.password = password
	return nil
}

// CommitPassword immediately persists the password for an existing user.
// The placeholder sentinel is refused outright.
func (s *UserFormSession) CommitPassword(ctx context.Context) error {
	if !s.editingExisting() {
		return ErrNotEditing
	}

	s.mu.Lock()
	password := s.password
	s.mu.Unlock()

	if password == PasswordPlaceholder {
		return ErrPasswordPlaceholder
	}

	if err := s.client.UpdateUserPassword(ctx, s.TargetID(), password); err != nil {
		s.notify.Error("password update failed", err.Error())
		return err
	}

	s.mu.Lock()
	s.passwordUnlocked = false
	s.password = PasswordPlaceholder
	s.mu.Unlock()

	s.notify.Success("password updated", "")
	return nil
}

func (s *UserFormSession) RoleUnlocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roleUnlocked
}

func (s *UserFormSession) UnlockRole() {
	s.mu.Lock()
	s.roleUnlocked = true
	s.mu.Unlock()
}

func (s *UserFormSession) SetIsAdmin(isAdmin bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.targetLockedLocked(s.roleUnlocked) {
		return ErrFormLocked
	}
	s.isAdmin = isAdmin
	return nil
}

// CommitRole immediately persists the admin flag for an existing user.
func (s *UserFormSession) CommitRole(ctx context.Context) error {
	if !s.editingExisting() {
		return ErrNotEditing
	}

	s.mu.Lock()
	isAdmin := s.isAdmin
	s.mu.Unlock()

	user, err := s.client.UpdateUserRole(ctx, s.TargetID(), isAdmin)
	if err != nil {
		s.notify.Error("role update failed", err.Error())
		return err
	}

	s.mu.Lock()
	s.roleUnlocked = false
	s.mu.Unlock()

	s.notify.Success("role updated", user.Username)
	return nil
}

// targetLockedLocked reports whether a sub-field write must be rejected.
// Caller holds s.mu.
func (s *UserFormSession) targetLockedLocked(fieldUnlocked bool) bool {
	return s.editingExisting() && !fieldUnlocked
}
