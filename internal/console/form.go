package console

import (
	"context"
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/nyacdn/cdnctl/internal/api"
)

// GuardState is the form guard governing whether an entity editor accepts
// input. Every entity modal runs the same three-state machine.
type GuardState int

const (
	// CreateUnlocked is the initial state when no existing id is targeted.
	CreateUnlocked GuardState = iota
	// EditLocked is the initial state for an existing record: fields render
	// read-only and submit is replaced by the unlock action.
	EditLocked
	// EditUnlocked is entered by the explicit edit action; this transition
	// has no network effect.
	EditUnlocked
)

func (s GuardState) String() string {
	switch s {
	case CreateUnlocked:
		return "create-unlocked"
	case EditLocked:
		return "edit-locked"
	case EditUnlocked:
		return "edit-unlocked"
	default:
		return "unknown"
	}
}

var (
	ErrFormClosed = errors.New("form session is not open")
	ErrFormLocked = errors.New("form is locked")
	// ErrNotEditing is returned by Unlock outside of EditLocked.
	ErrNotEditing = errors.New("form is not in the locked edit state")
)

var validate = validator.New()

// SubmitResult describes a successful create or update. Secret, when set,
// is a one-time token that must go through the secret reveal flow.
type SubmitResult struct {
	ID     int64
	Label  string
	Secret string
}

// FormHooks are the network operations behind a form session. Fetch loads the
// editable shape of an existing record; Create and Update submit it.
type FormHooks[In any] struct {
	Fetch  func(ctx context.Context, id int64) (In, error)
	Create func(ctx context.Context, input In) (SubmitResult, error)
	Update func(ctx context.Context, id int64, input In) (SubmitResult, error)
}

// FormSession is one open editor modal. State is recomputed on every Open and
// never carried between opens. Detail fetch results are tagged with the
// target id and dropped when the session was closed or retargeted before they
// settled.
type FormSession[In any] struct {
	mu sync.Mutex

	kind    string
	hooks   FormHooks[In]
	notify  Notifier
	owner   Invalidator
	secrets SecretSink

	open     bool
	state    GuardState
	targetID int64
	fetchTag string
	initial  In
	current  In
	loaded   bool
	inflight bool

	// onFetched runs after a detail fetch is applied; per-entity sessions use
	// it to derive state outside the generic input shape.
	onFetched func(In)
	// transform rewrites the input at submit time (cert mode serialization).
	transform func(In) In
}

func NewFormSession[In any](kind string, hooks FormHooks[In], notify Notifier, owner Invalidator) *FormSession[In] {
	return &FormSession[In]{
		kind:   kind,
		hooks:  hooks,
		notify: notify,
		owner:  owner,
	}
}

// SetSecretSink routes one-time secrets from submissions; sessions without
// secret-bearing operations leave it unset.
func (f *FormSession[In]) SetSecretSink(s SecretSink) {
	f.secrets = s
}

// Open starts a session. id 0 targets a new record (CreateUnlocked);
// otherwise the record is fetched and the form starts EditLocked, populated
// with the fetched values.
func (f *FormSession[In]) Open(ctx context.Context, id int64) error {
	f.mu.Lock()
	f.open = true
	f.targetID = id
	f.loaded = false
	var zero In
	f.initial = zero
	f.current = zero

	if id == 0 {
		f.state = CreateUnlocked
		f.loaded = true
		f.mu.Unlock()
		return nil
	}

	f.state = EditLocked
	tag := uuid.NewString()
	f.fetchTag = tag
	f.inflight = true
	f.mu.Unlock()

	values, err := f.hooks.Fetch(ctx, id)

	f.mu.Lock()
	f.inflight = false
	// Apply only if this session is still open for the same target. A fetch
	// that raced a close or a reopen with a different id is discarded.
	if !f.open || f.targetID != id || f.fetchTag != tag {
		f.mu.Unlock()
		return nil
	}
	if err != nil {
		f.mu.Unlock()
		f.notify.Error(f.kind+" load failed", err.Error())
		return err
	}
	f.initial = values
	f.current = values
	f.loaded = true
	onFetched := f.onFetched
	f.mu.Unlock()

	if onFetched != nil {
		onFetched(values)
	}
	return nil
}

// Close ends the session. The next Open recomputes everything.
func (f *FormSession[In]) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = false
}

func (f *FormSession[In]) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

func (f *FormSession[In]) State() GuardState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *FormSession[In]) TargetID() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.targetID
}

// Loaded reports whether field values are available (immediately for create,
// after the detail fetch for edit).
func (f *FormSession[In]) Loaded() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loaded
}

// InFlight reports whether a fetch or submit is pending.
func (f *FormSession[In]) InFlight() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inflight
}

// Values returns the current field values.
func (f *FormSession[In]) Values() In {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

// InitialValues returns the values as fetched (or zero for create).
func (f *FormSession[In]) InitialValues() In {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.initial
}

// SetValues replaces the editable values. Rejected while the form is locked.
func (f *FormSession[In]) SetValues(values In) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.open {
		return ErrFormClosed
	}
	if f.state == EditLocked {
		return ErrFormLocked
	}
	f.current = values
	return nil
}

// Unlock re-enables editing of an existing record. It is purely local: no
// request is issued and the last-fetched values stay in place.
func (f *FormSession[In]) Unlock() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.open {
		return ErrFormClosed
	}
	if f.state != EditLocked {
		return ErrNotEditing
	}
	f.state = EditUnlocked
	return nil
}

// Submit validates and dispatches: create in CreateUnlocked, update in
// EditUnlocked. On success the session closes and the owning list is
// invalidated; a returned secret goes to the secret sink first. On failure
// the session stays open in its current state so the user can correct and
// resubmit.
func (f *FormSession[In]) Submit(ctx context.Context) error {
	f.mu.Lock()
	if !f.open {
		f.mu.Unlock()
		return ErrFormClosed
	}
	if f.state == EditLocked {
		f.mu.Unlock()
		return ErrFormLocked
	}
	input := f.current
	if f.transform != nil {
		input = f.transform(input)
	}
	state := f.state
	id := f.targetID
	f.mu.Unlock()

	if err := validate.Struct(input); err != nil {
		f.notify.Error(f.kind+" validation failed", err.Error())
		return err
	}

	f.mu.Lock()
	f.inflight = true
	f.mu.Unlock()

	var (
		result SubmitResult
		err    error
		action string
	)
	if state == CreateUnlocked {
		action = "create"
		result, err = f.hooks.Create(ctx, input)
	} else {
		action = "update"
		result, err = f.hooks.Update(ctx, id, input)
	}

	f.mu.Lock()
	f.inflight = false
	f.mu.Unlock()

	if err != nil {
		f.notify.Error(f.kind+" "+action+" failed", err.Error())
		return err
	}

	if result.Secret != "" && f.secrets != nil {
		f.secrets.Show(NewSecretReveal(result.Secret))
	}

	f.notify.Success(f.kind+" "+action+"d", result.Label)
	if f.owner != nil {
		f.owner.Invalidate()
	}
	f.Close()
	return nil
}

// pageAll is a convenience for selector loads that need the whole collection.
func pageAll[T any](ctx context.Context, list ListFunc[T]) ([]T, error) {
	page, err := list(ctx, api.ListOptions{FetchAll: true})
	if err != nil {
		return nil, err
	}
	return page.List, nil
}
