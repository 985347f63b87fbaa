package console

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widgetInput struct {
	Name string `json:"name" validate:"required"`
}

type widgetHarness struct {
	notify *fakeNotifier
	owner  *fakeInvalidator
	sink   *fakeSink

	fetched  map[int64]widgetInput
	fetchErr error

	creates      int
	updates      int
	submitErr    error
	submitSecret string
}

func newWidgetHarness() *widgetHarness {
	return &widgetHarness{
		notify:  &fakeNotifier{},
		owner:   &fakeInvalidator{},
		sink:    &fakeSink{},
		fetched: map[int64]widgetInput{7: {Name: "existing"}},
	}
}

func (h *widgetHarness) session() *FormSession[widgetInput] {
	f := NewFormSession("widget", FormHooks[widgetInput]{
		Fetch: func(ctx context.Context, id int64) (widgetInput, error) {
			if h.fetchErr != nil {
				return widgetInput{}, h.fetchErr
			}
			values, ok := h.fetched[id]
			if !ok {
				return widgetInput{}, errors.New("not found")
			}
			return values, nil
		},
		Create: func(ctx context.Context, input widgetInput) (SubmitResult, error) {
			h.creates++
			if h.submitErr != nil {
				return SubmitResult{}, h.submitErr
			}
			return SubmitResult{ID: 1, Label: input.Name, Secret: h.submitSecret}, nil
		},
		Update: func(ctx context.Context, id int64, input widgetInput) (SubmitResult, error) {
			h.updates++
			if h.submitErr != nil {
				return SubmitResult{}, h.submitErr
			}
			return SubmitResult{ID: id, Label: input.Name}, nil
		},
	}, h.notify, h.owner)
	f.SetSecretSink(h.sink)
	return f
}

// ---------- Open ----------

func TestFormSession_OpenCreate(t *testing.T) {
	h := newWidgetHarness()
	f := h.session()

	require.NoError(t, f.Open(context.Background(), 0))
	assert.Equal(t, CreateUnlocked, f.State())
	assert.True(t, f.Loaded())
	assert.Zero(t, f.Values())
}

func TestFormSession_OpenEditStartsLocked(t *testing.T) {
	h := newWidgetHarness()
	f := h.session()

	require.NoError(t, f.Open(context.Background(), 7))
	assert.Equal(t, EditLocked, f.State())
	assert.True(t, f.Loaded())
	assert.Equal(t, "existing", f.Values().Name)
	assert.Equal(t, "existing", f.InitialValues().Name)
}

func TestFormSession_OpenEditFetchFailure(t *testing.T) {
	h := newWidgetHarness()
	h.fetchErr = errors.New("backend says no")
	f := h.session()

	err := f.Open(context.Background(), 7)
	require.Error(t, err)
	assert.False(t, f.Loaded())
	require.Len(t, h.notify.errors, 1)
	assert.Contains(t, h.notify.errors[0], "backend says no")
}

func TestFormSession_ReopenResetsState(t *testing.T) {
	h := newWidgetHarness()
	f := h.session()

	require.NoError(t, f.Open(context.Background(), 7))
	require.NoError(t, f.Unlock())
	require.NoError(t, f.SetValues(widgetInput{Name: "edited"}))
	f.Close()

	require.NoError(t, f.Open(context.Background(), 0))
	assert.Equal(t, CreateUnlocked, f.State())
	assert.Zero(t, f.Values(), "previous session values must not leak")
}

// ---------- Lock and unlock ----------

func TestFormSession_SetValuesRejectedWhileLocked(t *testing.T) {
	h := newWidgetHarness()
	f := h.session()

	require.NoError(t, f.Open(context.Background(), 7))
	err := f.SetValues(widgetInput{Name: "edited"})
	assert.ErrorIs(t, err, ErrFormLocked)
	assert.Equal(t, "existing", f.Values().Name)
}

func TestFormSession_UnlockIsLocal(t *testing.T) {
	h := newWidgetHarness()
	f := h.session()

	require.NoError(t, f.Open(context.Background(), 7))
	require.NoError(t, f.Unlock())
	assert.Equal(t, EditUnlocked, f.State())
	assert.Equal(t, "existing", f.Values().Name, "unlock keeps the fetched values")
	assert.Equal(t, 0, h.creates+h.updates, "unlock must not issue requests")

	require.NoError(t, f.SetValues(widgetInput{Name: "edited"}))
	assert.Equal(t, "edited", f.Values().Name)
}

func TestFormSession_UnlockOutsideEditLocked(t *testing.T) {
	h := newWidgetHarness()
	f := h.session()

	require.NoError(t, f.Open(context.Background(), 0))
	assert.ErrorIs(t, f.Unlock(), ErrNotEditing)

	require.NoError(t, f.Open(context.Background(), 7))
	require.NoError(t, f.Unlock())
	assert.ErrorIs(t, f.Unlock(), ErrNotEditing)
}

// ---------- Submit ----------

func TestFormSession_SubmitCreate(t *testing.T) {
	h := newWidgetHarness()
	f := h.session()

	require.NoError(t, f.Open(context.Background(), 0))
	require.NoError(t, f.SetValues(widgetInput{Name: "fresh"}))
	require.NoError(t, f.Submit(context.Background()))

	assert.Equal(t, 1, h.creates)
	assert.Equal(t, 0, h.updates)
	assert.False(t, f.IsOpen())
	assert.Equal(t, 1, h.owner.count)
	require.Len(t, h.notify.successes, 1)
	assert.Contains(t, h.notify.successes[0], "created")
}

func TestFormSession_SubmitUpdate(t *testing.T) {
	h := newWidgetHarness()
	f := h.session()

	require.NoError(t, f.Open(context.Background(), 7))
	require.NoError(t, f.Unlock())
	require.NoError(t, f.SetValues(widgetInput{Name: "edited"}))
	require.NoError(t, f.Submit(context.Background()))

	assert.Equal(t, 1, h.updates)
	assert.False(t, f.IsOpen())
	assert.Equal(t, 1, h.owner.count)
}

func TestFormSession_SubmitRejectedWhileLocked(t *testing.T) {
	h := newWidgetHarness()
	f := h.session()

	require.NoError(t, f.Open(context.Background(), 7))
	assert.ErrorIs(t, f.Submit(context.Background()), ErrFormLocked)
	assert.Equal(t, 0, h.updates)
}

func TestFormSession_SubmitValidationFailure(t *testing.T) {
	h := newWidgetHarness()
	f := h.session()

	require.NoError(t, f.Open(context.Background(), 0))
	err := f.Submit(context.Background()) // Name empty, required
	require.Error(t, err)

	assert.Equal(t, 0, h.creates, "invalid input must not reach the backend")
	assert.True(t, f.IsOpen(), "session stays open for correction")
	assert.Equal(t, CreateUnlocked, f.State())
	assert.Equal(t, 1, h.notify.errorCount())
}

func TestFormSession_SubmitBackendFailureStaysOpen(t *testing.T) {
	h := newWidgetHarness()
	h.submitErr = errors.New("name already taken")
	f := h.session()

	require.NoError(t, f.Open(context.Background(), 7))
	require.NoError(t, f.Unlock())
	require.NoError(t, f.SetValues(widgetInput{Name: "edited"}))

	err := f.Submit(context.Background())
	require.Error(t, err)
	assert.True(t, f.IsOpen())
	assert.Equal(t, EditUnlocked, f.State())
	assert.Equal(t, "edited", f.Values().Name, "entered values survive a failed submit")
	assert.Equal(t, 0, h.owner.count)
	require.Len(t, h.notify.errors, 1)
	assert.Contains(t, h.notify.errors[0], "name already taken")
}

func TestFormSession_SubmitRoutesSecret(t *testing.T) {
	h := newWidgetHarness()
	h.submitSecret = "issued-token"
	f := h.session()

	require.NoError(t, f.Open(context.Background(), 0))
	require.NoError(t, f.SetValues(widgetInput{Name: "fresh"}))
	require.NoError(t, f.Submit(context.Background()))

	require.Len(t, h.sink.reveals, 1)
	token, err := h.sink.reveals[0].Reveal()
	require.NoError(t, err)
	assert.Equal(t, "issued-token", token)
}

func TestFormSession_SubmitAfterClose(t *testing.T) {
	h := newWidgetHarness()
	f := h.session()

	require.NoError(t, f.Open(context.Background(), 0))
	f.Close()
	assert.ErrorIs(t, f.Submit(context.Background()), ErrFormClosed)
}
