package console

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyacdn/cdnctl/internal/api"
)

func TestCertActions_Renew(t *testing.T) {
	client, _ := newTestBackend(t)
	notify := &fakeNotifier{}
	ctx := context.Background()

	crt, err := client.CreateCert(ctx, api.CertInput{Name: "auto", Domains: []string{"example.com"}})
	require.NoError(t, err)

	actions := &CertActions{Client: client, Notify: notify}
	require.NoError(t, actions.Renew(ctx, crt.ID))
	require.Len(t, notify.successes, 1)
	assert.Contains(t, notify.successes[0], "auto")
}

func TestCertActions_RenewManualRejected(t *testing.T) {
	client, _ := newTestBackend(t)
	notify := &fakeNotifier{}
	ctx := context.Background()

	crt, err := client.CreateCert(ctx, api.CertInput{
		Name:         "manual",
		IsManualMode: true,
		Domains:      []string{},
		Certificate:  strptr("C"),
		PrivateKey:   strptr("K"),
	})
	require.NoError(t, err)

	actions := &CertActions{Client: client, Notify: notify}
	err = actions.Renew(ctx, crt.ID)
	require.Error(t, err)
	require.Len(t, notify.errors, 1)
	assert.Contains(t, notify.errors[0], "certificate is manually managed")
}

func TestInstanceActions_RotateTokenCancelled(t *testing.T) {
	client, _ := newTestBackend(t)
	sink := &fakeSink{}
	confirm := &fakeConfirmer{answer: false}
	ctx := context.Background()

	created, err := client.CreateInstance(ctx, api.InstanceInput{Name: "edge-fra-1"})
	require.NoError(t, err)
	original := created.Token

	actions := &InstanceActions{Client: client, Notify: &fakeNotifier{}, Confirm: confirm, Secrets: sink}
	require.NoError(t, actions.RotateToken(ctx, created.ID, created.Name))

	assert.Equal(t, 1, confirm.calls)
	assert.Empty(t, sink.reveals, "cancelling must not rotate anything")
	assert.NotEmpty(t, original)
}

func TestInstanceActions_RotateTokenConfirmed(t *testing.T) {
	client, _ := newTestBackend(t)
	sink := &fakeSink{}
	notify := &fakeNotifier{}
	ctx := context.Background()

	created, err := client.CreateInstance(ctx, api.InstanceInput{Name: "edge-fra-1"})
	require.NoError(t, err)

	actions := &InstanceActions{Client: client, Notify: notify, Confirm: &fakeConfirmer{answer: true}, Secrets: sink}
	require.NoError(t, actions.RotateToken(ctx, created.ID, created.Name))

	require.Len(t, sink.reveals, 1)
	token, err := sink.reveals[0].Reveal()
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, created.Token, token, "rotation mints a fresh token")
	require.Len(t, notify.successes, 1)
}
