package console

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyacdn/cdnctl/internal/api"
)

func strptr(s string) *string { return &s }

func TestCertFormSession_ManualModeSubmission(t *testing.T) {
	client, _ := newTestBackend(t)
	notify := &fakeNotifier{}
	form := NewCertFormSession(client, notify, &fakeInvalidator{})
	ctx := context.Background()

	require.NoError(t, form.Open(ctx, 0))
	require.NoError(t, form.SetManualMode(true))
	// Domains and provider entered before the user flipped to manual mode
	// must not survive serialization.
	require.NoError(t, form.SetValues(api.CertInput{
		Name:        "example",
		Domains:     []string{"example.com"},
		Provider:    strptr("acme-dns"),
		Certificate: strptr("C"),
		PrivateKey:  strptr("K"),
	}))
	require.NoError(t, form.Submit(ctx))

	page, err := client.ListCerts(ctx, api.ListOptions{FetchAll: true})
	require.NoError(t, err)
	require.Len(t, page.List, 1)

	crt := page.List[0]
	assert.Equal(t, "example", crt.Name)
	assert.True(t, crt.IsManualMode)
	assert.Equal(t, "C", deref(crt.Certificate))
	assert.Equal(t, "K", deref(crt.PrivateKey))
	assert.Empty(t, crt.Domains)
	assert.Nil(t, crt.Provider)
	assert.Nil(t, crt.IntermediateCertificate)
	assert.Nil(t, crt.CSR)
}

func TestCertFormSession_AutomaticModeStripsMaterial(t *testing.T) {
	client, _ := newTestBackend(t)
	form := NewCertFormSession(client, &fakeNotifier{}, &fakeInvalidator{})
	ctx := context.Background()

	require.NoError(t, form.Open(ctx, 0))
	require.NoError(t, form.SetValues(api.CertInput{
		Name:        "auto",
		Domains:     []string{"a.example.com", "b.example.com"},
		Provider:    strptr("acme-dns"),
		Certificate: strptr("stale upload"),
	}))
	require.NoError(t, form.Submit(ctx))

	page, err := client.ListCerts(ctx, api.ListOptions{FetchAll: true})
	require.NoError(t, err)
	require.Len(t, page.List, 1)

	crt := page.List[0]
	assert.False(t, crt.IsManualMode)
	assert.Equal(t, []string{"a.example.com", "b.example.com"}, crt.Domains)
	assert.Equal(t, "acme-dns", deref(crt.Provider))
	assert.Nil(t, crt.Certificate)
	assert.Nil(t, crt.PrivateKey)
}

func TestCertFormSession_ToggleRejectedWhileLocked(t *testing.T) {
	client, _ := newTestBackend(t)
	ctx := context.Background()

	crt, err := client.CreateCert(ctx, api.CertInput{Name: "locked", Domains: []string{}})
	require.NoError(t, err)

	form := NewCertFormSession(client, &fakeNotifier{}, &fakeInvalidator{})
	require.NoError(t, form.Open(ctx, crt.ID))
	assert.Equal(t, EditLocked, form.State())
	assert.ErrorIs(t, form.SetManualMode(true), ErrFormLocked)
	assert.ErrorIs(t, form.SetExtendedInfo(true), ErrFormLocked)
}

func TestCertFormSession_OpenDerivesToggles(t *testing.T) {
	client, _ := newTestBackend(t)
	ctx := context.Background()

	crt, err := client.CreateCert(ctx, api.CertInput{
		Name:         "manual-with-chain",
		IsManualMode: true,
		Domains:      []string{},
		Certificate:  strptr("C"),
		PrivateKey:   strptr("K"),
		CSR:          strptr("R"),
	})
	require.NoError(t, err)

	form := NewCertFormSession(client, &fakeNotifier{}, &fakeInvalidator{})
	require.NoError(t, form.Open(ctx, crt.ID))
	assert.True(t, form.ManualMode())
	assert.True(t, form.ExtendedInfo(), "stored CSR implies the extended fields are in use")

	// Reopening for a fresh record resets both toggles.
	require.NoError(t, form.Open(ctx, 0))
	assert.False(t, form.ManualMode())
	assert.False(t, form.ExtendedInfo())
}

func TestCertFormSession_EditKeepsUntouchedFields(t *testing.T) {
	client, _ := newTestBackend(t)
	ctx := context.Background()

	crt, err := client.CreateCert(ctx, api.CertInput{
		Name:     "renameme",
		Domains:  []string{"example.org"},
		Provider: strptr("acme-dns"),
	})
	require.NoError(t, err)

	form := NewCertFormSession(client, &fakeNotifier{}, &fakeInvalidator{})
	require.NoError(t, form.Open(ctx, crt.ID))
	require.NoError(t, form.Unlock())

	values := form.Values()
	values.Name = "renamed"
	require.NoError(t, form.SetValues(values))
	require.NoError(t, form.Submit(ctx))

	stored, err := client.GetCert(ctx, crt.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", stored.Name)
	assert.Equal(t, []string{"example.org"}, stored.Domains)
	assert.Equal(t, "acme-dns", deref(stored.Provider))
}
