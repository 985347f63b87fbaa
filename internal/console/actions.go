package console

import (
	"context"
	"time"

	"github.com/nyacdn/cdnctl/internal/api"
	"github.com/nyacdn/cdnctl/internal/timeutil"
)

// CertActions are the per-row certificate operations outside the modal.
type CertActions struct {
	Client *api.Client
	Notify Notifier
	List   *ListController[api.Cert]
}

// Renew reissues an automatically managed certificate and reports the new
// expiry. No confirmation step: renewal is not destructive.
func (a *CertActions) Renew(ctx context.Context, id int64) error {
	crt, err := a.Client.RenewCert(ctx, id)
	if err != nil {
		a.Notify.Error("cert renew failed", err.Error())
		return err
	}

	if a.List != nil {
		a.List.Invalidate()
		if err := a.List.Refresh(ctx); err != nil {
			return err
		}
	}
	a.Notify.Success("cert renewed",
		crt.Name+" now expires "+timeutil.Relative(crt.ExpiresAt, time.Now()))
	return nil
}

// InstanceActions are the per-row instance operations outside the modal.
type InstanceActions struct {
	Client  *api.Client
	Notify  Notifier
	Confirm Confirmer
	Secrets SecretSink
	List    *ListController[api.Instance]
}

// RotateToken replaces the instance's auth token after a destructive-action
// confirmation (the previous token is invalid the moment the request lands).
// The new token goes through the one-time secret reveal.
func (a *InstanceActions) RotateToken(ctx context.Context, id int64, label string) error {
	if !a.Confirm.Confirm("Rotate token",
		"Rotate the auth token for instance "+label+"? The current token stops working immediately.") {
		return nil
	}

	inst, err := a.Client.RotateInstanceToken(ctx, id)
	if err != nil {
		a.Notify.Error("token rotation failed", err.Error())
		return err
	}

	a.Secrets.Show(NewSecretReveal(inst.Token))

	if a.List != nil {
		a.List.Invalidate()
		if err := a.List.Refresh(ctx); err != nil {
			return err
		}
	}
	a.Notify.Success("token rotated", inst.Name)
	return nil
}
