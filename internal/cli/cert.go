package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nyacdn/cdnctl/internal/api"
	"github.com/nyacdn/cdnctl/internal/console"
	"github.com/nyacdn/cdnctl/internal/timeutil"
)

// CertUpdate carries the fields a certificate update command may change.
// Nil pointers leave the current value untouched; the Clear* flags null
// out optional material fields explicitly.
type CertUpdate struct {
	Name         *string
	IsManualMode *bool
	Domains      *[]string
	Provider     *string

	Certificate             *string
	PrivateKey              *string
	IntermediateCertificate *string
	CSR                     *string
}

func (a *App) CertList(ctx context.Context, page int) error {
	return listEntities(ctx, a, "cert", a.Client.ListCerts, a.Client.DeleteCert, page, func(w io.Writer, c api.Cert) {
		mode := "automatic"
		if c.IsManualMode {
			mode = "manual"
		}
		expiry := "-"
		if c.ExpiresAt > 0 {
			expiry = "expires " + timeutil.Relative(c.ExpiresAt, time.Now())
		}
		fmt.Fprintf(w, "%-6d %-24s %-10s %-40s %s\n", c.ID, c.Name, mode, strings.Join(c.Domains, ","), expiry)
	})
}

func (a *App) CertGet(ctx context.Context, id int64) error {
	c, err := a.Client.GetCert(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "id:      %d\n", c.ID)
	fmt.Fprintf(a.Out, "name:    %s\n", c.Name)
	fmt.Fprintf(a.Out, "manual:  %t\n", c.IsManualMode)
	if c.IsManualMode {
		fmt.Fprintf(a.Out, "certificate:  %s\n", presence(c.Certificate))
		fmt.Fprintf(a.Out, "private key:  %s\n", presence(c.PrivateKey))
		fmt.Fprintf(a.Out, "intermediate: %s\n", presence(c.IntermediateCertificate))
		fmt.Fprintf(a.Out, "csr:          %s\n", presence(c.CSR))
	} else {
		fmt.Fprintf(a.Out, "domains: %s\n", strings.Join(c.Domains, ","))
		if c.Provider != nil {
			fmt.Fprintf(a.Out, "provider: %s\n", *c.Provider)
		}
	}
	if c.ExpiresAt > 0 {
		fmt.Fprintf(a.Out, "expires: %s\n", timeutil.DateString(c.ExpiresAt, true))
	}
	return nil
}

func presence(s *string) string {
	if s == nil || *s == "" {
		return "(not set)"
	}
	return fmt.Sprintf("(%d bytes)", len(*s))
}

func (a *App) CertCreate(ctx context.Context, input api.CertInput) error {
	form := console.NewCertFormSession(a.Client, a.Notifier(), noopInvalidator{})
	if err := form.Open(ctx, 0); err != nil {
		return err
	}
	if err := form.SetManualMode(input.IsManualMode); err != nil {
		return err
	}
	if err := form.SetValues(input); err != nil {
		return err
	}
	return form.Submit(ctx)
}

func (a *App) CertUpdateCmd(ctx context.Context, id int64, upd CertUpdate) error {
	form := console.NewCertFormSession(a.Client, a.Notifier(), noopInvalidator{})
	if err := form.Open(ctx, id); err != nil {
		return err
	}
	if err := form.Unlock(); err != nil {
		return err
	}
	if upd.IsManualMode != nil {
		if err := form.SetManualMode(*upd.IsManualMode); err != nil {
			return err
		}
	}

	values := form.Values()
	values.IsManualMode = form.ManualMode()
	if upd.Name != nil {
		values.Name = *upd.Name
	}
	if upd.Domains != nil {
		values.Domains = *upd.Domains
	}
	if upd.Provider != nil {
		values.Provider = upd.Provider
	}
	if upd.Certificate != nil {
		values.Certificate = upd.Certificate
	}
	if upd.PrivateKey != nil {
		values.PrivateKey = upd.PrivateKey
	}
	if upd.IntermediateCertificate != nil {
		values.IntermediateCertificate = upd.IntermediateCertificate
	}
	if upd.CSR != nil {
		values.CSR = upd.CSR
	}
	if err := form.SetValues(values); err != nil {
		return err
	}
	return form.Submit(ctx)
}

func (a *App) CertRenew(ctx context.Context, id int64) error {
	actions := &console.CertActions{Client: a.Client, Notify: a.Notifier()}
	return actions.Renew(ctx, id)
}

func (a *App) CertDelete(ctx context.Context, id int64) error {
	c, err := a.Client.GetCert(ctx, id)
	if err != nil {
		return err
	}
	return deleteEntity(ctx, a, "cert", a.Client.ListCerts, a.Client.DeleteCert, id, c.Name)
}
