package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/nyacdn/cdnctl/internal/api"
	"github.com/nyacdn/cdnctl/internal/console"
)

// SiteUpdate carries the fields a site update command may change. Nil
// pointers leave the current value untouched.
type SiteUpdate struct {
	Name           *string
	Origin         *string
	CertID         *int64 // 0 clears the cert
	TemplateID     *int64
	TemplateValues *[]string
}

func (a *App) SiteList(ctx context.Context, page int) error {
	return listEntities(ctx, a, "site", a.Client.ListSites, a.Client.DeleteSite, page, func(w io.Writer, s api.Site) {
		cert := "-"
		if s.CertID != nil {
			cert = fmt.Sprintf("cert=%d", *s.CertID)
		}
		fmt.Fprintf(w, "%-6d %-24s %-32s template=%d %s\n", s.ID, s.Name, s.Origin, s.TemplateID, cert)
	})
}

func (a *App) SiteGet(ctx context.Context, id int64) error {
	s, err := a.Client.GetSite(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "id:       %d\n", s.ID)
	fmt.Fprintf(a.Out, "name:     %s\n", s.Name)
	fmt.Fprintf(a.Out, "origin:   %s\n", s.Origin)
	fmt.Fprintf(a.Out, "template: %d\n", s.TemplateID)
	if s.CertID != nil {
		fmt.Fprintf(a.Out, "cert:     %d\n", *s.CertID)
	}
	for i, v := range s.TemplateValues {
		fmt.Fprintf(a.Out, "value[%d]: %s\n", i, v)
	}
	return nil
}

func (a *App) SiteCreate(ctx context.Context, name, origin string, templateID int64, certID int64, templateValues []string) error {
	form := console.NewSiteFormSession(a.Client, a.Notifier(), noopInvalidator{})
	if err := form.Open(ctx, 0); err != nil {
		return err
	}
	if err := form.SelectTemplate(ctx, templateID); err != nil {
		return err
	}
	if want, got := len(form.VariableSlots()), len(templateValues); want != got {
		return fmt.Errorf("template expects %d values, got %d (variables: %v)", want, got, form.VariableSlots())
	}

	values := form.Values()
	values.Name = name
	values.Origin = origin
	values.TemplateValues = templateValues
	if certID != 0 {
		values.CertID = &certID
	}
	if err := form.SetValues(values); err != nil {
		return err
	}
	return form.Submit(ctx)
}

func (a *App) SiteUpdateCmd(ctx context.Context, id int64, upd SiteUpdate) error {
	form := console.NewSiteFormSession(a.Client, a.Notifier(), noopInvalidator{})
	if err := form.Open(ctx, id); err != nil {
		return err
	}
	if err := form.Unlock(); err != nil {
		return err
	}
	if upd.TemplateID != nil {
		if err := form.SelectTemplate(ctx, *upd.TemplateID); err != nil {
			return err
		}
	}

	values := form.Values()
	if upd.Name != nil {
		values.Name = *upd.Name
	}
	if upd.Origin != nil {
		values.Origin = *upd.Origin
	}
	if upd.CertID != nil {
		if *upd.CertID == 0 {
			values.CertID = nil
		} else {
			values.CertID = upd.CertID
		}
	}
	if upd.TemplateValues != nil {
		if want, got := len(form.VariableSlots()), len(*upd.TemplateValues); want != got {
			return fmt.Errorf("template expects %d values, got %d (variables: %v)", want, got, form.VariableSlots())
		}
		values.TemplateValues = *upd.TemplateValues
	}
	if err := form.SetValues(values); err != nil {
		return err
	}
	return form.Submit(ctx)
}

func (a *App) SiteDelete(ctx context.Context, id int64) error {
	s, err := a.Client.GetSite(ctx, id)
	if err != nil {
		return err
	}
	return deleteEntity(ctx, a, "site", a.Client.ListSites, a.Client.DeleteSite, id, s.Name)
}
