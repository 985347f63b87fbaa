package console

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nyacdn/cdnctl/internal/api"
)

// SiteFormSession edits sites. Selecting a template triggers a dependent
// fetch of that template so the form can render exactly one value slot per
// declared variable; switching templates re-derives the slots and discards
// prior values.
type SiteFormSession struct {
	*FormSession[api.SiteInput]

	client *api.Client
	notify Notifier

	mu               sync.Mutex
	certs            []api.Cert
	templates        []api.Template
	selectedTemplate int64
	templateTag      string
	variables        []string
}

func NewSiteFormSession(client *api.Client, notify Notifier, owner Invalidator) *SiteFormSession {
	s := &SiteFormSession{client: client, notify: notify}

	hooks := FormHooks[api.SiteInput]{
		Fetch: func(ctx context.Context, id int64) (api.SiteInput, error) {
			site, err := client.GetSite(ctx, id)
			if err != nil {
				return api.SiteInput{}, err
			}
			return site.SiteInput, nil
		},
		Create: func(ctx context.Context, input api.SiteInput) (SubmitResult, error) {
			site, err := client.CreateSite(ctx, input)
			if err != nil {
				return SubmitResult{}, err
			}
			return SubmitResult{ID: site.ID, Label: site.Name}, nil
		},
		Update: func(ctx context.Context, id int64, input api.SiteInput) (SubmitResult, error) {
			site, err := client.UpdateSiteInfo(ctx, id, input)
			if err != nil {
				return SubmitResult{}, err
			}
			return SubmitResult{ID: site.ID, Label: site.Name}, nil
		},
	}

	s.FormSession = NewFormSession("site", hooks, notify, owner)
	return s
}

// Open loads the cert and template selectors alongside the generic session.
// For an existing site the saved template is resolved immediately so the
// variable slots match the saved values.
func (s *SiteFormSession) Open(ctx context.Context, id int64) error {
	s.mu.Lock()
	s.selectedTemplate = 0
	s.variables = nil
	s.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		certs, err := pageAll(gctx, s.client.ListCerts)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.certs = certs
		s.mu.Unlock()
		return nil
	})
	g.Go(func() error {
		templates, err := pageAll(gctx, s.client.ListTemplates)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.templates = templates
		s.mu.Unlock()
		return nil
	})
	if err := g.Wait(); err != nil {
		s.notify.Error("site form load failed", err.Error())
		return err
	}

	if err := s.FormSession.Open(ctx, id); err != nil {
		return err
	}

	if id != 0 && s.Loaded() {
		if tid := s.Values().TemplateID; tid != 0 {
			return s.selectTemplate(ctx, tid, true)
		}
	}
	return nil
}

// Certs returns the certificate selector options.
func (s *SiteFormSession) Certs() []api.Cert {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.certs
}

// Templates returns the template selector options.
func (s *SiteFormSession) Templates() []api.Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.templates
}

// VariableSlots returns the selected template's variable names. The form
// renders exactly one value input per entry.
func (s *SiteFormSession) VariableSlots() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.variables
}

// SelectTemplate is the user-driven template switch: it fetches the chosen
// template and rebuilds the value slots from scratch.
func (s *SiteFormSession) SelectTemplate(ctx context.Context, templateID int64) error {
	if s.State() == EditLocked {
		return ErrFormLocked
	}
	return s.selectTemplate(ctx, templateID, false)
}

// selectTemplate resolves a template choice. With preserveValues the current
// value list is kept when it already matches the slot count (the edit-open
// path, where saved values correspond to the saved template); otherwise the
// slots start empty.
func (s *SiteFormSession) selectTemplate(ctx context.Context, templateID int64, preserveValues bool) error {
	s.mu.Lock()
	if s.selectedTemplate == templateID {
		s.mu.Unlock()
		return nil
	}
	s.selectedTemplate = templateID
	tag := uuid.NewString()
	s.templateTag = tag
	s.mu.Unlock()

	tpl, err := s.client.GetTemplate(ctx, templateID)

	s.mu.Lock()
	if s.selectedTemplate != templateID || s.templateTag != tag {
		// Selection moved on while the fetch was in flight.
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		s.mu.Unlock()
		s.notify.Error("template load failed", err.Error())
		return err
	}
	s.variables = tpl.Variables
	s.mu.Unlock()

	values := s.FormSession.Values()
	values.TemplateID = templateID
	if !preserveValues || len(values.TemplateValues) != len(tpl.Variables) {
		values.TemplateValues = make([]string, len(tpl.Variables))
	}

	f := s.FormSession
	f.mu.Lock()
	f.current = values
	f.mu.Unlock()
	return nil
}
