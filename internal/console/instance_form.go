package console

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nyacdn/cdnctl/internal/api"
)

// InstanceFormSession edits edge instances. Creation returns the instance's
// one-time auth token, which is routed through the secret reveal flow before
// the session closes.
type InstanceFormSession struct {
	*FormSession[api.InstanceInput]

	client *api.Client
	notify Notifier

	mu    sync.Mutex
	sites []api.Site
	files []api.AdditionalFile
}

func NewInstanceFormSession(client *api.Client, notify Notifier, owner Invalidator, secrets SecretSink) *InstanceFormSession {
	s := &InstanceFormSession{client: client, notify: notify}

	hooks := FormHooks[api.InstanceInput]{
		Fetch: func(ctx context.Context, id int64) (api.InstanceInput, error) {
			inst, err := client.GetInstance(ctx, id)
			if err != nil {
				return api.InstanceInput{}, err
			}
			return inst.InstanceInput, nil
		},
		Create: func(ctx context.Context, input api.InstanceInput) (SubmitResult, error) {
			inst, err := client.CreateInstance(ctx, input)
			if err != nil {
				return SubmitResult{}, err
			}
			return SubmitResult{ID: inst.ID, Label: inst.Name, Secret: inst.Token}, nil
		},
		Update: func(ctx context.Context, id int64, input api.InstanceInput) (SubmitResult, error) {
			inst, err := client.UpdateInstanceInfo(ctx, id, input)
			if err != nil {
				return SubmitResult{}, err
			}
			return SubmitResult{ID: inst.ID, Label: inst.Name}, nil
		},
	}

	s.FormSession = NewFormSession("instance", hooks, notify, owner)
	s.FormSession.SetSecretSink(secrets)
	return s
}

// Open loads the site and additional-file selectors (whole collections, the
// fetch-all sentinel) alongside the generic session.
func (s *InstanceFormSession) Open(ctx context.Context, id int64) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sites, err := pageAll(gctx, s.client.ListSites)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.sites = sites
		s.mu.Unlock()
		return nil
	})
	g.Go(func() error {
		files, err := pageAll(gctx, s.client.ListAdditionalFiles)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.files = files
		s.mu.Unlock()
		return nil
	})
	if err := g.Wait(); err != nil {
		s.notify.Error("instance form load failed", err.Error())
		return err
	}

	return s.FormSession.Open(ctx, id)
}

// Sites returns the site selector options.
func (s *InstanceFormSession) Sites() []api.Site {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sites
}

// AdditionalFiles returns the additional-file selector options.
func (s *InstanceFormSession) AdditionalFiles() []api.AdditionalFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files
}
