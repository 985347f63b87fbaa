package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/nyacdn/cdnctl/internal/api"
	"github.com/nyacdn/cdnctl/internal/console"
	"github.com/nyacdn/cdnctl/internal/timeutil"
)

// InstanceUpdate carries the fields an instance update command may change.
// Nil pointers leave the current value untouched.
type InstanceUpdate struct {
	Name              *string
	PreConfig         *string
	IsManualMode      *bool
	SiteIDs           *[]int64
	AdditionalFileIDs *[]int64
}

func (a *App) InstanceList(ctx context.Context, page int) error {
	return listEntities(ctx, a, "instance", a.Client.ListInstances, a.Client.DeleteInstance, page, func(w io.Writer, in api.Instance) {
		seen := "never"
		if in.LastSeen > 0 {
			seen = timeutil.Relative(in.LastSeen, time.Now())
		}
		mode := "managed"
		if in.IsManualMode {
			mode = "manual"
		}
		fmt.Fprintf(w, "%-6d %-24s %-8s sites=%d files=%d seen %s\n",
			in.ID, in.Name, mode, len(in.SiteIDs), len(in.AdditionalFileIDs), seen)
	})
}

func (a *App) InstanceGet(ctx context.Context, id int64) error {
	in, err := a.Client.GetInstance(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "id:        %d\n", in.ID)
	fmt.Fprintf(a.Out, "name:      %s\n", in.Name)
	fmt.Fprintf(a.Out, "manual:    %t\n", in.IsManualMode)
	fmt.Fprintf(a.Out, "sites:     %v\n", in.SiteIDs)
	fmt.Fprintf(a.Out, "files:     %v\n", in.AdditionalFileIDs)
	if in.LastSeen > 0 {
		fmt.Fprintf(a.Out, "last seen: %s\n", timeutil.DateString(in.LastSeen, true))
	} else {
		fmt.Fprintln(a.Out, "last seen: never")
	}
	if in.PreConfig != "" {
		fmt.Fprintf(a.Out, "pre-config:\n%s\n", in.PreConfig)
	}
	return nil
}

// InstanceCreate registers an instance and prints its auth token through
// the one-time reveal. The token is not retrievable afterwards.
func (a *App) InstanceCreate(ctx context.Context, input api.InstanceInput) error {
	form := console.NewInstanceFormSession(a.Client, a.Notifier(), noopInvalidator{}, a.Secrets())
	if err := form.Open(ctx, 0); err != nil {
		return err
	}
	if err := form.SetValues(input); err != nil {
		return err
	}
	return form.Submit(ctx)
}

func (a *App) InstanceUpdateCmd(ctx context.Context, id int64, upd InstanceUpdate) error {
	form := console.NewInstanceFormSession(a.Client, a.Notifier(), noopInvalidator{}, a.Secrets())
	if err := form.Open(ctx, id); err != nil {
		return err
	}
	if err := form.Unlock(); err != nil {
		return err
	}
	values := form.Values()
	if upd.Name != nil {
		values.Name = *upd.Name
	}
	if upd.PreConfig != nil {
		values.PreConfig = *upd.PreConfig
	}
	if upd.IsManualMode != nil {
		values.IsManualMode = *upd.IsManualMode
	}
	if upd.SiteIDs != nil {
		values.SiteIDs = *upd.SiteIDs
	}
	if upd.AdditionalFileIDs != nil {
		values.AdditionalFileIDs = *upd.AdditionalFileIDs
	}
	if err := form.SetValues(values); err != nil {
		return err
	}
	return form.Submit(ctx)
}

func (a *App) InstanceRotateToken(ctx context.Context, id int64) error {
	in, err := a.Client.GetInstance(ctx, id)
	if err != nil {
		return err
	}
	actions := &console.InstanceActions{
		Client:  a.Client,
		Notify:  a.Notifier(),
		Confirm: a.Confirmer(),
		Secrets: a.Secrets(),
	}
	return actions.RotateToken(ctx, id, in.Name)
}

func (a *App) InstanceDelete(ctx context.Context, id int64) error {
	in, err := a.Client.GetInstance(ctx, id)
	if err != nil {
		return err
	}
	return deleteEntity(ctx, a, "instance", a.Client.ListInstances, a.Client.DeleteInstance, id, in.Name)
}
