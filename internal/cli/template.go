package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/nyacdn/cdnctl/internal/api"
	"github.com/nyacdn/cdnctl/internal/console"
)

// TemplateUpdate carries the fields a template update command may change.
// Nil pointers leave the current value untouched.
type TemplateUpdate struct {
	Name        *string
	Description *string
	Content     *string
	Variables   *[]string
}

func (a *App) TemplateList(ctx context.Context, page int) error {
	return listEntities(ctx, a, "template", a.Client.ListTemplates, a.Client.DeleteTemplate, page, func(w io.Writer, t api.Template) {
		fmt.Fprintf(w, "%-6d %-24s vars=[%s] %s\n", t.ID, t.Name, strings.Join(t.Variables, ","), t.Description)
	})
}

func (a *App) TemplateGet(ctx context.Context, id int64) error {
	t, err := a.Client.GetTemplate(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "id:          %d\n", t.ID)
	fmt.Fprintf(a.Out, "name:        %s\n", t.Name)
	fmt.Fprintf(a.Out, "description: %s\n", t.Description)
	fmt.Fprintf(a.Out, "variables:   %s\n", strings.Join(t.Variables, ","))
	fmt.Fprintf(a.Out, "content:\n%s\n", t.Content)
	return nil
}

func (a *App) templateForm() *console.FormSession[api.TemplateInput] {
	return console.NewFormSession("template", console.FormHooks[api.TemplateInput]{
		Fetch: func(ctx context.Context, id int64) (api.TemplateInput, error) {
			t, err := a.Client.GetTemplate(ctx, id)
			if err != nil {
				return api.TemplateInput{}, err
			}
			return t.TemplateInput, nil
		},
		Create: func(ctx context.Context, input api.TemplateInput) (console.SubmitResult, error) {
			t, err := a.Client.CreateTemplate(ctx, input)
			if err != nil {
				return console.SubmitResult{}, err
			}
			return console.SubmitResult{ID: t.ID, Label: t.Name}, nil
		},
		Update: func(ctx context.Context, id int64, input api.TemplateInput) (console.SubmitResult, error) {
			t, err := a.Client.UpdateTemplateInfo(ctx, id, input)
			if err != nil {
				return console.SubmitResult{}, err
			}
			return console.SubmitResult{ID: t.ID, Label: t.Name}, nil
		},
	}, a.Notifier(), noopInvalidator{})
}

func (a *App) TemplateCreate(ctx context.Context, input api.TemplateInput) error {
	form := a.templateForm()
	if err := form.Open(ctx, 0); err != nil {
		return err
	}
	if err := form.SetValues(input); err != nil {
		return err
	}
	return form.Submit(ctx)
}

func (a *App) TemplateUpdateCmd(ctx context.Context, id int64, upd TemplateUpdate) error {
	form := a.templateForm()
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
	if upd.Description != nil {
		values.Description = *upd.Description
	}
	if upd.Content != nil {
		values.Content = *upd.Content
	}
	if upd.Variables != nil {
		values.Variables = *upd.Variables
	}
	if err := form.SetValues(values); err != nil {
		return err
	}
	return form.Submit(ctx)
}

func (a *App) TemplateDelete(ctx context.Context, id int64) error {
	t, err := a.Client.GetTemplate(ctx, id)
	if err != nil {
		return err
	}
	return deleteEntity(ctx, a, "template", a.Client.ListTemplates, a.Client.DeleteTemplate, id, t.Name)
}
