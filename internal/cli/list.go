package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/nyacdn/cdnctl/internal/console"
)

// noopInvalidator satisfies console.Invalidator for one-shot commands that
// hold no list state to invalidate.
type noopInvalidator struct{}

func (noopInvalidator) Invalidate() {}

func listEntities[T any](ctx context.Context, a *App, kind string, list console.ListFunc[T], del console.DeleteFunc, page int, render func(w io.Writer, item T)) error {
	lc := console.NewListController(kind, list, del, a.Notifier(), a.Confirmer(), a.Logger)
	if err := lc.LoadPage(ctx, page); err != nil {
		return err
	}
	cur := lc.Current()
	if cur == nil {
		return nil
	}
	for _, item := range cur.List {
		render(a.Out, item)
	}
	fmt.Fprintf(a.Out, "page %d of %d\n", lc.Page(), cur.PageMax)
	return nil
}

func deleteEntity[T any](ctx context.Context, a *App, kind string, list console.ListFunc[T], del console.DeleteFunc, id int64, label string) error {
	lc := console.NewListController(kind, list, del, a.Notifier(), a.Confirmer(), a.Logger)
	return lc.Delete(ctx, id, label)
}
