package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nyacdn/cdnctl/internal/api"
	"github.com/nyacdn/cdnctl/internal/console"
)

func (a *App) FileList(ctx context.Context, page int) error {
	return listEntities(ctx, a, "additional file", a.Client.ListAdditionalFiles, a.Client.DeleteAdditionalFile, page, func(w io.Writer, f api.AdditionalFile) {
		fmt.Fprintf(w, "%-6d %-24s %s\n", f.ID, f.Name, f.Filename)
	})
}

func (a *App) FileGet(ctx context.Context, id int64) error {
	f, err := a.Client.GetAdditionalFile(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "id:       %d\n", f.ID)
	fmt.Fprintf(a.Out, "name:     %s\n", f.Name)
	fmt.Fprintf(a.Out, "filename: %s\n", f.Filename)
	return nil
}

func (a *App) FileCreate(ctx context.Context, name, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	form := console.NewAdditionalFileFormSession(a.Client, a.Notifier(), noopInvalidator{})
	if err := form.Open(ctx, 0); err != nil {
		return err
	}
	input := api.AdditionalFileInput{Content: content}
	input.Name = name
	input.Filename = filepath.Base(path)
	if err := form.SetValues(input); err != nil {
		return err
	}
	return form.Submit(ctx)
}

// FileUpdate renames the record and, when a path is given, replaces the
// stored content in the same submission.
func (a *App) FileUpdate(ctx context.Context, id int64, name, path string) error {
	form := console.NewAdditionalFileFormSession(a.Client, a.Notifier(), noopInvalidator{})
	if err := form.Open(ctx, id); err != nil {
		return err
	}
	if err := form.Unlock(); err != nil {
		return err
	}

	values := form.Values()
	if name != "" {
		values.Name = name
	}
	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		values.Content = content
		values.Filename = filepath.Base(path)
	}
	if err := form.SetValues(values); err != nil {
		return err
	}
	return form.Submit(ctx)
}

// FileDownload writes the stored content to dest, defaulting to the
// backend's filename in the working directory.
func (a *App) FileDownload(ctx context.Context, id int64, dest string) error {
	content, filename, err := a.Client.DownloadAdditionalFile(ctx, id)
	if err != nil {
		return err
	}
	if dest == "" {
		dest = filename
	}
	if dest == "" {
		dest = fmt.Sprintf("additional-file-%d", id)
	}
	if err := os.WriteFile(dest, content, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "wrote %d bytes to %s\n", len(content), dest)
	return nil
}

func (a *App) FileDelete(ctx context.Context, id int64) error {
	f, err := a.Client.GetAdditionalFile(ctx, id)
	if err != nil {
		return err
	}
	return deleteEntity(ctx, a, "additional file", a.Client.ListAdditionalFiles, a.Client.DeleteAdditionalFile, id, f.Name)
}
