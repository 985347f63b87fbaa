package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/nyacdn/cdnctl/internal/api"
	"github.com/nyacdn/cdnctl/internal/console"
)

func (a *App) userForm(ctx context.Context) (*console.UserFormSession, error) {
	self, err := a.Session.SelfInfo(ctx, a.Client)
	if err != nil {
		return nil, err
	}
	return console.NewUserFormSession(a.Client, a.Notifier(), noopInvalidator{}, self.ID, a.Session.InvalidateSelf), nil
}

func (a *App) UserList(ctx context.Context, page int) error {
	return listEntities(ctx, a, "user", a.Client.ListUsers, a.Client.DeleteUser, page, func(w io.Writer, u api.User) {
		role := "user"
		if u.IsAdmin {
			role = "admin"
		}
		fmt.Fprintf(w, "%-6d %-24s %-24s %s\n", u.ID, u.Name, u.Username, role)
	})
}

func (a *App) UserGet(ctx context.Context, id int64) error {
	u, err := a.Client.GetUser(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "id:       %d\n", u.ID)
	fmt.Fprintf(a.Out, "name:     %s\n", u.Name)
	fmt.Fprintf(a.Out, "username: %s\n", u.Username)
	fmt.Fprintf(a.Out, "admin:    %t\n", u.IsAdmin)
	return nil
}

func (a *App) UserCreate(ctx context.Context, name, username, password string, isAdmin bool) error {
	form, err := a.userForm(ctx)
	if err != nil {
		return err
	}
	if err := form.Open(ctx, 0); err != nil {
		return err
	}
	if err := form.SetValues(api.UserInput{Name: name}); err != nil {
		return err
	}
	if err := form.SetUsername(username); err != nil {
		return err
	}
	if err := form.SetPassword(password); err != nil {
		return err
	}
	if err := form.SetIsAdmin(isAdmin); err != nil {
		return err
	}
	return form.Submit(ctx)
}

// UserRename changes the display name, the only field the generic user
// update accepts.
func (a *App) UserRename(ctx context.Context, id int64, name string) error {
	form, err := a.userForm(ctx)
	if err != nil {
		return err
	}
	if err := form.Open(ctx, id); err != nil {
		return err
	}
	if err := form.Unlock(); err != nil {
		return err
	}
	if err := form.SetValues(api.UserInput{Name: name}); err != nil {
		return err
	}
	return form.Submit(ctx)
}

func (a *App) UserSetUsername(ctx context.Context, id int64, username string) error {
	form, err := a.userForm(ctx)
	if err != nil {
		return err
	}
	if err := form.Open(ctx, id); err != nil {
		return err
	}
	form.UnlockUsername()
	if err := form.SetUsername(username); err != nil {
		return err
	}
	return form.CommitUsername(ctx)
}

func (a *App) UserSetPassword(ctx context.Context, id int64, password string) error {
	form, err := a.userForm(ctx)
	if err != nil {
		return err
	}
	if err := form.Open(ctx, id); err != nil {
		return err
	}
	form.UnlockPassword()
	if err := form.SetPassword(password); err != nil {
		return err
	}
	return form.CommitPassword(ctx)
}

func (a *App) UserSetRole(ctx context.Context, id int64, isAdmin bool) error {
	form, err := a.userForm(ctx)
	if err != nil {
		return err
	}
	if err := form.Open(ctx, id); err != nil {
		return err
	}
	form.UnlockRole()
	if err := form.SetIsAdmin(isAdmin); err != nil {
		return err
	}
	return form.CommitRole(ctx)
}

func (a *App) UserDelete(ctx context.Context, id int64) error {
	u, err := a.Client.GetUser(ctx, id)
	if err != nil {
		return err
	}
	return deleteEntity(ctx, a, "user", a.Client.ListUsers, a.Client.DeleteUser, id, u.Username)
}
