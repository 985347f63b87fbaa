package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Login prompts for credentials, exchanges them for a bearer token and
// persists it. Flag values, when given, override the prompts so login
// can be scripted.
func (a *App) Login(ctx context.Context, username, password string) error {
	var err error
	if username == "" {
		username, err = a.prompt("Username: ")
		if err != nil {
			return err
		}
	}
	if password == "" {
		password, err = a.promptSecret("Password: ")
		if err != nil {
			return err
		}
	}

	token, err := a.Client.Login(ctx, username, password)
	if err != nil {
		return err
	}
	if err := a.Session.SetToken(token); err != nil {
		return err
	}

	self, err := a.Session.SelfInfo(ctx, a.Client)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "logged in as %s\n", color.CyanString(self.Username))
	return nil
}

func (a *App) Logout() error {
	if err := a.Session.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(a.Out, "logged out")
	return nil
}

// Whoami prints the authenticated account, refetching it from the
// backend when the cached copy has been invalidated.
func (a *App) Whoami(ctx context.Context) error {
	self, err := a.Session.SelfInfo(ctx, a.Client)
	if err != nil {
		return err
	}
	role := "user"
	if self.IsAdmin {
		role = "admin"
	}
	fmt.Fprintf(a.Out, "%s (%s) id=%d role=%s\n", self.Username, self.Name, self.ID, role)
	return nil
}

func (a *App) prompt(label string) (string, error) {
	fmt.Fprint(a.Out, label)
	line, err := bufio.NewReader(a.In).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (a *App) promptSecret(label string) (string, error) {
	fmt.Fprint(a.Out, label)
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return a.prompt("")
	}
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(a.Out)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
