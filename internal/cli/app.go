// Package cli implements the cdnctl command surface on top of the admin
// API client and the console controllers.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/nyacdn/cdnctl/internal/api"
	"github.com/nyacdn/cdnctl/internal/config"
	"github.com/nyacdn/cdnctl/internal/console"
	"github.com/nyacdn/cdnctl/internal/logging"
	"github.com/nyacdn/cdnctl/internal/session"
)

// App wires the API client, session store and console adapters together
// for one cdnctl invocation.
type App struct {
	Client  *api.Client
	Session *session.Store
	Logger  zerolog.Logger

	Out io.Writer
	In  io.Reader

	// Yes skips interactive confirmation prompts (-y).
	Yes bool
}

func NewApp() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg.ServiceName = "cdnctl"

	store, err := session.Load()
	if err != nil {
		return nil, err
	}

	return &App{
		Client:  api.NewClient(cfg.APIBaseURL, store),
		Session: store,
		Logger:  logging.NewLogger(cfg),
		Out:     os.Stdout,
		In:      os.Stdin,
	}, nil
}

// Notifier renders console notifications as colored terminal lines.
func (a *App) Notifier() console.Notifier {
	return &termNotifier{out: a.Out}
}

// Confirmer prompts on stdin before destructive operations, or
// auto-approves when -y was given.
func (a *App) Confirmer() console.Confirmer {
	if a.Yes {
		return autoConfirm{}
	}
	return &termConfirmer{out: a.Out, in: bufio.NewReader(a.In)}
}

// Secrets prints one-time tokens to the terminal. The printed line is
// the only chance to record the value.
func (a *App) Secrets() console.SecretSink {
	return &termSecretSink{out: a.Out}
}

type termNotifier struct {
	out io.Writer
}

func (n *termNotifier) Success(title, message string) {
	fmt.Fprintf(n.out, "%s %s: %s\n", color.GreenString("ok"), title, message)
}

func (n *termNotifier) Error(title, message string) {
	fmt.Fprintf(n.out, "%s %s: %s\n", color.RedString("error"), title, message)
}

type termConfirmer struct {
	out io.Writer
	in  *bufio.Reader
}

func (c *termConfirmer) Confirm(title, message string) bool {
	fmt.Fprintf(c.out, "%s: %s [y/N]: ", title, message)
	line, err := c.in.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

type autoConfirm struct{}

func (autoConfirm) Confirm(string, string) bool { return true }

type termSecretSink struct {
	out io.Writer
}

func (s *termSecretSink) Show(reveal *console.SecretReveal) {
	token, err := reveal.Reveal()
	if err != nil {
		return
	}
	fmt.Fprintf(s.out, "%s %s\n", color.YellowString("token:"), token)
	fmt.Fprintln(s.out, color.HiBlackString("this value is shown once and cannot be retrieved again"))
	reveal.Dismiss()
}
