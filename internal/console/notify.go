// Package console implements the UI-independent control logic of the admin
// client: paginated list controllers, the lock/unlock form guard used by every
// entity editor, and the one-time secret reveal flow. A frontend (the CLI, a
// TUI, tests) plugs in via the small interfaces below.
package console

// Notifier surfaces transient, non-blocking notifications. Errors carry the
// backend's message verbatim.
type Notifier interface {
	Success(title, message string)
	Error(title, message string)
}

// Confirmer gates destructive actions. Returning false means the user
// cancelled and no request may be issued.
type Confirmer interface {
	Confirm(title, message string) bool
}

// SecretSink receives a freshly issued secret for its single display.
type SecretSink interface {
	Show(reveal *SecretReveal)
}

// Invalidator is the hook a form session uses to force its owning list to
// refetch after a successful mutation.
type Invalidator interface {
	Invalidate()
}
