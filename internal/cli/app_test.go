package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyacdn/cdnctl/internal/console"
)

func TestTermNotifier(t *testing.T) {
	var out bytes.Buffer
	n := &termNotifier{out: &out}

	n.Success("cert created", "wildcard")
	n.Error("cert delete failed", "still referenced")

	assert.Contains(t, out.String(), "cert created: wildcard")
	assert.Contains(t, out.String(), "cert delete failed: still referenced")
}

func TestTermConfirmer(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"yes\n", true},
		{"Y\n", true},
		{"n\n", false},
		{"\n", false},
		{"whatever\n", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		app := &App{Out: &out, In: strings.NewReader(tt.input)}
		got := app.Confirmer().Confirm("Delete site", "Delete site docs?")
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Contains(t, out.String(), "Delete site docs?")
	}
}

func TestAutoConfirm(t *testing.T) {
	app := &App{Yes: true}
	assert.True(t, app.Confirmer().Confirm("Delete site", "Delete site docs?"))
}

func TestTermSecretSink_ShowsTokenOnce(t *testing.T) {
	var out bytes.Buffer
	sink := &termSecretSink{out: &out}

	reveal := console.NewSecretReveal("tok-123")
	sink.Show(reveal)

	assert.Contains(t, out.String(), "tok-123")
	assert.True(t, reveal.Dismissed(), "the sink dismisses after printing")
}

func TestTermSecretSink_ConsumedRevealPrintsNothing(t *testing.T) {
	reveal := console.NewSecretReveal("tok-123")
	_, err := reveal.Reveal()
	require.NoError(t, err)

	var out bytes.Buffer
	(&termSecretSink{out: &out}).Show(reveal)
	assert.NotContains(t, out.String(), "tok-123")
}
