package logutil

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDestination(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stderr) })

	Destination("bluesky").Warn("failed", "message", "login refused")

	out := buf.String()
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "destination=bluesky")
	assert.Contains(t, out, `message="login refused"`)
}

func TestDestinationFollowsVerbose(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetVerbose(false)
	})

	SetVerbose(false)
	Destination("devto").Debug("publishing")
	assert.Empty(t, buf.String())

	SetVerbose(true)
	Destination("devto").Debug("publishing")
	assert.Contains(t, buf.String(), "destination=devto")
}
