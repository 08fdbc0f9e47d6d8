package timing

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lookupError struct{}

func (lookupError) Error() string { return "lookup blew up" }

func TestStageSuccess(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	got, err := Stage(logger, "enrich_vendor_codes", func() (int, error) {
		time.Sleep(time.Millisecond)
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, got, "return value must pass through unchanged")

	out := buf.String()
	lines := strings.Count(out, "\n")
	assert.Equal(t, 1, lines, "exactly one log line per call")
	assert.Contains(t, out, `"operation":"enrich_vendor_codes"`)
	assert.Contains(t, out, `"status":"OK"`)
	assert.Contains(t, out, `"started"`)
	assert.Contains(t, out, `"finished"`)
	assert.Contains(t, out, `"duration"`)
}

func TestStageError(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	got, err := Stage(logger, "enrich_vendor_codes", func() (string, error) {
		return "partial", lookupError{}
	})

	require.Error(t, err)
	assert.Equal(t, lookupError{}, err, "error must propagate unchanged")
	assert.Equal(t, "partial", got, "value returned alongside the error passes through")

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, out, `"level":"error"`)
	assert.Contains(t, out, "ERROR: timing.lookupError", "status carries the failure's kind")
	assert.Contains(t, out, "lookup blew up")
}

func TestRun(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	err := Run(logger, "write_outputs", func() error { return nil })
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"operation":"write_outputs"`)

	buf.Reset()
	err = Run(logger, "write_outputs", func() error { return lookupError{} })
	require.Error(t, err)
	assert.Contains(t, buf.String(), `"status":"ERROR: timing.lookupError"`)
}
