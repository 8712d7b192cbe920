package logger_adapter

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"estate-agency/internal/core/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedPost struct {
	tag  string
	data port.Fields
}

type fakeFluent struct {
	posts  []recordedPost
	closed bool
}

func (f *fakeFluent) Post(tag string, message interface{}) error {
	f.posts = append(f.posts, recordedPost{tag: tag, data: message.(port.Fields)})
	return nil
}

func (f *fakeFluent) Close() error {
	f.closed = true
	return nil
}

func TestParseLevel(t *testing.T) {
	lvl, ok := ParseLevel("DEBUG")
	assert.True(t, ok)
	assert.Equal(t, slog.LevelDebug, lvl)

	lvl, ok = ParseLevel("warning")
	assert.True(t, ok)
	assert.Equal(t, slog.LevelWarn, lvl)

	lvl, ok = ParseLevel("verbose")
	assert.False(t, ok)
	assert.Equal(t, slog.LevelInfo, lvl)
}

func TestSlogAdapter_WritesFieldsAndError(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlogAdapter(SlogConfig{Writer: &buf, Level: slog.LevelDebug})

	log.WithFields(port.Fields{"component": "test"}).
		Error("store failed", errors.New("boom"), port.Fields{"id": 7})

	out := buf.String()
	assert.Contains(t, out, "store failed")
	assert.Contains(t, out, "component=test")
	assert.Contains(t, out, "id=7")
	assert.Contains(t, out, "error=boom")
}

func TestSlogAdapter_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlogAdapter(SlogConfig{Writer: &buf, Level: slog.LevelWarn})

	log.Info("hidden", nil)
	log.Debug("hidden", nil)
	assert.Empty(t, buf.String())

	log.Warn("shown", nil)
	assert.Contains(t, buf.String(), "shown")
}

func TestFluentAdapter_FiltersAndTags(t *testing.T) {
	client := &fakeFluent{}
	adapter, err := NewFluentLoggerAdapter(client, slog.LevelInfo)
	require.NoError(t, err)

	scoped := adapter.WithFields(port.Fields{"use_case": "Create"})
	scoped.Debug("skipped", nil)
	scoped.Info("created", port.Fields{"id": 1})
	scoped.Error("failed", errors.New("nope"), nil)

	require.Len(t, client.posts, 2)
	assert.Equal(t, "info", client.posts[0].tag)
	assert.Equal(t, "created", client.posts[0].data["message"])
	assert.Equal(t, "Create", client.posts[0].data["use_case"])
	assert.Equal(t, 1, client.posts[0].data["id"])

	assert.Equal(t, "error", client.posts[1].tag)
	assert.Equal(t, "nope", client.posts[1].data["error"])

	require.NoError(t, adapter.Close())
	assert.True(t, client.closed)
}

func TestFluentAdapter_RejectsNilClient(t *testing.T) {
	_, err := NewFluentLoggerAdapter(nil, nil)
	assert.Error(t, err)
}

func TestMultiLogger_FansOut(t *testing.T) {
	first, second := &fakeFluent{}, &fakeFluent{}
	a, _ := NewFluentLoggerAdapter(first, slog.LevelDebug)
	b, _ := NewFluentLoggerAdapter(second, slog.LevelDebug)

	multi, err := NewMultiloggerAdapter(a, b)
	require.NoError(t, err)

	multi.WithFields(port.Fields{"k": "v"}).Warn("careful", nil)

	require.Len(t, first.posts, 1)
	require.Len(t, second.posts, 1)
	assert.Equal(t, "v", second.posts[0].data["k"])
}

func TestMultiLogger_RequiresLogger(t *testing.T) {
	_, err := NewMultiloggerAdapter()
	assert.Error(t, err)

	single, err := NewMultiloggerAdapter(nil, NewSlogAdapter(SlogConfig{}))
	require.NoError(t, err)
	assert.IsType(t, &SlogAdapter{}, single)
}
