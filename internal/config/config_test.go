package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"), nil)
	require.NoError(t, err)
	assert.Equal(t, NewDefaultConfig(), cfg)
	assert.Equal(t, 50, cfg.History.Capacity)
	assert.Equal(t, "fill", cfg.Binding.DefaultOperation)
	assert.Equal(t, 4*time.Second, cfg.UI.MessageTimeout)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[logger]
level = "debug"
enabled_tags = ["history"]

[history]
capacity = 20
record_noop = true
id_style = "sequence"

[binding]
auto_wrap = true
default_operation = "borderRadius"

[ui]
message_timeout = "2s"
system_clipboard = false
theme_file = "dark.toml"
`)
	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logger.LogLevel)
	assert.Equal(t, []string{"history"}, cfg.Logger.EnabledTags)
	assert.Equal(t, 20, cfg.History.Capacity)
	assert.True(t, cfg.History.RecordNoop)
	assert.Equal(t, IDStyleSequence, cfg.History.IDStyle)
	assert.True(t, cfg.Binding.AutoWrap)
	assert.Equal(t, "borderRadius", cfg.Binding.DefaultOperation)
	assert.Equal(t, 2*time.Second, cfg.UI.MessageTimeout)
	assert.False(t, cfg.UI.SystemClipboard)
	assert.Equal(t, "dark.toml", cfg.UI.ThemeFile)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[history]\nrecord_noop = true\n"), nil)
	require.NoError(t, err)
	assert.True(t, cfg.History.RecordNoop)
	assert.Equal(t, DefaultCapacity, cfg.History.Capacity)
	assert.Equal(t, IDStyleUUID, cfg.History.IDStyle)
	assert.True(t, cfg.UI.SystemClipboard)
	assert.Equal(t, "info", cfg.Logger.LogLevel)
}

func TestValidateResetsInvalidValues(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
[history]
capacity = -3
id_style = "snowflake"
[binding]
default_operation = "opacity"
[logger]
level = ""
`), nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultCapacity, cfg.History.Capacity)
	assert.Equal(t, IDStyleUUID, cfg.History.IDStyle)
	assert.Equal(t, DefaultOperation, cfg.Binding.DefaultOperation)
	assert.Equal(t, "info", cfg.Logger.LogLevel)
}

func TestLoadBadFileStillReturnsConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[history\ncapacity = "), nil)
	assert.Error(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, DefaultCapacity, cfg.History.Capacity)
}

func TestFlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, "[history]\ncapacity = 20\n[binding]\nauto_wrap = true\n")
	flags := NewFlags("bindery")
	rest, err := flags.Parse([]string{
		"-capacity", "5",
		"-auto-wrap=false",
		"-loglevel", "warn",
		"-log-tags", "history, snapshot,",
		"-op", "stroke",
		"doc.toml",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"doc.toml"}, rest)

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.History.Capacity)
	assert.False(t, cfg.Binding.AutoWrap)
	assert.Equal(t, "warn", cfg.Logger.LogLevel)
	assert.Equal(t, []string{"history", "snapshot"}, cfg.Logger.EnabledTags)
	assert.Equal(t, "stroke", cfg.Binding.DefaultOperation)
}

func TestUnsetFlagsDoNotOverride(t *testing.T) {
	path := writeConfig(t, "[ui]\nsystem_clipboard = false\n")
	flags := NewFlags("bindery")
	_, err := flags.Parse(nil)
	require.NoError(t, err)

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	assert.False(t, cfg.UI.SystemClipboard)
}

func TestParseRejectsUnknownFlag(t *testing.T) {
	flags := NewFlags("bindery")
	flags.fs.SetOutput(io.Discard)
	_, err := flags.Parse([]string{"-nope"})
	assert.Error(t, err)
}

func TestSplitCommaList(t *testing.T) {
	assert.Nil(t, splitCommaList(""))
	assert.Equal(t, []string{"a", "b"}, splitCommaList(" a ,, b "))
}
