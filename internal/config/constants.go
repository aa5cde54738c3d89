package config

import "time"

// Base application details
const AppName = "bindery"
const Version = "0.1.0"
const ThemesDirName = "themes"
const DefaultConfigFileName = "config.toml"
const DefaultLogFileName = "bindery.log"

// UI Layout
const StatusBarHeight = 1

// Status Bar
const MessageTimeout = 4 * time.Second

// History
const DefaultCapacity = 50

// Action id styles: time-sortable UUIDs, or act_1, act_2, ... for reproducible exports.
const (
	IDStyleUUID     = "uuid"
	IDStyleSequence = "sequence"
)

// Binding
const DefaultOperation = "fill"
const AutoWrap = false

const SystemClipboard = true
