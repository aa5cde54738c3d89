package config

import (
	"flag"
	"fmt"
	"strings"

	"github.com/bethropolis/bindery/internal/logger"
)

// Flags holds values parsed from command-line flags.
type Flags struct {
	fs *flag.FlagSet

	ConfigFilePath  *string
	Version         *bool
	LogLevel        *string
	LogFilePath     *string
	EnableTags      *string
	DisableTags     *string
	EnablePkgs      *string
	DisablePkgs     *string
	Capacity        *int
	RecordNoop      *bool
	AutoWrap        *bool
	Operation       *string
	ThemeFile       *string
	SystemClipboard *bool
}

// NewFlags defines the command-line flags on a fresh flag set.
func NewFlags(name string) *Flags {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	f := &Flags{fs: fs}
	f.ConfigFilePath = fs.String("config", "", fmt.Sprintf("Path to TOML configuration file (default ~/.config/%s/%s)", AppName, DefaultConfigFileName))
	f.Version = fs.Bool("version", false, "Show version information and exit")
	f.LogLevel = fs.String("loglevel", "", "Log level (debug, info, warn, error) - Overrides config file")
	f.LogFilePath = fs.String("logfile", "", "Path to write log file (use '-' for stderr) - Overrides config file")
	f.EnableTags = fs.String("log-tags", "", "Comma-separated list of tags to enable - Overrides config file")
	f.DisableTags = fs.String("log-disable-tags", "", "Comma-separated list of tags to disable - Overrides config file")
	f.EnablePkgs = fs.String("log-packages", "", "Comma-separated list of packages to enable - Overrides config file")
	f.DisablePkgs = fs.String("log-disable-packages", "", "Comma-separated list of packages to disable - Overrides config file")
	f.Capacity = fs.Int("capacity", 0, "Maximum number of history actions - Overrides config file")
	f.RecordNoop = fs.Bool("record-noop", false, "Record applications that changed nothing")
	f.AutoWrap = fs.Bool("auto-wrap", false, "Wrap nodes without Auto Layout in a new frame when applying spacing or padding")
	f.Operation = fs.String("op", "", "Initial operation (fill, stroke, spaceBetween, ...)")
	f.ThemeFile = fs.String("theme", "", "Path to a TOML theme file")
	f.SystemClipboard = fs.Bool("system-clipboard", false, "Copy history entries to the system clipboard")
	return f
}

// Parse parses args and returns the remaining non-flag arguments.
func (f *Flags) Parse(args []string) ([]string, error) {
	if err := f.fs.Parse(args); err != nil {
		return nil, err
	}
	return f.fs.Args(), nil
}

// ApplyOverrides updates cfg with the flags that were set on the command line.
func (f *Flags) ApplyOverrides(cfg *Config) {
	f.fs.Visit(func(fl *flag.Flag) {
		logger.DebugTagf("config", "Applying flag override: %s=%s", fl.Name, fl.Value)
		switch fl.Name {
		case "loglevel":
			if *f.LogLevel != "" {
				cfg.Logger.LogLevel = *f.LogLevel
			}
		case "logfile":
			cfg.Logger.LogFilePath = *f.LogFilePath
		case "log-tags":
			cfg.Logger.EnabledTags = splitCommaList(*f.EnableTags)
		case "log-disable-tags":
			cfg.Logger.DisabledTags = splitCommaList(*f.DisableTags)
		case "log-packages":
			cfg.Logger.EnabledPackages = splitCommaList(*f.EnablePkgs)
		case "log-disable-packages":
			cfg.Logger.DisabledPackages = splitCommaList(*f.DisablePkgs)
		case "capacity":
			if *f.Capacity > 0 {
				cfg.History.Capacity = *f.Capacity
			}
		case "record-noop":
			cfg.History.RecordNoop = *f.RecordNoop
		case "auto-wrap":
			cfg.Binding.AutoWrap = *f.AutoWrap
		case "op":
			cfg.Binding.DefaultOperation = *f.Operation
		case "theme":
			cfg.UI.ThemeFile = *f.ThemeFile
		case "system-clipboard":
			cfg.UI.SystemClipboard = *f.SystemClipboard
		}
	})
}

func splitCommaList(list string) []string {
	if list == "" {
		return nil
	}
	items := strings.Split(list, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
