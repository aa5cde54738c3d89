// cmd/bindery/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	stlog "log" // Use standard log for FATAL errors before logger is ready
	"os"

	"github.com/bethropolis/bindery/internal/app"
	"github.com/bethropolis/bindery/internal/config"
	"github.com/bethropolis/bindery/internal/document"
	"github.com/bethropolis/bindery/internal/logger"
)

func main() {
	// --- Argument & Flag Parsing ---
	flags := config.NewFlags(config.AppName)
	args, err := flags.Parse(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}
	if *flags.Version {
		fmt.Printf("%s %s\n", config.AppName, config.Version)
		os.Exit(0)
	}

	cfg, cfgErr := config.Load(*flags.ConfigFilePath, flags)

	// --- Logger Initialization ---
	output, closeLog, err := logger.OpenOutput(cfg.Logger.LogFilePath)
	if err != nil {
		stlog.Fatalf("%v", err)
	}
	defer closeLog()
	logger.Init(cfg.Logger, output)

	if cfgErr != nil {
		logger.Warnf("Config: %v (using defaults)", cfgErr)
	}
	logger.Infof("Starting %s %s...", config.AppName, config.Version)

	// --- Document ---
	source := "built-in demo"
	load := func() (*document.Document, error) { return document.Demo(), nil }
	if len(args) > 0 {
		source = args[0]
		load = func() (*document.Document, error) { return document.Load(source) }
	} else {
		logger.Debugf("No document specified, starting with the demo document.")
	}
	doc, err := load()
	if err != nil {
		closeLog()
		stlog.Fatalf("%v", err)
	}

	// --- Create and Run App ---
	binderyApp, err := app.NewApp(cfg, doc, app.WithSource(source), app.WithLoader(load))
	if err != nil {
		logger.Errorf("Error initializing application: %v", err)
		closeLog()
		os.Exit(1)
	}

	if err := binderyApp.Run(); err != nil {
		logger.Errorf("Application exited with error: %v", err)
		closeLog()
		os.Exit(1)
	}

	logger.Infof("%s finished.", config.AppName)
}
