/*
quatmesh samples a 4D quaternion Julia set over a 3D grid, extracts the
isosurface with marching cubes and writes it as a binary STL file.
*/
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/quatmesh/engine"
	"github.com/spaghettifunk/quatmesh/engine/core"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file (defaults are used when empty)")
	watch := flag.Bool("watch", false, "regenerate the mesh whenever the config file changes")
	logLevel := flag.String("log-level", "", "override the configured log level (debug, info, warn, error)")
	flag.Parse()

	app := &engine.ApplicationConfig{
		Name:       "quatmesh",
		ConfigPath: *configPath,
		Watch:      *watch,
	}
	if *logLevel != "" {
		lvl, err := core.ParseLogLevel(*logLevel)
		if err != nil {
			core.LogFatal("invalid -log-level: %s", err)
		}
		app.LogLevel = &lvl
	}

	e, err := engine.New(app, engine.Hooks{})
	if err != nil {
		core.LogFatal("%s", err)
	}

	if err := e.Initialize(); err != nil {
		core.LogFatal("%s", err)
	}

	// signal channel to capture system calls
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// start shutdown goroutine
	go func() {
		// capture sigterm and other system call here
		sig := <-sigCh
		core.LogInfo("received %s, stopping", sig)
		cancel()
	}()

	// run engine
	runErr := e.Run(ctx)
	cancel()
	if err := e.Shutdown(); err != nil {
		core.LogError("shutdown: %s", err)
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		core.LogError("%s", runErr)
		os.Exit(1)
	}
}
