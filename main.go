package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/hbomb79/Reel/internal"
	"github.com/hbomb79/Reel/pkg/logger"
)

var log = logger.Get("Bootstrap")

// main() is the entry point to the program, from here will
// we load the users Reel configuration (from the file provided,
// and the environment), and then start all of Reel's services
// until we receive an interrupt.
func main() {
	configPath := flag.String("config", "", "path to a YAML config file (environment variables take precedence)")
	flag.Parse()

	var config internal.ReelConfig
	if err := config.LoadFromFile(*configPath); err != nil {
		log.Emit(logger.FATAL, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if level, ok := logger.ParseLevel(config.LogLevel); ok {
		logger.SetMinLoggingLevel(level.Level())
	} else {
		log.Emit(logger.WARNING, "Unknown log level %q, using default\n", config.LogLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reel, err := internal.New(config)
	if err != nil {
		log.Emit(logger.FATAL, "Failed to initialise Reel: %v\n", err)
		os.Exit(1)
	}

	if err := reel.Run(ctx); err != nil {
		log.Emit(logger.FATAL, "Reel stopped unexpectedly: %v\n", err)
		os.Exit(1)
	}

	log.Emit(logger.STOP, "Reel shutdown complete\n")
}
