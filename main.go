package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tubesave/tubesave/internal/config"
	"github.com/tubesave/tubesave/internal/logging"
	"github.com/tubesave/tubesave/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to the configuration file")
	flag.Parse()

	path := *configPath
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed, using defaults: %v\n", err)
		cfg = config.DefaultConfig()
	}

	log, err := logging.New(logging.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputPath: cfg.Logging.OutputPath,
	})
	if err != nil {
		log = logging.NewDefault()
	}
	defer log.Sync()

	ui.Run(cfg, path, log, version)
}
