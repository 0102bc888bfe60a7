// Package main implements the tabula binary: an interactive shell over an
// in-memory tabular data engine.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/tabula/tabula/internal/config"
	"github.com/tabula/tabula/internal/logging"
	"github.com/tabula/tabula/internal/shell"
)

var version = "dev"

func main() {
	var (
		configFile  string
		logLevel    string
		seqURL      string
		showVersion bool
	)

	flag.StringVar(&configFile, "config", "", "Path to configuration file (YAML or JSON)")
	flag.StringVar(&logLevel, "log-level", "", "Minimum log level: debug, info, warn, error")
	flag.StringVar(&seqURL, "seq", "", "Seq ingestion endpoint for structured logs")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Tabula - an in-memory tabular data shell\n\n")
		fmt.Fprintf(os.Stderr, "Usage: tabula [options] [file.csv]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  TABULA_PROMPT           Interactive prompt string\n")
		fmt.Fprintf(os.Stderr, "  TABULA_VIEWER_MAX_ROWS  Row cap for the list command\n")
		fmt.Fprintf(os.Stderr, "  TABULA_LOG_LEVEL        Minimum log level\n")
		fmt.Fprintf(os.Stderr, "  TABULA_LOG_FORMAT       Console log format (text, json)\n")
		fmt.Fprintf(os.Stderr, "  TABULA_SEQ_URL          Seq ingestion endpoint\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("tabula version %s\n", version)
		os.Exit(0)
	}

	// A local .env provides environment defaults, if present.
	_ = godotenv.Load()

	cfg, err := loadConfig(configFile, logLevel, seqURL)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, closeLogger := logging.Setup(cfg.Log)
	defer closeLogger()

	sh := shell.New(cfg, logger)
	if path := flag.Arg(0); path != "" {
		if err := sh.Load(path); err != nil {
			log.Fatalf("Failed to load %s: %v", path, err)
		}
		fmt.Printf("Loaded %d vars and %d observations\n",
			len(sh.Dataset().Columns()), sh.Dataset().RowCount())
	}
	sh.Run(os.Stdin, os.Stdout)
}

// loadConfig loads configuration from file, environment and flags, in
// ascending priority.
func loadConfig(configFile, logLevel, seqURL string) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if configFile != "" {
		cfg, err = config.LoadFromFile(configFile)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.DefaultConfig()
	}

	config.LoadFromEnv(cfg)

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if seqURL != "" {
		cfg.Log.SeqURL = seqURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
