// Package main provides the pathovar command-line tool.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Global flags
	var showVersion bool
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Parse()

	if showVersion {
		fmt.Printf("pathovar version %s (%s) built %s\n", version, commit, date)
		return ExitSuccess
	}

	loadConfig()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		return ExitUsage
	}

	switch args[0] {
	case "extract":
		return runExtract(args[1:])
	case "train":
		return runTrain(args[1:])
	case "serve":
		return runServe(args[1:])
	case "gateway":
		return runGateway(args[1:])
	case "robot":
		return runRobot(args[1:])
	case "config":
		return runConfigCommand(args[1:])
	case "help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", args[0])
		printUsage()
		return ExitUsage
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `pathovar - Variant pathogenicity pipeline

Usage:
  pathovar [options] <command> [arguments]

Commands:
  extract     Build a feature table from a ClinVar VCF
  train       Train the pathogenicity classifier on a feature table
  serve       Serve predictions for gzip VCF uploads over HTTP
  gateway     Proxy the variant and robot services behind one endpoint
  robot       Serve the liquid-handling robot simulator over HTTP
  config      Manage pathovar configuration
  help        Show this help message

Global Options:
  --version   Show version information

Examples:
  # Build a labeled feature table from a ClinVar release
  pathovar extract clinvar_20250801.vcf.gz --out data/features.duckdb

  # Train and save the classifier
  pathovar train --data data/features.duckdb --model data/model.json

  # Serve predictions
  pathovar serve --model data/model.json --addr :8000

For more information on a command, use:
  pathovar <command> --help
`)
}

// loadConfig reads ~/.pathovar.yaml when present and installs defaults.
func loadConfig() {
	viper.SetDefault("serve.addr", ":8000")
	viper.SetDefault("robot.addr", ":8001")
	viper.SetDefault("gateway.addr", ":8080")
	viper.SetDefault("gateway.variant_url", "http://127.0.0.1:8000/tool/annotate_variants")
	viper.SetDefault("gateway.robot_url", "http://127.0.0.1:8001/run_aliquot")
	viper.SetDefault("gateway.variant_timeout", "300s")
	viper.SetDefault("gateway.robot_timeout", "120s")
	viper.SetDefault("extract.max_skipped", 1000)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	viper.SetConfigFile(filepath.Join(home, ".pathovar.yaml"))
	_ = viper.ReadInConfig() // missing config file is fine
}

// newLogger builds the process logger handed to components.
func newLogger() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
