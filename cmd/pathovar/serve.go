package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"

	"github.com/labauto/pathovar/internal/feature"
	"github.com/labauto/pathovar/internal/model"
	"github.com/labauto/pathovar/internal/serve"
	"github.com/labauto/pathovar/internal/vcf"
)

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)

	var (
		modelPath  string
		addr       string
		maxSkipped int
	)

	fs.StringVar(&modelPath, "model", "data/model.json", "Model artifact path")
	fs.StringVar(&addr, "addr", viper.GetString("serve.addr"), "Listen address")
	fs.IntVar(&maxSkipped, "max-skipped", viper.GetInt("extract.max_skipped"),
		"Malformed records tolerated per upload before the request fails")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Serve predictions for gzip VCF uploads over HTTP.

The model is loaded once at startup and checked against the extractor
schema before the first request is accepted.

Endpoints:
  POST /tool/annotate_variants  (multipart field %q)
  GET  /healthz

Usage:
  pathovar serve [options]

Options:
`, serve.UploadField)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  pathovar serve --model data/model.json --addr :8000
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	m, err := model.Load(modelPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading model: %v\n", err)
		fmt.Fprintf(os.Stderr, "Hint: train one with: pathovar train --model %s\n", modelPath)
		return ExitError
	}

	svc, err := serve.NewService(m, feature.SchemaV1, vcf.Options{MaxSkipped: maxSkipped})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Hint: retrain the model against the current schema\n")
		return ExitError
	}

	logger := newLogger()
	defer logger.Sync()
	svc.SetLogger(logger)

	gin.SetMode(gin.ReleaseMode)
	router := serve.Router(svc)

	fmt.Fprintf(os.Stderr, "Serving variant predictions on %s (schema %s)\n", addr, m.SchemaVersion)
	if err := router.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	return ExitSuccess
}
