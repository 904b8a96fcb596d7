package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"

	"github.com/labauto/pathovar/internal/gateway"
)

func runGateway(args []string) int {
	fs := flag.NewFlagSet("gateway", flag.ExitOnError)

	var (
		addr           string
		variantURL     string
		robotURL       string
		variantTimeout time.Duration
		robotTimeout   time.Duration
	)

	fs.StringVar(&addr, "addr", viper.GetString("gateway.addr"), "Listen address")
	fs.StringVar(&variantURL, "variant-url", viper.GetString("gateway.variant_url"),
		"Variant annotation service endpoint")
	fs.StringVar(&robotURL, "robot-url", viper.GetString("gateway.robot_url"),
		"Robot control service endpoint")
	fs.DurationVar(&variantTimeout, "variant-timeout", viper.GetDuration("gateway.variant_timeout"),
		"Variant service request timeout")
	fs.DurationVar(&robotTimeout, "robot-timeout", viper.GetDuration("gateway.robot_timeout"),
		"Robot service request timeout")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Proxy the variant and robot services behind one endpoint.

Endpoints:
  POST /tool/annotate_variants  -> variant service
  POST /tool/aliquot_plate      -> robot service
  GET  /healthz

Upstream failures and timeouts are reported as 503 with the upstream
error text attached; requests are never retried.

Usage:
  pathovar gateway [options]

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  pathovar gateway --addr :8080
  pathovar gateway --variant-url http://variants:8000/tool/annotate_variants
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	logger := newLogger()
	defer logger.Sync()

	gw := gateway.New(gateway.Config{
		VariantURL:     variantURL,
		RobotURL:       robotURL,
		VariantTimeout: variantTimeout,
		RobotTimeout:   robotTimeout,
	})
	gw.SetLogger(logger)

	gin.SetMode(gin.ReleaseMode)
	router := gw.Router()

	fmt.Fprintf(os.Stderr, "Gateway listening on %s\n", addr)
	fmt.Fprintf(os.Stderr, "  Variant service: %s\n", variantURL)
	fmt.Fprintf(os.Stderr, "  Robot service:   %s\n", robotURL)
	if err := router.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	return ExitSuccess
}
