package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"

	"github.com/labauto/pathovar/internal/robot"
)

func runRobot(args []string) int {
	fs := flag.NewFlagSet("robot", flag.ExitOnError)

	var addr string
	fs.StringVar(&addr, "addr", viper.GetString("robot.addr"), "Listen address")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Serve the liquid-handling robot simulator over HTTP.

Each POST /run_aliquot runs the PCR aliquot protocol in simulation
(50 uL from A1 to A2-A9, one tip) and returns the first %d log lines.

Usage:
  pathovar robot [options]

Options:
`, robot.LogLineLimit)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  pathovar robot --addr :8001
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	logger := newLogger()
	defer logger.Sync()

	srv := robot.NewServer()
	srv.SetLogger(logger)

	gin.SetMode(gin.ReleaseMode)
	router := srv.Router()

	fmt.Fprintf(os.Stderr, "Robot simulator listening on %s\n", addr)
	if err := router.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	return ExitSuccess
}
