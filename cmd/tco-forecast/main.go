package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/iwvelando/vehicle-tco/internal/config"
	"github.com/iwvelando/vehicle-tco/internal/controller"
	"github.com/iwvelando/vehicle-tco/internal/forecast"
	"github.com/iwvelando/vehicle-tco/internal/logging"
	"github.com/iwvelando/vehicle-tco/internal/optimizer"
	"github.com/iwvelando/vehicle-tco/pkg/constants"
	"github.com/iwvelando/vehicle-tco/pkg/output"
	"github.com/iwvelando/vehicle-tco/pkg/validation"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	watch := flag.Bool("watch", false, "re-run the forecast whenever the configuration file changes")
	optimize := flag.Bool("optimize", false, "run the equal-cost search configured on each comparison")
	flag.Parse()

	// TCO_* overrides may live in a local .env file.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load .env\", \"error\": \"%v\"}\n", err)
		return
	}

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}

	// Initialize logging based on config and CLI override
	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	if *watch {
		runWatch(logger, *configLocation, outputFormat)
		return
	}

	logWarnings(logger, conf.ValidateConfiguration())

	results, err := forecast.GetForecast(logger, *conf)
	if err != nil {
		logger.Fatal("failed to compute forecast",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	if *optimize {
		runner, err := optimizer.NewRunner(logger, conf)
		if err != nil {
			logger.Fatal("failed to initialize optimizer",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		optimized, err := runner.Run()
		if err != nil {
			logger.Fatal("failed to run optimizer",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		if optimized.Empty() {
			logger.Info("no optimizer directives configured",
				zap.String("op", "main"),
			)
		}
		optimized.Apply(results)
	}

	if err := output.Write(os.Stdout, outputFormat, results); err != nil {
		logger.Fatal("failed to write forecast",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

// runWatch renders the forecast once and again after every change to the
// configuration file, until interrupted.
func runWatch(logger *zap.Logger, configPath, outputFormat string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctrl := controller.New(logger, output.Renderer{Writer: os.Stdout, Format: outputFormat})

	reload := func(conf *config.Configuration) {
		logWarnings(logger, conf.ValidateConfiguration())
		if err := ctrl.Reload(conf); err != nil {
			logger.Error("failed to recompute forecast, keeping previous result",
				zap.String("op", "main.runWatch"),
				zap.Error(err),
			)
		}
	}

	conf, err := config.Watch(configPath, reload, func(err error) {
		logger.Error("failed to reload configuration",
			zap.String("op", "main.runWatch"),
			zap.Error(err),
		)
	})
	if err != nil {
		logger.Fatal("failed to watch configuration",
			zap.String("op", "main.runWatch"),
			zap.Error(err),
		)
	}
	reload(conf)

	logger.Info("watching configuration for changes",
		zap.String("op", "main.runWatch"),
		zap.String("config", configPath),
	)
	<-ctx.Done()
}

func logWarnings(logger *zap.Logger, warnings []string) {
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}
}
