// cmd/receiptctl/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"receipt-service/internal/assets"
	"receipt-service/internal/config"
	"receipt-service/internal/events"
	"receipt-service/internal/metrics"
	"receipt-service/internal/repository"
	"receipt-service/internal/service"
	"receipt-service/internal/transport"
	"receipt-service/internal/utils"
)

type rootOptions struct {
	configFile string
	queue      string
	verbose    bool
}

// runtime is the printing pipeline built for a single command
type runtime struct {
	config  *config.Config
	logger  *zap.Logger
	printer *service.PrinterService
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "receiptctl",
		Short:        "Print receipts and drive cash drawers on configured printer queues",
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "config file (default: config.yaml in ., ./config or /etc/receipt-service)")
	flags.StringVarP(&opts.queue, "queue", "q", "", "printer queue PORT:NAME (default: printer.queue_id)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log pipeline details to stderr")

	root.AddCommand(
		newPrintCmd(opts),
		newDrawerCmd(opts),
		newTestPageCmd(opts),
		newPreviewCmd(opts),
		newQueuesCmd(opts),
	)
	return root
}

// newRuntime loads configuration and wires the same pipeline the server uses.
// Jobs are recorded in memory only.
func newRuntime(opts *rootOptions) (*runtime, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg.Logging.Output = "stderr"
	cfg.Logging.Format = "console"
	if !opts.verbose {
		cfg.Logging.Level = "warn"
	}
	logger, err := utils.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	registry, err := service.BuildRegistry(cfg.Queues, logger)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	tr := transport.New(registry, transport.Options{
		Policy:      transport.BusyPolicy(cfg.Printer.BusyPolicy),
		LockTimeout: cfg.Printer.LockTimeout,
	}, logger, m)

	printer, err := service.NewPrinterService(
		tr,
		assets.NewLibrary(logger),
		repository.NewMemoryJobRepository(repository.MemoryCapacity),
		events.NewBus(logger),
		m,
		cfg,
		logger,
	)
	if err != nil {
		return nil, err
	}

	return &runtime{config: cfg, logger: logger, printer: printer}, nil
}
