package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cmlabs-hris/grafik-backend-go/internal/cli"
	"github.com/cmlabs-hris/grafik-backend-go/internal/clientconfig"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := clientconfig.DefaultConfigPath()
	if p := os.Getenv("GRAFIK_CONFIG"); p != "" {
		configPath = p
	}
	cfg, err := clientconfig.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.NewApp(cfg, configPath).Execute(ctx)
}
