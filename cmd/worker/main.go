// Package main - Entry point for the PayBridge Wallet Worker.
//
// Пример запуска:
//
//	# Development (defaults)
//	go run cmd/worker/main.go
//
//	# With environment variables
//	PAYBRIDGE_DATABASE_HOST=localhost \
//	go run cmd/worker/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/wallethub/core/internal/config"
	"github.com/wallethub/core/internal/container"
)

// Build-time variables (заполняются при сборке)
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "./configs", "Path to config directory")
	configName := flag.String("config-name", "config", "Config file name (without extension)")
	envOnly := flag.Bool("env-only", false, "Load config only from environment variables")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("PayBridge Wallet Worker\n")
		fmt.Printf("Version:    %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Git Commit: %s\n", gitCommit)
		os.Exit(0)
	}

	var cfg *config.Config
	var err error

	if *envOnly {
		cfg, err = config.LoadFromEnv()
	} else {
		cfg, err = config.Load(*configPath, *configName)
	}

	if err != nil {
		log.Printf("Warning: Failed to load config: %v", err)
		log.Printf("Using development defaults...")
		cfg = config.Development()
	}

	cfg.App.Version = version
	cfg.App.BuildTime = buildTime
	cfg.App.GitCommit = gitCommit

	c := container.New(cfg)

	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()

	if err := c.Initialize(initCtx); err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	runCtx, runCancel := context.WithCancel(context.Background())

	// One durable pull-consumer goroutine per request partition, matching
	// the spec §5 "one goroutine/task per partition" consumer model.
	partitions := cfg.Bus.Partitions
	if partitions <= 0 {
		partitions = 1
	}

	var wg sync.WaitGroup
	errChan := make(chan error, partitions)

	for shard := 0; shard < partitions; shard++ {
		subject := fmt.Sprintf("%s.%d", cfg.Bus.SubjectPrefix, shard)
		durable := fmt.Sprintf("%s-%d", cfg.Bus.WorkerDurable, shard)

		wg.Add(1)
		go func(subject, durable string) {
			defer wg.Done()
			c.Logger().Info("subscribing wallet worker partition", "subject", subject, "durable", durable)
			if err := c.BusConsumer().Subscribe(runCtx, subject, durable, c.Worker().Handle); err != nil && runCtx.Err() == nil {
				errChan <- fmt.Errorf("partition %s: %w", subject, err)
			}
		}(subject, durable)
	}

	printBanner(cfg, partitions)

	select {
	case err := <-errChan:
		c.Logger().Error("worker partition stopped with error", "error", err)
	case sig := <-quit:
		c.Logger().Info("Received shutdown signal", "signal", sig.String())
	}

	c.Logger().Info("Initiating graceful shutdown...")
	runCancel()
	wg.Wait()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := c.Shutdown(shutdownCtx); err != nil {
		c.Logger().Error("Shutdown error", "error", err)
		os.Exit(1)
	}

	c.Logger().Info("Worker stopped gracefully")
}

func printBanner(cfg *config.Config, partitions int) {
	banner := `
╔═══════════════════════════════════════════════════════════════╗
║                                                               ║
║     ██╗    ██╗ █████╗ ██╗     ██╗     ███████╗████████╗       ║
║     ██║    ██║██╔══██╗██║     ██║     ██╔════╝╚══██╔══╝       ║
║     ██║ █╗ ██║███████║██║     ██║     █████╗     ██║          ║
║     ██║███╗██║██╔══██║██║     ██║     ██╔══╝     ██║          ║
║     ╚███╔███╔╝██║  ██║███████╗███████╗███████╗   ██║          ║
║      ╚══╝╚══╝ ╚═╝  ╚═╝╚══════╝╚══════╝╚══════╝   ╚═╝          ║
║                                                               ║
║                   Wallet Worker                                ║
║                                                               ║
╚═══════════════════════════════════════════════════════════════╝
`
	fmt.Println(banner)
	fmt.Printf("  Version:     %s\n", cfg.App.Version)
	fmt.Printf("  Environment: %s\n", cfg.App.Environment)
	fmt.Printf("  Partitions:  %d\n", partitions)
	fmt.Println()
	fmt.Println("  Press Ctrl+C to stop")
	fmt.Println()
}
