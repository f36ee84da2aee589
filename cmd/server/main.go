package main

import (
	"context"
	"flag"
	"fmt"
	stdlog "log"
	"os"

	appconfig "github.com/vistatrade/firesync/internal/config"
	"github.com/vistatrade/firesync/internal/database"
	"github.com/vistatrade/firesync/internal/server"
	"github.com/vistatrade/firesync/pkg/config"
	"github.com/vistatrade/firesync/pkg/connectors/firestore"
	"github.com/vistatrade/firesync/pkg/logger"
	"github.com/vistatrade/firesync/pkg/storage/cache"
	"github.com/vistatrade/firesync/pkg/sync"
	"github.com/vistatrade/firesync/pkg/tracing"
)

const version = "1.0.0"

func main() {
	var (
		configFile     = flag.String("config", "", "Path to configuration file")
		generateConfig = flag.String("generate-config", "", "Generate example configuration file at specified path")
		showVersion    = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("firesync v%s\n", version)
		os.Exit(0)
	}

	if *generateConfig != "" {
		loader := config.NewLoader("FIRESYNC")
		if err := loader.WriteExample(*generateConfig, appconfig.Default()); err != nil {
			stdlog.Fatalf("Failed to generate config file: %v", err)
		}
		fmt.Printf("Example configuration file generated at: %s\n", *generateConfig)
		os.Exit(0)
	}

	cfg, err := appconfig.Load(*configFile)
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(&logger.Config{
		Level:   logger.ParseLogLevel(cfg.Logging.Level),
		Format:  logger.ParseLogFormat(cfg.Logging.Format),
		Service: "firesync",
	})

	ctx := context.Background()

	traces, err := tracing.New(ctx, &cfg.Tracing)
	if err != nil {
		log.WithError(err).Error("failed to initialize tracing")
		os.Exit(1)
	}
	defer traces.Shutdown(ctx)

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		log.WithError(err).Error("failed to connect to database")
		os.Exit(1)
	}
	defer db.Close()

	store := cache.NewMemoryCache(nil)
	defer store.Close()

	client := firestore.NewClient(ctx, &cfg.Firestore, store, log)
	defer client.Close()

	synchronizer := sync.NewSynchronizer(db.DB(), log)
	orchestrator := sync.NewOrchestrator(client, synchronizer, log)

	scheduler := sync.NewScheduler(&cfg.Scheduler, orchestrator, log)
	if err := scheduler.Start(); err != nil {
		log.WithError(err).Error("failed to start sync scheduler")
		os.Exit(1)
	}
	defer scheduler.Stop()

	srv := server.New(&cfg.Server, db, client, orchestrator, log)
	if err := srv.Start(ctx); err != nil {
		log.WithError(err).Error("server exited with error")
		os.Exit(1)
	}
}
