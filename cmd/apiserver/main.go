// Command apiserver runs the LexML contract analysis API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/viper"

	"github.com/smartlex/lexml/internal/application/assessment"
	"github.com/smartlex/lexml/internal/config"
	"github.com/smartlex/lexml/internal/domain/contract"
	"github.com/smartlex/lexml/internal/infrastructure/database/postgres"
	"github.com/smartlex/lexml/internal/infrastructure/database/postgres/repositories"
	"github.com/smartlex/lexml/internal/infrastructure/database/redis"
	"github.com/smartlex/lexml/internal/infrastructure/messaging/kafka"
	"github.com/smartlex/lexml/internal/infrastructure/monitoring/logging"
	prommetrics "github.com/smartlex/lexml/internal/infrastructure/monitoring/prometheus"
	"github.com/smartlex/lexml/internal/infrastructure/storage/minio"
	"github.com/smartlex/lexml/internal/intelligence/clausenet"
	"github.com/smartlex/lexml/internal/intelligence/common"
	httpiface "github.com/smartlex/lexml/internal/interfaces/http"
	"github.com/smartlex/lexml/internal/interfaces/http/handlers"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML configuration file (empty: environment only)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	log, err := logging.NewLogger(logging.LogConfig{
		Level:            cfg.Log.Level,
		Format:           cfg.Log.Format,
		OutputPaths:      cfg.Log.OutputPaths,
		ErrorOutputPaths: cfg.Log.ErrorOutputPaths,
	})
	if err != nil {
		return err
	}
	logging.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := promclient.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := prommetrics.NewMetrics(registry)

	catalog, err := loadCatalog(cfg.Analysis.CatalogPath)
	if err != nil {
		return err
	}
	analyzer, err := contract.NewAnalyzer(catalog)
	if err != nil {
		return err
	}

	// The analysis store is required; everything after it degrades
	// gracefully when absent.
	conn, err := postgres.NewConnection(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := conn.RunMigrations(); err != nil {
		return err
	}
	repo := repositories.NewAnalysisRepo(conn.Pool(), log)

	readiness := map[string]handlers.ReadinessCheck{
		"database": conn.Ping,
	}

	opts := assessment.Options{
		Repository:   repo,
		Metrics:      metrics,
		HistoryLimit: cfg.Analysis.HistoryLimit,
		CacheTTL:     cfg.Analysis.CacheTTL,
	}

	if rc, err := redis.NewClient(ctx, cfg.Redis, log); err != nil {
		log.Warn("redis unavailable, report cache disabled", logging.Err(err))
	} else {
		defer rc.Close()
		opts.Cache = redis.NewCache(rc, cfg.Redis.KeyPrefix, cfg.Redis.DefaultTTL, log)
		readiness["redis"] = rc.Ping
	}

	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(cfg.Kafka, log)
		if err != nil {
			return err
		}
		defer producer.Close()
		opts.Publisher = producer
	}

	if cfg.MinIO.Enabled {
		if archive, err := minio.NewArchive(ctx, cfg.MinIO, log); err != nil {
			log.Warn("object storage unavailable, contract archive disabled", logging.Err(err))
		} else {
			opts.Archiver = archive
		}
	}

	if cfg.Classifier.Enabled {
		serving, err := common.NewServingClient(cfg.Classifier.Backend, cfg.Classifier.Endpoint, log)
		if err != nil {
			return err
		}
		defer serving.Close()

		classifier, err := clausenet.NewServingClassifier(clausenet.Config{
			ModelID:           cfg.Classifier.ModelID,
			MaxSequenceLength: cfg.Classifier.MaxSequenceLength,
			Timeout:           cfg.Classifier.Timeout,
		}, serving, log)
		if err != nil {
			return err
		}
		opts.Classifier = classifier
		readiness["classifier"] = serving.Healthy
	}

	svc := assessment.NewService(analyzer, opts, log)

	router := httpiface.NewRouter(httpiface.RouterDeps{
		Analysis:    handlers.NewAnalysisHandler(svc, log),
		Health:      handlers.NewHealthHandler(readiness),
		Metrics:     metrics,
		Gatherer:    registry,
		CORSOrigins: cfg.Server.CORSOrigins,
		Log:         log,
	})
	server := httpiface.NewServer(cfg.Server, router, log)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Run() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	return server.Shutdown(context.Background())
}

// loadCatalog reads a catalog override file, falling back to the built-in
// catalog when path is empty.
func loadCatalog(path string) (*contract.Catalog, error) {
	if path == "" {
		return contract.DefaultCatalog(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read catalog file %q: %w", path, err)
	}

	var spec contract.CatalogSpec
	if err := v.Unmarshal(&spec); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %q: %w", path, err)
	}
	return contract.NewCatalog(spec)
}
