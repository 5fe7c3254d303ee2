package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"kestrel/internal/config"
	"kestrel/internal/extract"
	"kestrel/internal/geolite"
	jobruntime "kestrel/internal/jobs/runtime"
	"kestrel/internal/support"
)

const extractLeaderLockKey = "kestrel:leader:extract"

// Run wires the daemon together and blocks until a termination signal.
func Run() error {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found. Falling back to system environment variables.")
	}

	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if *debugFlag {
		log.SetLevel(log.DebugLevel)
	}

	config.ReadSettings()
	cfg := config.GetConfig()

	resolver := openResolver(cfg.GeoLite)
	defer func() {
		if err := resolver.Close(); err != nil {
			log.Warn("Error closing GeoLite database", "error", err)
		}
	}()

	pipeline := extract.NewPipeline(
		extract.NewScanner(),
		extract.NewClassifier(),
		cfg.Extractor.ChunkSizeBytes,
		cfg.Extractor.Workers,
	)
	job := jobruntime.NewExtractionJob(pipeline, resolver)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisURL := support.GetEnv("redisUrl", "")
	if redisURL == "" {
		jobruntime.RunExtractionLoop(ctx, config.GetExtractInterval, job.RunOnce)
		return nil
	}

	// With redis configured, replicas coordinate so only the leader runs
	// the extraction loop; the rest stand by.
	client, err := support.NewRedisClient(redisURL)
	if err != nil {
		return fmt.Errorf("failed to get redis client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			log.Warn("Error closing redis client", "error", err)
		}
	}()

	heartbeatCancel := jobruntime.LaunchInstanceHeartbeat(ctx, client)
	defer heartbeatCancel()

	err = support.RunWithLeader(ctx, client, extractLeaderLockKey, support.DefaultLeadershipTTL, func(leaderCtx context.Context) {
		jobruntime.RunExtractionLoop(leaderCtx, config.GetExtractInterval, job.RunOnce)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func openResolver(cfg config.GeoLiteConfig) *geolite.Resolver {
	if cfg.DatabasePath == "" {
		return nil
	}

	resolver, err := geolite.Open(cfg.DatabasePath)
	if err != nil {
		log.Warn("GeoLite database unavailable, skipping country annotation", "error", err)
		return nil
	}

	log.Debug("GeoLite database loaded", "path", cfg.DatabasePath)
	return resolver
}
