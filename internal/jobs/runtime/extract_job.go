package runtime

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"kestrel/internal/config"
	"kestrel/internal/domain"
	"kestrel/internal/extract"
	"kestrel/internal/geolite"
	"kestrel/internal/store"
)

// ExtractionJob ties the pipeline to the document store for one scheduled
// run at a time.
type ExtractionJob struct {
	pipeline *extract.Pipeline
	resolver *geolite.Resolver
}

func NewExtractionJob(pipeline *extract.Pipeline, resolver *geolite.Resolver) *ExtractionJob {
	return &ExtractionJob{pipeline: pipeline, resolver: resolver}
}

// RunOnce performs a single extraction cycle: connect to the store, scan the
// log file, and replace both collections with the new result.
//
// A store connection failure aborts the run before any write. An extraction
// failure is logged and the empty result is still persisted, fully replacing
// the previous run's data; that mirrors the replace-every-run contract.
func (j *ExtractionJob) RunOnce(ctx context.Context) error {
	cfg := config.GetConfig()

	log.Info("Starting extraction run", "file", cfg.Extractor.LogPath)
	start := time.Now()

	st, err := store.Connect(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			log.Warn("Error closing document store", "error", err)
		}
	}()

	result, err := j.pipeline.Extract(ctx, cfg.Extractor.LogPath)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		log.Error("Extraction failed", "file", cfg.Extractor.LogPath, "error", err)
	}

	private := buildRecords(result.Private, nil)
	public := buildRecords(result.Public, j.resolver)

	if err := st.ReplaceAll(ctx, private, public); err != nil {
		return err
	}

	log.Info("Extraction run completed",
		"private", len(result.Private),
		"public", len(result.Public),
		"duration", time.Since(start),
	)
	return nil
}

// RunExtractionLoop invokes runOnce forever, sleeping the configured
// interval after each run ends, success or failure. Failures are logged and
// the loop carries on; only context cancellation stops it.
func RunExtractionLoop(ctx context.Context, interval func() time.Duration, runOnce func(context.Context) error) {
	for {
		if err := runOnce(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				log.Info("Extraction run canceled")
				return
			}
			log.Error("Extraction run failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(interval()):
		}
	}
}

// buildRecords maps sorted address strings to store documents. The resolver
// only makes sense for public addresses; pass nil to skip annotation.
func buildRecords(ips []string, resolver *geolite.Resolver) []domain.AddressRecord {
	records := make([]domain.AddressRecord, 0, len(ips))
	for _, ip := range ips {
		records = append(records, domain.AddressRecord{
			IP:      ip,
			Country: resolver.CountryCode(ip),
		})
	}
	return records
}
