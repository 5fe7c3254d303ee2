package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"kestrel/internal/domain"
)

// DefaultChunkSize is the chunk length used when the configuration does not
// override it.
const DefaultChunkSize = 1 << 20

// Pipeline reads a log file in fixed-size chunks and fans them out to a
// bounded worker pool that runs scan + classify per chunk. Per-chunk sets
// are merged with a commutative union, so the result does not depend on
// completion order.
//
// An IPv4 literal that straddles a chunk boundary is lost or truncated.
// Chunks are processed fully independently and no overlap read is performed.
type Pipeline struct {
	scanner    *Scanner
	classifier *Classifier
	chunkSize  int
	workers    int
}

type chunkResult struct {
	private map[string]struct{}
	public  map[string]struct{}
}

// NewPipeline builds a pipeline. A chunkSize <= 0 falls back to
// DefaultChunkSize, workers <= 0 falls back to the number of CPUs.
func NewPipeline(scanner *Scanner, classifier *Classifier, chunkSize, workers int) *Pipeline {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pipeline{
		scanner:    scanner,
		classifier: classifier,
		chunkSize:  chunkSize,
		workers:    workers,
	}
}

// Extract scans the file at path and returns the sorted private and public
// address lists. A missing, non-regular or empty file and any I/O or worker
// failure yield a zeroed result plus an error; there is no partial-result
// fallback. Retrying is the caller's responsibility.
func (p *Pipeline) Extract(ctx context.Context, path string) (domain.ExtractionResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.ExtractionResult{}, fmt.Errorf("stat log file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return domain.ExtractionResult{}, fmt.Errorf("log file %s is not a regular file", path)
	}
	if info.Size() == 0 {
		return domain.ExtractionResult{}, fmt.Errorf("log file %s is empty", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return domain.ExtractionResult{}, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	results := make(chan chunkResult)

	privateSet := make(map[string]struct{})
	publicSet := make(map[string]struct{})
	merged := make(chan struct{})

	go func() {
		defer close(merged)
		for res := range results {
			for ip := range res.private {
				privateSet[ip] = struct{}{}
			}
			for ip := range res.public {
				publicSet[ip] = struct{}{}
			}
		}
	}()

	var readErr error
	for {
		buf := make([]byte, p.chunkSize)
		n, err := io.ReadFull(file, buf)
		if n > 0 {
			chunk := buf[:n]
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				select {
				case results <- p.processChunk(chunk):
					return nil
				case <-gctx.Done():
					return gctx.Err()
				}
			})
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			readErr = fmt.Errorf("read log file: %w", err)
			break
		}
	}

	workErr := g.Wait()
	close(results)
	<-merged

	if readErr != nil {
		return domain.ExtractionResult{}, readErr
	}
	if workErr != nil {
		return domain.ExtractionResult{}, fmt.Errorf("process chunks: %w", workErr)
	}

	return domain.ExtractionResult{
		Private: sortedKeys(privateSet),
		Public:  sortedKeys(publicSet),
	}, nil
}

// processChunk classifies every candidate inside the worker so the
// per-candidate validation cost parallelizes along with the pattern match.
func (p *Pipeline) processChunk(chunk []byte) chunkResult {
	res := chunkResult{
		private: make(map[string]struct{}),
		public:  make(map[string]struct{}),
	}

	for candidate := range p.scanner.Scan(chunk) {
		switch p.classifier.Classify(candidate) {
		case domain.ClassPrivate:
			res.private[candidate] = struct{}{}
		case domain.ClassPublic:
			res.public[candidate] = struct{}{}
		}
	}

	return res
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
