package traces

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nvandessel/epochtree/internal/logging"
	"github.com/nvandessel/epochtree/internal/models"
)

// Loader resolves a named response stream on an epoch to its sample
// vector, fetching from the backing store on demand when the data is not
// resident.
//
// Each Load performs at most one fetch; repeated requests for the same
// (epoch, stream) pair repeat the I/O. Caching, if wanted, is the
// caller's responsibility at a higher layer.
type Loader struct {
	store  Store
	logger *slog.Logger
	fetch  *logging.FetchLogger
}

// NewLoader creates a loader over store. logger may be nil for silent
// operation; fetch may be nil to disable JSONL fetch tracing.
func NewLoader(store Store, logger *slog.Logger, fetch *logging.FetchLogger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{store: store, logger: logger, fetch: fetch}
}

// Load resolves the named response stream on epoch.
//
// Returns found=false with a nil error when the epoch has no stream with
// that name, or when the stream's locator is absent from the backing
// store — both are lookup misses. A response with neither inline data
// nor a locator, and store I/O failures, are errors.
func (l *Loader) Load(ctx context.Context, epoch *models.Epoch, stream string) ([]float64, float64, bool, error) {
	resp, ok := epoch.Response(stream)
	if !ok {
		return nil, 0, false, nil
	}
	if resp.Loaded() {
		return resp.Samples, resp.SampleRate, true, nil
	}
	if resp.Locator == "" {
		return nil, 0, false, fmt.Errorf("response %q on epoch %d has neither data nor a locator", stream, epoch.Seq)
	}

	samples, rate, found, err := l.store.Get(ctx, resp.Locator)
	if err != nil {
		return nil, 0, false, fmt.Errorf("failed to fetch %q: %w", resp.Locator, err)
	}
	l.fetch.Log(map[string]any{
		"event":   "fetch",
		"epoch":   epoch.Seq,
		"stream":  stream,
		"locator": resp.Locator,
		"found":   found,
	})
	if !found {
		l.logger.Debug("trace not found in backing store",
			"locator", resp.Locator, "epoch", epoch.Seq, "stream", stream)
		return nil, 0, false, nil
	}
	if rate == 0 {
		rate = resp.SampleRate
	}
	l.logger.Debug("fetched trace",
		"locator", resp.Locator, "epoch", epoch.Seq, "stream", stream, "samples", len(samples))
	return samples, rate, true, nil
}
