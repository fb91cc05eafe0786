// Package matrix extracts epoch-aligned 2D trace matrices.
//
// A matrix has one row per contributing epoch, in input order. All rows
// must carry identical sample counts and sample rates; any disagreement
// is a hard ConsistencyViolation — the extractor never pads or truncates
// (silent padding corrupts downstream statistics). Epochs that simply
// lack the requested stream are skipped as lookup misses; when no epoch
// carries the stream the result is empty, not an error.
package matrix

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/nvandessel/epochtree/internal/models"
	"github.com/nvandessel/epochtree/internal/reconstruct"
	"github.com/nvandessel/epochtree/internal/traces"
)

// ErrLengthMismatch marks a consistency violation: traces included in one
// matrix build disagree on sample count.
var ErrLengthMismatch = errors.New("trace length mismatch")

// ErrRateMismatch marks a consistency violation: traces included in one
// matrix build disagree on sample rate.
var ErrRateMismatch = errors.New("sample rate mismatch")

type row struct {
	seq     int
	samples []float64
	rate    float64
}

// Result is an assembled epoch-aligned matrix. Seqs records which epoch
// contributed each row, in row order.
type Result struct {
	Data *mat.Dense
	Seqs []int
	Rate float64
}

// Responses builds the response matrix for stream across epochs, lazily
// loading non-resident traces through loader.
func Responses(ctx context.Context, epochs []*models.Epoch, stream string, loader *traces.Loader) (*Result, error) {
	rows := make([]row, 0, len(epochs))
	for _, e := range epochs {
		samples, rate, found, err := loader.Load(ctx, e, stream)
		if err != nil {
			return nil, fmt.Errorf("response matrix %q: %w", stream, err)
		}
		if !found {
			continue
		}
		rows = append(rows, row{seq: e.Seq, samples: samples, rate: rate})
	}
	return assemble(rows, stream)
}

// Stimuli builds the stimulus matrix for stream across epochs, sourcing
// each row from the reconstruction engine instead of the backing store.
func Stimuli(ctx context.Context, epochs []*models.Epoch, stream string) (*Result, error) {
	rows := make([]row, 0, len(epochs))
	for _, e := range epochs {
		stim, ok := e.Stimulus(stream)
		if !ok {
			continue
		}
		samples, rate, err := reconstruct.Reconstruct(stim)
		if err != nil {
			return nil, fmt.Errorf("stimulus matrix %q (epoch %d): %w", stream, e.Seq, err)
		}
		rows = append(rows, row{seq: e.Seq, samples: samples, rate: rate})
	}
	return assemble(rows, stream)
}

// assemble validates row agreement and packs the matrix. An empty row set
// yields (nil, nil): logically "no such trace".
func assemble(rows []row, stream string) (*Result, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	cols := len(rows[0].samples)
	rate := rows[0].rate
	for _, r := range rows[1:] {
		if len(r.samples) != cols {
			return nil, fmt.Errorf("%w: stream %q has %d samples on epoch %d but %d on epoch %d",
				ErrLengthMismatch, stream, cols, rows[0].seq, len(r.samples), r.seq)
		}
		if r.rate != rate {
			return nil, fmt.Errorf("%w: stream %q sampled at %v Hz on epoch %d but %v Hz on epoch %d",
				ErrRateMismatch, stream, rate, rows[0].seq, r.rate, r.seq)
		}
	}

	res := &Result{
		Data: mat.NewDense(len(rows), cols, nil),
		Seqs: make([]int, len(rows)),
		Rate: rate,
	}
	for i, r := range rows {
		res.Data.SetRow(i, r.samples)
		res.Seqs[i] = r.seq
	}
	return res, nil
}
