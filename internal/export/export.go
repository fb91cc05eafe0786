// Package export writes epoch-aligned matrices to Arrow IPC files so
// downstream analysis environments can read them without re-extracting.
//
// Each file holds one record batch with one row per epoch: the epoch's
// canonical sequence number and its sample vector. The stream name and
// sample rate travel in the schema metadata.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"gonum.org/v1/gonum/mat"

	"github.com/nvandessel/epochtree/internal/matrix"
)

const (
	metaStream     = "epochtree:stream"
	metaSampleRate = "epochtree:sample_rate"
)

// WriteMatrix writes res to an Arrow IPC file at path, creating parent
// directories as needed.
func WriteMatrix(path, stream string, res *matrix.Result) error {
	if res == nil || res.Data == nil {
		return fmt.Errorf("no matrix to export for stream %q", stream)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	pool := memory.NewGoAllocator()
	md := arrow.NewMetadata(
		[]string{metaStream, metaSampleRate},
		[]string{stream, strconv.FormatFloat(res.Rate, 'g', -1, 64)},
	)
	schema := arrow.NewSchema(
		[]arrow.Field{
			{Name: "epoch", Type: arrow.PrimitiveTypes.Int32},
			{Name: "samples", Type: arrow.ListOf(arrow.PrimitiveTypes.Float64)},
		},
		&md,
	)

	b := array.NewRecordBuilder(pool, schema)
	defer b.Release()

	seqB := b.Field(0).(*array.Int32Builder)
	listB := b.Field(1).(*array.ListBuilder)
	valB := listB.ValueBuilder().(*array.Float64Builder)

	rows, _ := res.Data.Dims()
	for i := 0; i < rows; i++ {
		seqB.Append(int32(res.Seqs[i]))
		listB.Append(true)
		valB.AppendValues(res.Data.RawRowView(i), nil)
	}

	rec := b.NewRecord()
	defer rec.Release()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	w, err := ipc.NewFileWriter(f, ipc.WithSchema(schema), ipc.WithAllocator(pool))
	if err != nil {
		return fmt.Errorf("failed to open arrow writer: %w", err)
	}
	if err := w.Write(rec); err != nil {
		w.Close()
		return fmt.Errorf("failed to write record batch: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize arrow file: %w", err)
	}
	return nil
}

// ReadMatrix reads a matrix file written by WriteMatrix. It returns the
// stream name recorded in the file alongside the reassembled result.
func ReadMatrix(path string) (string, *matrix.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open export file: %w", err)
	}
	defer f.Close()

	r, err := ipc.NewFileReader(f, ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return "", nil, fmt.Errorf("failed to open arrow reader: %w", err)
	}
	defer r.Close()

	md := r.Schema().Metadata()
	stream := metadataValue(md, metaStream)
	rate := 0.0
	if s := metadataValue(md, metaSampleRate); s != "" {
		rate, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return "", nil, fmt.Errorf("malformed sample rate metadata %q: %w", s, err)
		}
	}

	res := &matrix.Result{Rate: rate}
	var flat []float64
	cols := -1
	for i := 0; i < r.NumRecords(); i++ {
		rec, err := r.Record(i)
		if err != nil {
			return "", nil, fmt.Errorf("failed to read record batch %d: %w", i, err)
		}
		seqs := rec.Column(0).(*array.Int32)
		lists := rec.Column(1).(*array.List)
		vals := lists.ListValues().(*array.Float64)
		for row := 0; row < int(rec.NumRows()); row++ {
			res.Seqs = append(res.Seqs, int(seqs.Value(row)))
			start, end := lists.ValueOffsets(row)
			n := int(end - start)
			if cols == -1 {
				cols = n
			} else if n != cols {
				return "", nil, fmt.Errorf("ragged matrix file: row %d has %d samples, want %d", row, n, cols)
			}
			for j := start; j < end; j++ {
				flat = append(flat, vals.Value(int(j)))
			}
		}
	}

	if len(res.Seqs) == 0 {
		return stream, nil, nil
	}
	res.Data = mat.NewDense(len(res.Seqs), cols, flat)
	return stream, res, nil
}

func metadataValue(md arrow.Metadata, key string) string {
	if i := md.FindKey(key); i >= 0 {
		return md.Values()[i]
	}
	return ""
}
