package export

import (
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/nvandessel/epochtree/internal/matrix"
)

func TestWriteReadMatrix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "Amp1.arrow")
	res := &matrix.Result{
		Data: mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6}),
		Seqs: []int{0, 4},
		Rate: 10000,
	}

	if err := WriteMatrix(path, "Amp1", res); err != nil {
		t.Fatalf("WriteMatrix: %v", err)
	}

	stream, got, err := ReadMatrix(path)
	if err != nil {
		t.Fatalf("ReadMatrix: %v", err)
	}
	if stream != "Amp1" {
		t.Errorf("stream = %q", stream)
	}
	if got.Rate != 10000 {
		t.Errorf("rate = %v", got.Rate)
	}
	if len(got.Seqs) != 2 || got.Seqs[0] != 0 || got.Seqs[1] != 4 {
		t.Errorf("seqs = %v", got.Seqs)
	}
	r, c := got.Data.Dims()
	if r != 2 || c != 3 {
		t.Fatalf("dims = (%d, %d)", r, c)
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if got.Data.At(i, j) != res.Data.At(i, j) {
				t.Errorf("At(%d,%d) = %v, want %v", i, j, got.Data.At(i, j), res.Data.At(i, j))
			}
		}
	}
}

func TestWriteMatrix_NilResult(t *testing.T) {
	if err := WriteMatrix(filepath.Join(t.TempDir(), "x.arrow"), "Amp1", nil); err == nil {
		t.Error("expected error for nil result")
	}
}

func TestReadMatrix_MissingFile(t *testing.T) {
	if _, _, err := ReadMatrix(filepath.Join(t.TempDir(), "nope.arrow")); err == nil {
		t.Error("expected error for missing file")
	}
}
