package reconstruct

import (
	"errors"
	"strings"
	"testing"

	"github.com/nvandessel/epochtree/internal/models"
	"github.com/nvandessel/epochtree/internal/stimgen"
)

func TestReconstruct_InlinePassthrough(t *testing.T) {
	inline := []float64{1, 2, 3}
	s := &models.Stimulus{
		Name:       "Amp1",
		Samples:    inline,
		SampleRate: 10000,
		// Generator params present but must be ignored: real data wins.
		Generator: "dc",
		Params:    map[string]interface{}{"offset": 99.0, "stimTime": 1.0, "sampleRate": 10000.0},
	}

	samples, rate, err := Reconstruct(s)
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	if rate != 10000 {
		t.Errorf("rate = %v", rate)
	}
	if len(samples) != 3 || samples[0] != 1 {
		t.Errorf("inline data must pass through unchanged, got %v", samples)
	}
}

func TestReconstruct_Dispatch(t *testing.T) {
	s := &models.Stimulus{
		Name:      "Amp1",
		Generator: stimgen.GenDC,
		Params: map[string]interface{}{
			"stimTime": 2.0, "offset": 7.0, "sampleRate": 1000.0,
		},
	}

	samples, rate, err := Reconstruct(s)
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	if rate != 1000 || len(samples) != 2 || samples[0] != 7 {
		t.Errorf("dispatch result = (%v, %v)", samples, rate)
	}
}

func TestReconstruct_UnknownGenerator(t *testing.T) {
	s := &models.Stimulus{Name: "Amp1", Generator: "warble"}
	_, _, err := Reconstruct(s)
	if !errors.Is(err, stimgen.ErrUnknownGenerator) {
		t.Fatalf("err = %v, want ErrUnknownGenerator", err)
	}
	if !strings.Contains(err.Error(), `"warble"`) {
		t.Errorf("error %q should name the identifier", err)
	}
}

func TestReconstruct_NeitherDataNorGenerator(t *testing.T) {
	s := &models.Stimulus{Name: "Amp1"}
	if _, _, err := Reconstruct(s); err == nil {
		t.Error("expected error for an undescribed stimulus")
	}
}
