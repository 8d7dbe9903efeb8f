package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/dualsim/internal/analysis"
)

func testSeries() *analysis.Series {
	return &analysis.Series{
		X:     []float64{0, 0.5, 1},
		Value: []float64{2, 3.75, 6},
		Deriv: []float64{3, 4, 5},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	meta := RunMetadata{
		Label:    "quadratic",
		Expr:     "x*x + 3*x + 2",
		Variable: "x",
		From:     0,
		To:       1,
		Metrics:  map[string]float64{"max": 6},
	}

	runID, err := st.Save(meta, testSeries())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "quadratic_") {
		t.Errorf("unexpected run id %q", runID)
	}

	loaded, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Expr != meta.Expr {
		t.Errorf("expected expr %q, got %q", meta.Expr, loaded.Expr)
	}
	if loaded.Samples != 3 {
		t.Errorf("expected 3 samples, got %d", loaded.Samples)
	}
	if loaded.Metrics["max"] != 6 {
		t.Errorf("expected max 6, got %f", loaded.Metrics["max"])
	}

	series, err := st.LoadSamples(runID)
	if err != nil {
		t.Fatalf("load samples failed: %v", err)
	}
	want := testSeries()
	for i := range want.X {
		if series.X[i] != want.X[i] || series.Value[i] != want.Value[i] || series.Deriv[i] != want.Deriv[i] {
			t.Errorf("row %d: got (%v,%v,%v)", i, series.X[i], series.Value[i], series.Deriv[i])
		}
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list on empty store failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	for _, label := range []string{"a", "b"} {
		if _, err := st.Save(RunMetadata{Label: label}, testSeries()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}
	if err := os.MkdirAll(filepath.Join(tmpDir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Label != "a" || runs[1].Label != "b" {
		t.Errorf("runs not ordered by time: %s, %s", runs[0].Label, runs[1].Label)
	}
}

func TestStoreSave_NonFinite(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	series := &analysis.Series{
		X:     []float64{-1, 0},
		Value: []float64{-1, math.Inf(1)},
		Deriv: []float64{-1, math.NaN()},
	}
	runID, err := st.Save(RunMetadata{Label: "1/x"}, series)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := st.LoadSamples(runID)
	if err != nil {
		t.Fatalf("load samples failed: %v", err)
	}
	if !math.IsInf(loaded.Value[1], 1) || !math.IsNaN(loaded.Deriv[1]) {
		t.Errorf("non-finite values not preserved: %v %v", loaded.Value[1], loaded.Deriv[1])
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	var got struct {
		Value []*float64 `json:"value"`
		Deriv []*float64 `json:"derivative"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.Value[1] != nil || got.Deriv[1] != nil {
		t.Errorf("expected null for non-finite values, got %s", buf.String())
	}
	if got.Value[0] == nil || *got.Value[0] != -1 {
		t.Errorf("finite value lost: %s", buf.String())
	}
}

func TestStoreExportJSON(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}
	runID, err := st.Save(RunMetadata{Label: "q", Expr: "x"}, testSeries())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var got struct {
		ID    string    `json:"id"`
		Expr  string    `json:"expr"`
		X     []float64 `json:"x"`
		Deriv []float64 `json:"derivative"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.ID != runID || got.Expr != "x" || len(got.X) != 3 || got.Deriv[2] != 5 {
		t.Errorf("unexpected export %+v", got)
	}
}

func TestStoreLoadSamples_Malformed(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	runDir := filepath.Join(tmpDir, "broken")
	if err := os.MkdirAll(runDir, 0755); err != nil {
		t.Fatal(err)
	}
	data := []byte("x,value,derivative\n1,abc,2\n")
	if err := os.WriteFile(filepath.Join(runDir, samplesFile), data, 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := st.LoadSamples("broken"); !errors.Is(err, ErrMalformedSamples) {
		t.Errorf("expected ErrMalformedSamples, got %v", err)
	}
	if _, err := st.Load("missing"); err == nil {
		t.Error("expected error for missing run")
	}
}

func TestSanitize(t *testing.T) {
	tests := map[string]string{
		"quadratic": "quadratic",
		"1/x":       "1_x",
		"":          "run",
		"  ":        "run",
		"a b-c":     "a_b-c",
	}
	for in, want := range tests {
		if got := sanitize(in); got != want {
			t.Errorf("sanitize(%q) = %q, want %q", in, got, want)
		}
	}
}
