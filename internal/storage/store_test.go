package storage

import (
	"bytes"
	"context"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/quench/internal/universe"
)

func testParams() universe.Params {
	return universe.Params{
		Size:           8,
		TempInitial:    100.0,
		TempFinal:      0.1,
		CoolingRate:    8.0,
		XiCritical:     8.0,
		NoiseAmplitude: 1.0,
	}
}

func runResult(t *testing.T, steps int) *universe.Result {
	t.Helper()
	u := universe.NewSeeded(testParams(), 42)
	result, err := universe.Run(context.Background(), u, steps)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return result
}

func TestSaveAndLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	result := runResult(t, 50)
	runID, err := st.Save("capture", testParams(), 42, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "capture_") {
		t.Errorf("run id %s should carry the profile prefix", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Profile != "capture" || meta.Seed != 42 || meta.Steps != 50 {
		t.Errorf("metadata mismatch: %+v", meta)
	}
	if meta.Bootstrapped {
		t.Error("50 steps should not bootstrap")
	}
}

func TestLoadHistory(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	result := runResult(t, 30)
	runID, err := st.Save("capture", testParams(), 42, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	h, err := st.LoadHistory(runID)
	if err != nil {
		t.Fatalf("load history failed: %v", err)
	}
	if len(h.Times) != 30 {
		t.Errorf("expected 30 rows, got %d", len(h.Times))
	}
	for i := range h.Times {
		if h.Times[i] != result.Times[i] {
			t.Fatalf("time mismatch at %d", i)
		}
		// history.csv stores 6 decimal places
		if math.Abs(h.Temps[i]-result.Temps[i]) > 1e-6 {
			t.Fatalf("temperature precision loss at %d: %f vs %f", i, h.Temps[i], result.Temps[i])
		}
	}
}

func TestList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected empty store, got %d runs", len(runs))
	}

	result := runResult(t, 10)
	if _, err := st.Save("animate", testParams(), 1, result); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestListMissingDir(t *testing.T) {
	st := New(t.TempDir() + "/nope")
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list on missing dir should not fail: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestExportCSV(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	result := runResult(t, 5)
	runID, err := st.Save("capture", testParams(), 42, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, _ := st.Load(runID)
	h, _ := st.LoadHistory(runID)

	var buf bytes.Buffer
	if err := ExportCSV(&buf, meta, h); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 6 {
		t.Errorf("expected header + 5 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "time,temperature,xi") {
		t.Errorf("unexpected header: %s", lines[0])
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	result := runResult(t, 5)
	runID, err := st.Save("capture", testParams(), 42, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, _ := st.Load(runID)
	h, _ := st.LoadHistory(runID)

	var buf bytes.Buffer
	if err := ExportJSON(&buf, meta, h); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"id"`, `"history"`, `"temperatures"`, `"correlation_lengths"`} {
		if !strings.Contains(out, want) {
			t.Errorf("json missing %s", want)
		}
	}
}
