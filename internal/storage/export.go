package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
)

type runExport struct {
	RunMetadata
	History struct {
		Times     []int     `json:"times"`
		Temps     []float64 `json:"temperatures"`
		Xis       []float64 `json:"correlation_lengths"`
		Means     []float64 `json:"field_means"`
		Variances []float64 `json:"field_variances"`
	} `json:"history"`
}

// ExportJSON writes a run's metadata and full history as indented JSON.
func ExportJSON(w io.Writer, meta *RunMetadata, h *History) error {
	out := runExport{RunMetadata: *meta}
	out.History.Times = h.Times
	out.History.Temps = h.Temps
	out.History.Xis = h.Xis
	out.History.Means = h.Means
	out.History.Variances = h.Variances

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// ExportCSV writes a run's history in the same column layout as history.csv.
func ExportCSV(w io.Writer, meta *RunMetadata, h *History) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"time", "temperature", "xi", "bootstrapped", "mean", "variance"}); err != nil {
		return err
	}
	for i := range h.Times {
		bootstrapped := "0"
		if meta.Bootstrapped && meta.BootstrapStep >= 0 && h.Times[i] >= meta.BootstrapStep {
			bootstrapped = "1"
		}
		row := []string{
			strconv.Itoa(h.Times[i]),
			strconv.FormatFloat(h.Temps[i], 'f', 6, 64),
			strconv.FormatFloat(h.Xis[i], 'f', 6, 64),
			bootstrapped,
			strconv.FormatFloat(h.Means[i], 'f', 6, 64),
			strconv.FormatFloat(h.Variances[i], 'f', 6, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}
