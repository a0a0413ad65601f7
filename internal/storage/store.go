package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/quench/internal/universe"
)

// Store persists headless runs: one directory per run holding metadata.json
// and history.csv with the scalar trace.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID            string    `json:"id"`
	Profile       string    `json:"profile"`
	Timestamp     time.Time `json:"timestamp"`
	Seed          int64     `json:"seed"`
	Size          int       `json:"size"`
	TempInitial   float64   `json:"temp_initial"`
	TempFinal     float64   `json:"temp_final"`
	CoolingRate   float64   `json:"cooling_rate"`
	XiCritical    float64   `json:"xi_critical"`
	Steps         int       `json:"steps"`
	Bootstrapped  bool      `json:"bootstrapped"`
	BootstrapStep int       `json:"bootstrap_step"`
	FinalTemp     float64   `json:"final_temp"`
	FinalXi       float64   `json:"final_xi"`
}

// History is the per-step scalar trace loaded back from history.csv.
type History struct {
	Times     []int
	Temps     []float64
	Xis       []float64
	Means     []float64
	Variances []float64
}

func (s *Store) Save(profile string, p universe.Params, seed int64, result *universe.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", profile, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:            runID,
		Profile:       profile,
		Timestamp:     time.Now(),
		Seed:          seed,
		Size:          p.Size,
		TempInitial:   p.TempInitial,
		TempFinal:     p.TempFinal,
		CoolingRate:   p.CoolingRate,
		XiCritical:    p.XiCritical,
		Steps:         len(result.Times),
		Bootstrapped:  result.Bootstrapped,
		BootstrapStep: result.BootstrapStep,
		FinalTemp:     result.Final.Temperature,
		FinalXi:       result.Final.Xi,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "history.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"time", "temperature", "xi", "bootstrapped", "mean", "variance"}); err != nil {
		return "", err
	}

	for i := range result.Times {
		bootstrapped := "0"
		if result.Bootstrapped && result.BootstrapStep >= 0 && result.Times[i] >= result.BootstrapStep {
			bootstrapped = "1"
		}
		row := []string{
			strconv.Itoa(result.Times[i]),
			strconv.FormatFloat(result.Temps[i], 'f', 6, 64),
			strconv.FormatFloat(result.Xis[i], 'f', 6, 64),
			bootstrapped,
			strconv.FormatFloat(result.Means[i], 'f', 6, 64),
			strconv.FormatFloat(result.Variances[i], 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadHistory(runID string) (*History, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "history.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	h := &History{}
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 6 {
			continue
		}
		t, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		temp, err1 := strconv.ParseFloat(record[1], 64)
		xi, err2 := strconv.ParseFloat(record[2], 64)
		mean, err3 := strconv.ParseFloat(record[4], 64)
		variance, err4 := strconv.ParseFloat(record[5], 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}
		h.Times = append(h.Times, t)
		h.Temps = append(h.Temps, temp)
		h.Xis = append(h.Xis, xi)
		h.Means = append(h.Means, mean)
		h.Variances = append(h.Variances, variance)
	}

	return h, nil
}
