package profile

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pneumo-sim/road-input/road"
)

// Layout selects the columns written by Save.
type Layout string

const (
	// LayoutTimeWheels writes time,LF,RF,LR,RR.
	LayoutTimeWheels Layout = "time_wheels"
	// LayoutTimeZ writes time,z using the LF channel.
	LayoutTimeZ Layout = "time_z"
)

// saveDecimals is the fixed number of decimals written for every value.
const saveDecimals = 6

// Save writes a profile as CSV with fixed 6-decimal formatting, creating parent
// directories as needed.
func Save(path string, t []float64, wheels map[road.Wheel][]float64, layout Layout) error {
	var header []string
	var channels [][]float64
	switch layout {
	case LayoutTimeWheels, "":
		header = []string{"time", "LF", "RF", "LR", "RR"}
		for _, w := range road.Wheels {
			channels = append(channels, wheels[w])
		}
	case LayoutTimeZ:
		header = []string{"time", "z"}
		channels = append(channels, wheels[road.LF])
	default:
		return fmt.Errorf("unsupported layout %q; valid: time_wheels, time_z", layout)
	}
	for i, ch := range channels {
		if len(ch) != len(t) {
			return fmt.Errorf("column %s has %d samples, time has %d", header[i+1], len(ch), len(t))
		}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating profile directory: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating profile file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	row := make([]string, len(header))
	for i, ti := range t {
		row[0] = strconv.FormatFloat(ti, 'f', saveDecimals, 64)
		for c, ch := range channels {
			row[c+1] = strconv.FormatFloat(ch[i], 'f', saveDecimals, 64)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return file.Close()
}
