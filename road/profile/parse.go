package profile

import (
	"math"
	"strconv"
	"strings"
)

// parseCell parses a numeric cell. When the delimiter is not a comma, a decimal
// comma ("0,25") is accepted. ok=false means the cell is not a number.
// "nan" and "inf" parse successfully as non-finite values.
func parseCell(cell, delim string) (float64, bool) {
	s := strings.TrimSpace(strings.Trim(strings.TrimSpace(cell), `"`))
	if s == "" {
		return math.NaN(), false
	}
	if delim != "," && strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN(), false
	}
	return v, true
}

func isNumeric(cell, delim string) bool {
	_, ok := parseCell(cell, delim)
	return ok
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
