package profile

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/pneumo-sim/road-input/road"
	"github.com/pneumo-sim/road-input/road/iso8608"
)

// Options controls how a profile file is turned into four wheel channels.
type Options struct {
	// Format forces a layout; "" or "auto" detects it.
	Format string
	// ResampleHz is the rate of the uniform output grid. Required.
	ResampleHz float64
	// Velocity and Wheelbase delay the rear wheels of a single-track file by
	// Wheelbase/Velocity, stored as rear(t) = front(t − delay). Either one zero
	// disables the delay. engine.RoadInput loads with Wheelbase 0 and instead
	// reads the rear wheels at t + delay when queried.
	Velocity  float64
	Wheelbase float64
	// Correlation derives the right track of a single-track file.
	Correlation road.CorrelationSpec
	// Rand overrides the generator derived from Correlation.Seed.
	Rand *rand.Rand
	// PreviewLines is passed to format detection.
	PreviewLines int
}

// Profile is a loaded four-wheel road profile on a uniform time grid.
type Profile struct {
	Time     []float64
	Wheels   map[road.Wheel][]float64
	SampleHz float64
	Format   Format
	Warnings []string
}

// columnMap holds column indices; -1 means absent.
type columnMap struct {
	time   int
	height int
	wheels map[road.Wheel]int
}

func (m columnMap) maxIndex() int {
	hi := max(m.time, m.height)
	for _, i := range m.wheels {
		hi = max(hi, i)
	}
	return hi
}

// Load reads a profile file and returns four wheel channels resampled to a
// uniform grid at opts.ResampleHz.
func Load(path string, opts Options) (*Profile, error) {
	if !(opts.ResampleHz > 0) || math.IsInf(opts.ResampleHz, 0) {
		return nil, fmt.Errorf("resample_hz must be a finite positive number, got %v", opts.ResampleHz)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	format, text, err := detect(data, opts.PreviewLines)
	if err != nil {
		return nil, err
	}
	forced, err := ParseFormatType(opts.Format)
	if err != nil {
		return nil, err
	}
	if forced != TypeUnknown {
		format.Type = forced
	}
	warn := warnings(append([]string(nil), format.Warnings...))

	cols, err := mapColumns(format)
	if err != nil {
		return nil, err
	}
	rows, err := readRows(text, format, &warn)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("profile %s has %d numeric rows, need at least 2", path, len(rows))
	}

	p := &Profile{SampleHz: opts.ResampleHz, Format: *format}
	switch format.Type {
	case TypeTimeWheels:
		err = p.fromTimeWheels(rows, cols, opts, &warn)
	case TypeWheelsOnly:
		err = p.fromWheelsOnly(rows, cols, opts, &warn)
	case TypeTimeZ, TypeCustom:
		if format.Type == TypeCustom {
			warn.add("custom layout %v: using column %d as time and column %d as height",
				format.Columns, cols.time+1, cols.height+1)
		}
		err = p.fromTimeZ(rows, cols, opts, &warn)
	default:
		err = fmt.Errorf("cannot determine the layout of %s", path)
	}
	if err != nil {
		return nil, err
	}

	p.postProcess(&warn)
	p.Warnings = warn
	return p, nil
}

// mapColumns resolves the column indices needed by the format type.
func mapColumns(f *Format) (columnMap, error) {
	m := columnMap{time: -1, height: -1, wheels: map[road.Wheel]int{}}
	switch f.Type {
	case TypeTimeWheels:
		if !f.HasHeader {
			m.time = 0
			for i, w := range road.Wheels {
				m.wheels[w] = i + 1
			}
			break
		}
		for i, c := range f.Columns {
			if timeNames[c] && m.time < 0 {
				m.time = i
			}
		}
		if m.time < 0 {
			return m, fmt.Errorf("time_wheels layout needs a time column, header is %v", f.Columns)
		}
		if err := mapWheelColumns(f.Columns, m.wheels); err != nil {
			return m, err
		}
	case TypeWheelsOnly:
		if !f.HasHeader {
			for i, w := range road.Wheels {
				m.wheels[w] = i
			}
			break
		}
		if err := mapWheelColumns(f.Columns, m.wheels); err != nil {
			return m, err
		}
	case TypeTimeZ, TypeCustom:
		m.time, m.height = 0, 1
		for i, c := range f.Columns {
			if timeNames[c] {
				m.time = i
				break
			}
		}
		for i, c := range f.Columns {
			if heightNames[c] && i != m.time {
				m.height = i
				break
			}
		}
		if m.height == m.time {
			m.height = 1 - m.time
		}
	default:
		return m, nil
	}

	need := map[FormatType]int{TypeTimeZ: 2, TypeCustom: 2, TypeTimeWheels: 5, TypeWheelsOnly: 4}[f.Type]
	if f.ColumnCount < need || f.ColumnCount <= m.maxIndex() {
		return m, fmt.Errorf("%s layout needs at least %d columns, file has %d", f.Type, need, f.ColumnCount)
	}
	return m, nil
}

func mapWheelColumns(columns []string, dst map[road.Wheel]int) error {
	for i, c := range columns {
		if code, ok := wheelNames[c]; ok {
			if _, seen := dst[road.Wheel(code)]; !seen {
				dst[road.Wheel(code)] = i
			}
		}
	}
	for _, w := range road.Wheels {
		if _, ok := dst[w]; !ok {
			return fmt.Errorf("missing wheel column %s in header %v", w, columns)
		}
	}
	return nil
}

// readRows parses every data row. Unparseable cells become NaN and are reported;
// rows with fewer than two numeric cells are skipped.
func readRows(text string, f *Format, warn *warnings) ([][]float64, error) {
	r := newReader(strings.NewReader(text), f.Delimiter)
	var rows [][]float64
	line, badCells, skipped := 0, 0, 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}
		line++
		if line == 1 && f.HasHeader {
			continue
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		row := make([]float64, max(len(rec), f.ColumnCount))
		numeric := 0
		for i := range row {
			if i >= len(rec) {
				row[i] = math.NaN()
				continue
			}
			v, ok := parseCell(rec[i], f.Delimiter)
			row[i] = v
			if ok {
				numeric++
				continue
			}
			badCells++
			if badCells <= maxCellWarnings {
				warn.add("row %d column %d: dropping unreadable value %q", line, i+1, rec[i])
			}
		}
		if numeric < 2 {
			skipped++
			continue
		}
		rows = append(rows, row)
	}
	if badCells > maxCellWarnings {
		warn.add("%d more unreadable values dropped", badCells-maxCellWarnings)
	}
	if skipped > 0 {
		warn.add("skipped %d rows with fewer than 2 numeric values", skipped)
	}
	return rows, nil
}

func column(rows [][]float64, idx int) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r[idx]
	}
	return out
}

// timed drops rows without a finite time, warns about non-monotonic time and
// returns sorted, de-duplicated time and value columns.
func timed(rows [][]float64, timeIdx int, valueIdx []int, warn *warnings) ([]float64, [][]float64) {
	var t []float64
	vals := make([][]float64, len(valueIdx))
	dropped := 0
	for _, r := range rows {
		if !isFinite(r[timeIdx]) {
			dropped++
			continue
		}
		t = append(t, r[timeIdx])
		for c, idx := range valueIdx {
			vals[c] = append(vals[c], r[idx])
		}
	}
	if dropped > 0 {
		warn.add("dropped %d rows without a valid time value", dropped)
	}
	if !strictlyIncreasing(t) {
		warn.add("time column is not strictly increasing; samples were sorted and duplicates dropped")
		t, vals = sortedUnique(t, vals)
	}
	return t, vals
}

func (p *Profile) fromTimeWheels(rows [][]float64, cols columnMap, opts Options, warn *warnings) error {
	idx := make([]int, len(road.Wheels))
	for i, w := range road.Wheels {
		idx[i] = cols.wheels[w]
	}
	t, vals := timed(rows, cols.time, idx, warn)
	if len(t) < 2 {
		return fmt.Errorf("profile has %d valid time samples, need at least 2", len(t))
	}
	grid, err := uniformGrid(t[0], t[len(t)-1], opts.ResampleHz)
	if err != nil {
		return err
	}
	p.Time = grid
	p.Wheels = make(map[road.Wheel][]float64, len(road.Wheels))
	for i, w := range road.Wheels {
		repairChannel(string(w)+" (raw)", vals[i], warn)
		if p.Wheels[w], err = resample(t, vals[i], grid); err != nil {
			return err
		}
	}
	return nil
}

func (p *Profile) fromWheelsOnly(rows [][]float64, cols columnMap, opts Options, warn *warnings) error {
	p.Time = make([]float64, len(rows))
	for i := range p.Time {
		p.Time[i] = float64(i) / opts.ResampleHz
	}
	p.Wheels = make(map[road.Wheel][]float64, len(road.Wheels))
	for _, w := range road.Wheels {
		p.Wheels[w] = column(rows, cols.wheels[w])
	}
	return nil
}

func (p *Profile) fromTimeZ(rows [][]float64, cols columnMap, opts Options, warn *warnings) error {
	t, vals := timed(rows, cols.time, []int{cols.height}, warn)
	if len(t) < 2 {
		return fmt.Errorf("profile has %d valid time samples, need at least 2", len(t))
	}
	z := vals[0]
	repairChannel("z (raw)", z, warn)
	grid, err := uniformGrid(t[0], t[len(t)-1], opts.ResampleHz)
	if err != nil {
		return err
	}
	zu, err := resample(t, z, grid)
	if err != nil {
		return err
	}
	p.Time = grid
	p.Wheels, err = ExpandSingleTrack(zu, opts)
	return err
}

// ExpandSingleTrack turns one uniformly sampled track into four wheel channels:
// the left wheels follow z, the right wheels follow a track correlated with z by
// opts.Correlation, and the rear wheels are delayed by Wheelbase/Velocity.
//
// The correlation variants differ from the stochastic generator's: coherence uses
// a phase-randomised surrogate of z itself, and mixing standardises the white
// noise to unit variance before scaling it to z's spread and mean.
func ExpandSingleTrack(z []float64, opts Options) (map[road.Wheel][]float64, error) {
	if err := opts.Correlation.Validate(); err != nil {
		return nil, err
	}
	rng := opts.Rand
	if rng == nil {
		rng = opts.Correlation.Rand(road.StreamCSVExpansion)
	}
	mean, std := stat.PopMeanStdDev(z, nil)

	var noise []float64
	switch opts.Correlation.Method {
	case road.MethodCoherence:
		centred := make([]float64, len(z))
		for i, v := range z {
			centred[i] = v - mean
		}
		noise = iso8608.Surrogate(rng, centred)
		for i := range noise {
			noise[i] += mean
		}
	case road.MethodMixing:
		noise = make([]float64, len(z))
		for i := range noise {
			noise[i] = rng.NormFloat64()
		}
		nMean, nStd := stat.PopMeanStdDev(noise, nil)
		for i := range noise {
			standard := 0.0
			if nStd > 0 {
				standard = (noise[i] - nMean) / nStd
			}
			noise[i] = mean + std*standard
		}
	default:
		return nil, fmt.Errorf("unsupported correlation method %q", opts.Correlation.Method)
	}

	rho, k := opts.Correlation.RhoLR, opts.Correlation.Independent()
	right := make([]float64, len(z))
	for i := range z {
		if rho == 1 {
			right[i] = z[i]
			continue
		}
		right[i] = rho*z[i] + k*noise[i]
	}
	left := append([]float64(nil), z...)

	wheels := map[road.Wheel][]float64{road.LF: left, road.RF: right}
	if opts.Velocity > 0 && opts.Wheelbase > 0 {
		delay := opts.Wheelbase / opts.Velocity
		var err error
		if wheels[road.LR], err = shiftUniform(left, delay, opts.ResampleHz); err != nil {
			return nil, err
		}
		if wheels[road.RR], err = shiftUniform(right, delay, opts.ResampleHz); err != nil {
			return nil, err
		}
	} else {
		wheels[road.LR] = append([]float64(nil), left...)
		wheels[road.RR] = append([]float64(nil), right...)
	}
	return wheels, nil
}

func repairChannel(name string, x []float64, warn *warnings) {
	n, ok := repairNonFinite(x)
	switch {
	case !ok:
		warn.add("channel %s has fewer than 2 finite samples; non-finite values left in place", name)
	case n > 0:
		warn.add("channel %s: interpolated %d non-finite samples", name, n)
	}
}

// postProcess checks monotonic time and repairs non-finite wheel samples.
func (p *Profile) postProcess(warn *warnings) {
	if !strictlyIncreasing(p.Time) {
		warn.add("profile time is not strictly increasing")
	}
	for _, w := range road.Wheels {
		repairChannel(string(w), p.Wheels[w], warn)
	}
}
