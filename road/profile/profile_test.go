package profile

import (
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"gonum.org/v1/gonum/stat"

	"github.com/pneumo-sim/road-input/road"
)

func writeProfile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func seeded(rho float64, method road.CorrelationMethod, seed int64) road.CorrelationSpec {
	c, err := road.NewCorrelationSpec(rho, method, &seed)
	if err != nil {
		panic(err)
	}
	return c
}

func hasWarning(warns []string, fragment string) bool {
	for _, w := range warns {
		if strings.Contains(w, fragment) {
			return true
		}
	}
	return false
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		delim     string
		typ       FormatType
		hasHeader bool
		columns   []string
		count     int
	}{
		{
			name:      "comma with wheel header",
			content:   "time,LF,RF,LR,RR\n0,0.1,0.2,0.3,0.4\n0.001,0.1,0.2,0.3,0.4\n",
			delim:     ",",
			typ:       TypeTimeWheels,
			hasHeader: true,
			columns:   []string{"time", "lf", "rf", "lr", "rr"},
			count:     5,
		},
		{
			name:      "semicolon with units and decimal comma",
			content:   "Time (s);Z [m]\n0;0,01\n0,001;0,02\n",
			delim:     ";",
			typ:       TypeTimeZ,
			hasHeader: true,
			columns:   []string{"time", "z"},
			count:     2,
		},
		{
			name:    "tab without header",
			content: "0.1\t0.2\t0.3\t0.4\n0.1\t0.2\t0.3\t0.4\n",
			delim:   "\t",
			typ:     TypeWheelsOnly,
			count:   4,
		},
		{
			name:    "two numeric columns",
			content: "0,0.01\n0.01,0.02\n",
			delim:   ",",
			typ:     TypeTimeZ,
			count:   2,
		},
		{
			name:    "five numeric columns",
			content: "0;1;2;3;4\n1;1;2;3;4\n",
			delim:   ";",
			typ:     TypeTimeWheels,
			count:   5,
		},
		{
			name:      "alternate wheel names",
			content:   "t,FL,FR,RL,RR\n0,1,2,3,4\n",
			delim:     ",",
			typ:       TypeTimeWheels,
			hasHeader: true,
			columns:   []string{"t", "fl", "fr", "rl", "rr"},
			count:     5,
		},
		{
			name:      "unrecognised header",
			content:   "x,a,b\n0,1,2\n",
			delim:     ",",
			typ:       TypeCustom,
			hasHeader: true,
			columns:   []string{"x", "a", "b"},
			count:     3,
		},
		{
			name:      "byte order mark",
			content:   "\xef\xbb\xbftime,z\n0,1\n",
			delim:     ",",
			typ:       TypeTimeZ,
			hasHeader: true,
			columns:   []string{"time", "z"},
			count:     2,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := DetectFormat(writeProfile(t, "p.csv", tc.content), 0)
			require.NoError(t, err)
			assert.Equal(t, EncodingUTF8, f.Encoding)
			assert.Equal(t, tc.delim, f.Delimiter)
			assert.Equal(t, tc.typ, f.Type)
			assert.Equal(t, tc.hasHeader, f.HasHeader)
			assert.Equal(t, tc.columns, f.Columns)
			assert.Equal(t, tc.count, f.ColumnCount)
		})
	}
}

func TestDetectFormat_Cp1251Header(t *testing.T) {
	header, err := charmap.Windows1251.NewEncoder().String("time;LF;RF;LR;RR;примечание\n")
	require.NoError(t, err)
	path := writeProfile(t, "cp1251.csv", header+"0;1;2;3;4;5\n1;1;2;3;4;5\n")

	f, err := DetectFormat(path, 0)
	require.NoError(t, err)
	assert.Equal(t, EncodingCP1251, f.Encoding)
	assert.Equal(t, TypeTimeWheels, f.Type)
	assert.Equal(t, "примечание", f.Columns[5])
}

func TestDetectFormat_Latin1Fallback(t *testing.T) {
	// 0x98 is unassigned in cp1251, so only latin1 decodes it.
	path := writeProfile(t, "latin1.csv", "time;h\xf6he\x98\n0;1\n1;2\n")

	f, err := DetectFormat(path, 0)
	require.NoError(t, err)
	assert.Equal(t, EncodingLatin1, f.Encoding)
	assert.Equal(t, ";", f.Delimiter)
}

func TestDetectFormat_RFC4180Warnings(t *testing.T) {
	f, err := DetectFormat(writeProfile(t, "mixed.csv", "time,z\r\n0,1\n0.1,2\n"), 0)
	require.NoError(t, err)
	assert.True(t, hasWarning(f.Warnings, "mixed line endings"), f.Warnings)

	f, err = DetectFormat(writeProfile(t, "quote.csv", "time,\"z\n0,1\n"), 0)
	require.NoError(t, err)
	assert.True(t, hasWarning(f.Warnings, "unbalanced quote"), f.Warnings)
}

func TestDetectFormat_MissingFile(t *testing.T) {
	_, err := DetectFormat(filepath.Join(t.TempDir(), "absent.csv"), 0)
	assert.Error(t, err)
}

func TestParseFormatType(t *testing.T) {
	for in, want := range map[string]FormatType{
		"":            TypeUnknown,
		"auto":        TypeUnknown,
		"TIME_Z":      TypeTimeZ,
		"time_wheels": TypeTimeWheels,
		"wheels_only": TypeWheelsOnly,
		"custom":      TypeCustom,
	} {
		got, err := ParseFormatType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormatType("xlsx")
	assert.Error(t, err)
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		cell  string
		delim string
		want  float64
		ok    bool
	}{
		{"1.5", ",", 1.5, true},
		{" 2 ", ",", 2, true},
		{`"3.25"`, ",", 3.25, true},
		{"0,25", ";", 0.25, true},
		{"0,25", "\t", 0.25, true},
		{"0,25", ",", 0, false},
		{"-1e-3", ";", -0.001, true},
		{"abc", ",", 0, false},
		{"", ",", 0, false},
	}
	for _, tc := range tests {
		got, ok := parseCell(tc.cell, tc.delim)
		assert.Equal(t, tc.ok, ok, "cell %q", tc.cell)
		if tc.ok {
			assert.InDelta(t, tc.want, got, 1e-12, "cell %q", tc.cell)
		} else {
			assert.True(t, math.IsNaN(got), "cell %q", tc.cell)
		}
	}

	v, ok := parseCell("nan", ",")
	assert.True(t, ok)
	assert.True(t, math.IsNaN(v))
	v, ok = parseCell("-inf", ",")
	assert.True(t, ok)
	assert.True(t, math.IsInf(v, -1))
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	n := 201
	tm := make([]float64, n)
	wheels := map[road.Wheel][]float64{}
	for i := range tm {
		tm[i] = float64(i) / 1000
	}
	for k, w := range road.Wheels {
		ch := make([]float64, n)
		for i := range ch {
			ch[i] = 0.01 * math.Sin(2*math.Pi*(float64(k)+1)*tm[i])
		}
		wheels[w] = ch
	}
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.csv")
	require.NoError(t, Save(path, tm, wheels, LayoutTimeWheels))

	p, err := Load(path, Options{ResampleHz: 1000})
	require.NoError(t, err)
	assert.Equal(t, TypeTimeWheels, p.Format.Type)
	require.Len(t, p.Time, n)
	for i := range tm {
		assert.InDelta(t, tm[i], p.Time[i], 1e-9)
	}
	for _, w := range road.Wheels {
		require.Len(t, p.Wheels[w], n, w)
		for i := range tm {
			assert.InDelta(t, wheels[w][i], p.Wheels[w][i], 1e-6, "%s[%d]", w, i)
		}
	}
	assert.Empty(t, p.Warnings)
}

func TestSave_TimeZLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "z.csv")
	wheels := map[road.Wheel][]float64{road.LF: {0.5, -0.25}, road.RF: {9, 9}}
	require.NoError(t, Save(path, []float64{0, 0.1}, wheels, LayoutTimeZ))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "time,z\n0.000000,0.500000\n0.100000,-0.250000\n", string(data))
}

func TestSave_Errors(t *testing.T) {
	dir := t.TempDir()
	wheels := map[road.Wheel][]float64{road.LF: {0}, road.RF: {0}, road.LR: {0}, road.RR: {0}}
	assert.Error(t, Save(filepath.Join(dir, "a.csv"), []float64{0}, wheels, Layout("xml")))
	assert.Error(t, Save(filepath.Join(dir, "b.csv"), []float64{0, 1}, wheels, LayoutTimeWheels))
}

func TestLoad_ResamplesToUniformGrid(t *testing.T) {
	var b strings.Builder
	b.WriteString("time,LF,RF,LR,RR\n")
	for i := 0; i <= 100; i++ {
		ti := float64(i) / 100
		b.WriteString(strings.Join([]string{fmtF(ti), fmtF(ti), fmtF(2 * ti), fmtF(-ti), "0"}, ","))
		b.WriteString("\n")
	}
	p, err := Load(writeProfile(t, "lin.csv", b.String()), Options{ResampleHz: 1000})
	require.NoError(t, err)
	require.Len(t, p.Time, 1001)
	assert.Equal(t, 1000.0, p.SampleHz)
	for i, ti := range p.Time {
		assert.InDelta(t, ti, p.Wheels[road.LF][i], 1e-9)
		assert.InDelta(t, 2*ti, p.Wheels[road.RF][i], 1e-9)
		assert.InDelta(t, -ti, p.Wheels[road.LR][i], 1e-9)
	}
}

func fmtF(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func TestLoad_DecimalCommaSemicolon(t *testing.T) {
	content := "time;LF;RF;LR;RR\n0;0,1;0,2;0,3;0,4\n0,5;0,5;0,6;0,7;0,8\n"
	p, err := Load(writeProfile(t, "eu.csv", content), Options{ResampleHz: 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5}, p.Time)
	assert.InDeltaSlice(t, []float64{0.1, 0.5}, p.Wheels[road.LF], 1e-12)
	assert.InDeltaSlice(t, []float64{0.4, 0.8}, p.Wheels[road.RR], 1e-12)
}

func TestLoad_WheelsOnlySynthesisesTime(t *testing.T) {
	content := "1\t2\t3\t4\n5\t6\t7\t8\n9\t10\t11\t12\n"
	p, err := Load(writeProfile(t, "w.tsv", content), Options{ResampleHz: 100})
	require.NoError(t, err)
	assert.Equal(t, TypeWheelsOnly, p.Format.Type)
	assert.InDeltaSlice(t, []float64{0, 0.01, 0.02}, p.Time, 1e-12)
	assert.Equal(t, []float64{1, 5, 9}, p.Wheels[road.LF])
	assert.Equal(t, []float64{4, 8, 12}, p.Wheels[road.RR])
}

func TestLoad_ColumnErrors(t *testing.T) {
	t.Run("missing wheel column", func(t *testing.T) {
		path := writeProfile(t, "p.csv", "time,LF,RF,LR\n0,1,2,3\n1,1,2,3\n")
		_, err := Load(path, Options{ResampleHz: 10, Format: "time_wheels"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing wheel column RR")
	})
	t.Run("insufficient columns", func(t *testing.T) {
		path := writeProfile(t, "p.csv", "1,2,3\n4,5,6\n")
		_, err := Load(path, Options{ResampleHz: 10, Format: "wheels_only"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "needs at least 4 columns")
	})
	t.Run("single row", func(t *testing.T) {
		_, err := Load(writeProfile(t, "p.csv", "time,z\n0,1\n"), Options{ResampleHz: 10})
		assert.Error(t, err)
	})
	t.Run("bad resample rate", func(t *testing.T) {
		_, err := Load(writeProfile(t, "p.csv", "time,z\n0,1\n1,2\n"), Options{ResampleHz: 0})
		assert.Error(t, err)
	})
	t.Run("unknown forced format", func(t *testing.T) {
		_, err := Load(writeProfile(t, "p.csv", "time,z\n0,1\n1,2\n"), Options{ResampleHz: 10, Format: "json"})
		assert.Error(t, err)
	})
}

func TestLoad_RepairsNonFiniteValues(t *testing.T) {
	content := "time,LF,RF,LR,RR\n" +
		"0,0,0,0,0\n" +
		"1,1,10,0,0\n" +
		"2,nan,abc,0,0\n" +
		"3,3,30,0,0\n" +
		"4,4,40,0,0\n"
	p, err := Load(writeProfile(t, "gaps.csv", content), Options{ResampleHz: 1})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 1, 2, 3, 4}, p.Wheels[road.LF], 1e-12)
	assert.InDeltaSlice(t, []float64{0, 10, 20, 30, 40}, p.Wheels[road.RF], 1e-12)
	assert.True(t, hasWarning(p.Warnings, "unreadable value \"abc\""), p.Warnings)
	assert.True(t, hasWarning(p.Warnings, "interpolated 1 non-finite"), p.Warnings)
}

func TestLoad_SortsNonMonotonicTime(t *testing.T) {
	content := "time,LF,RF,LR,RR\n0,0,0,0,0\n2,2,0,0,0\n1,1,0,0,0\n2,7,0,0,0\n3,3,0,0,0\n"
	p, err := Load(writeProfile(t, "jumbled.csv", content), Options{ResampleHz: 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2, 3}, p.Time)
	assert.InDeltaSlice(t, []float64{0, 1, 2, 3}, p.Wheels[road.LF], 1e-12)
	assert.True(t, hasWarning(p.Warnings, "not strictly increasing"), p.Warnings)
}

func sineTrack(n int, hz float64) string {
	var b strings.Builder
	b.WriteString("time,z\n")
	for i := 0; i < n; i++ {
		ti := float64(i) / hz
		b.WriteString(fmtF(ti) + "," + fmtF(0.02*math.Sin(2*math.Pi*ti)) + "\n")
	}
	return b.String()
}

func TestLoad_TimeZExpandsWithRearDelay(t *testing.T) {
	path := writeProfile(t, "z.csv", sineTrack(401, 100))
	p, err := Load(path, Options{
		ResampleHz:  100,
		Velocity:    10,
		Wheelbase:   2,
		Correlation: seeded(1, road.MethodCoherence, 3),
	})
	require.NoError(t, err)
	assert.Equal(t, TypeTimeZ, p.Format.Type)
	require.Len(t, p.Time, 401)
	assert.Equal(t, p.Wheels[road.LF], p.Wheels[road.RF])

	// 2 m / 10 m/s at 100 Hz is a 20 sample delay.
	lf, lr := p.Wheels[road.LF], p.Wheels[road.LR]
	for i := 0; i < 20; i++ {
		assert.InDelta(t, lf[0], lr[i], 1e-12)
	}
	for i := 20; i < len(lf); i++ {
		assert.InDelta(t, lf[i-20], lr[i], 1e-9, "LR[%d]", i)
	}
	assert.Equal(t, p.Wheels[road.LR], p.Wheels[road.RR])
}

func TestLoad_TimeZWithoutDelay(t *testing.T) {
	p, err := Load(writeProfile(t, "z.csv", sineTrack(101, 100)), Options{
		ResampleHz:  100,
		Correlation: seeded(1, road.MethodMixing, 3),
	})
	require.NoError(t, err)
	assert.Equal(t, p.Wheels[road.LF], p.Wheels[road.LR])
}

func TestExpandSingleTrack_Uncorrelated(t *testing.T) {
	z := make([]float64, 2048)
	for i := range z {
		z[i] = 0.05 + 0.01*math.Sin(2*math.Pi*float64(i)/97) + 0.003*math.Cos(2*math.Pi*float64(i)/13)
	}
	for _, method := range []road.CorrelationMethod{road.MethodCoherence, road.MethodMixing} {
		t.Run(string(method), func(t *testing.T) {
			w, err := ExpandSingleTrack(z, Options{ResampleHz: 100, Correlation: seeded(0, method, 11)})
			require.NoError(t, err)
			lMean, lStd := stat.PopMeanStdDev(w[road.LF], nil)
			rMean, rStd := stat.PopMeanStdDev(w[road.RF], nil)
			assert.InDelta(t, lMean, rMean, 1e-9)
			assert.InDelta(t, lStd, rStd, 1e-9)
			assert.NotEqual(t, w[road.LF], w[road.RF])
		})
	}
}

func TestExpandSingleTrack_SeedReproducible(t *testing.T) {
	z := make([]float64, 500)
	for i := range z {
		z[i] = math.Sin(float64(i) / 7)
	}
	opts := Options{ResampleHz: 100, Correlation: seeded(0.5, road.MethodCoherence, 99)}
	a, err := ExpandSingleTrack(z, opts)
	require.NoError(t, err)
	b, err := ExpandSingleTrack(z, opts)
	require.NoError(t, err)
	assert.Equal(t, a[road.RF], b[road.RF])

	_, err = ExpandSingleTrack(z, Options{ResampleHz: 100, Correlation: road.CorrelationSpec{RhoLR: 2, Method: road.MethodMixing}})
	assert.Error(t, err)
}

func TestRepairNonFinite(t *testing.T) {
	x := []float64{math.NaN(), 1, math.Inf(1), 3, math.NaN()}
	n, ok := repairNonFinite(x)
	assert.True(t, ok)
	assert.Equal(t, 3, n)
	assert.Equal(t, []float64{1, 1, 2, 3, 3}, x)

	y := []float64{math.NaN(), 1}
	n, ok = repairNonFinite(y)
	assert.False(t, ok)
	assert.Zero(t, n)
}

func TestShiftUniform(t *testing.T) {
	y := []float64{0, 10, 20, 30}
	tests := []struct {
		name  string
		y     []float64
		delay float64
		want  []float64
	}{
		{"fractional", y, 0.05, []float64{0, 5, 15, 25}},
		{"whole samples", y, 0.2, []float64{0, 0, 0, 10}},
		{"longer than the track", y, 10, []float64{0, 0, 0, 0}},
		{"zero delay", y, 0, y},
		{"single sample", []float64{4}, 0.1, []float64{4}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := shiftUniform(tc.y, tc.delay, 10)
			require.NoError(t, err)
			assert.InDeltaSlice(t, tc.want, got, 1e-12)
		})
	}
}
