package profile

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
	"golang.org/x/text/encoding/charmap"
)

// FormatType is the detected column layout of a profile file.
type FormatType string

const (
	TypeTimeZ      FormatType = "time_z"
	TypeTimeWheels FormatType = "time_wheels"
	TypeWheelsOnly FormatType = "wheels_only"
	TypeCustom     FormatType = "custom"
	TypeUnknown    FormatType = "unknown"
)

// Encodings in the order they are tried.
const (
	EncodingUTF8   = "utf-8"
	EncodingCP1251 = "cp1251"
	EncodingLatin1 = "latin1"
)

// DefaultPreviewLines is the number of lines inspected by DetectFormat.
const DefaultPreviewLines = 20

var candidateDelimiters = []string{"\t", ";", ","}

var (
	timeNames = map[string]bool{
		"time": true, "t": true, "time_s": true, "t_s": true, "sec": true, "seconds": true, "timestamp": true,
	}
	heightNames = map[string]bool{
		"z": true, "zr": true, "height": true, "elevation": true, "profile": true, "y": true, "road": true,
	}
	wheelNames = map[string]string{
		"lf": "LF", "fl": "LF", "rf": "RF", "fr": "RF", "lr": "LR", "rl": "LR", "rr": "RR",
	}
)

// ParseFormatType converts a layout name. "" and "auto" return TypeUnknown, meaning
// "detect from the file".
func ParseFormatType(s string) (FormatType, error) {
	switch t := FormatType(strings.ToLower(strings.TrimSpace(s))); t {
	case "", "auto":
		return TypeUnknown, nil
	case TypeTimeZ, TypeTimeWheels, TypeWheelsOnly, TypeCustom:
		return t, nil
	}
	return "", fmt.Errorf("unsupported csv format %q; valid: auto, time_z, time_wheels, wheels_only, custom", s)
}

// Format describes how a profile file is laid out.
type Format struct {
	Encoding    string     `yaml:"encoding"`
	Delimiter   string     `yaml:"delimiter"`
	Type        FormatType `yaml:"format_type"`
	HasHeader   bool       `yaml:"has_header"`
	Columns     []string   `yaml:"columns,omitempty"` // normalised header names
	ColumnCount int        `yaml:"column_count"`
	Warnings    []string   `yaml:"warnings,omitempty"`
}

// DetectFormat inspects the first previewLines lines of the file at path.
// previewLines <= 0 selects DefaultPreviewLines.
func DetectFormat(path string, previewLines int) (*Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	f, _, err := detect(data, previewLines)
	return f, err
}

// detect returns the format and the decoded file contents.
func detect(data []byte, previewLines int) (*Format, string, error) {
	if previewLines <= 0 {
		previewLines = DefaultPreviewLines
	}
	var warn warnings
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	preview := previewBytes(data, previewLines)
	enc, err := detectEncoding(preview)
	if err != nil {
		return nil, "", err
	}
	text, err := decode(data, enc)
	if err != nil {
		return nil, "", fmt.Errorf("decoding profile as %s: %w", enc, err)
	}

	lines := nonEmptyLines(text, previewLines)
	f := &Format{Encoding: enc, Delimiter: sniffDelimiter(lines), Type: TypeUnknown}
	checkRFC4180(text, lines, &warn)

	if len(lines) > 0 {
		first, err := splitLine(lines[0], f.Delimiter)
		if err != nil {
			return nil, "", fmt.Errorf("reading header: %w", err)
		}
		f.ColumnCount = len(first)
		if lo.EveryBy(first, func(cell string) bool { return isNumeric(cell, f.Delimiter) }) {
			f.Type = classifyHeaderless(len(first))
		} else {
			f.HasHeader = true
			f.Columns = lo.Map(first, func(cell string, _ int) string { return normalizeName(cell) })
			f.Type = classifyHeader(f.Columns)
		}
	}
	f.Warnings = warn
	return f, text, nil
}

func previewBytes(data []byte, lines int) []byte {
	end := 0
	for i := 0; i < lines && end < len(data); i++ {
		next := bytes.IndexByte(data[end:], '\n')
		if next < 0 {
			return data
		}
		end += next + 1
	}
	return data[:end]
}

// detectEncoding tries utf-8, then cp1251, then latin1 (which always succeeds).
func detectEncoding(preview []byte) (string, error) {
	if utf8.Valid(preview) {
		return EncodingUTF8, nil
	}
	if decoded, err := charmap.Windows1251.NewDecoder().Bytes(preview); err == nil &&
		!bytes.ContainsRune(decoded, utf8.RuneError) {
		return EncodingCP1251, nil
	}
	return EncodingLatin1, nil
}

func decode(data []byte, enc string) (string, error) {
	switch enc {
	case EncodingUTF8:
		return string(data), nil
	case EncodingCP1251:
		out, err := charmap.Windows1251.NewDecoder().Bytes(data)
		return string(out), err
	case EncodingLatin1:
		out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		return string(out), err
	}
	return "", fmt.Errorf("unsupported encoding %q", enc)
}

func nonEmptyLines(text string, limit int) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
		if len(out) == limit {
			break
		}
	}
	return out
}

// sniffDelimiter picks the first candidate (tab, semicolon, comma) that occurs the
// same non-zero number of times on every preview line. Without a consistent
// candidate the most frequent one wins; comma is the fallback.
func sniffDelimiter(lines []string) string {
	if len(lines) == 0 {
		return ","
	}
	best, bestCount := ",", 0
	for _, d := range candidateDelimiters {
		counts := lo.Map(lines, func(l string, _ int) int { return strings.Count(l, d) })
		if counts[0] > 0 && lo.EveryBy(counts, func(c int) bool { return c == counts[0] }) {
			return d
		}
		if total := lo.Sum(counts); total > bestCount {
			best, bestCount = d, total
		}
	}
	return best
}

// checkRFC4180 reports unescaped quotes and mixed line endings.
func checkRFC4180(text string, lines []string, warn *warnings) {
	crlf := strings.Count(text, "\r\n")
	lf := strings.Count(text, "\n") - crlf
	if crlf > 0 && lf > 0 {
		warn.add("RFC 4180: mixed line endings (%d CRLF, %d LF)", crlf, lf)
	}
	for i, line := range lines {
		if strings.Count(line, `"`)%2 != 0 {
			warn.add("RFC 4180: line %d has an unbalanced quote", i+1)
			continue
		}
		for _, field := range strings.FieldsFunc(line, func(r rune) bool { return strings.ContainsRune(",;\t", r) }) {
			field = strings.TrimSpace(field)
			if strings.Contains(field, `"`) && !strings.HasPrefix(field, `"`) {
				warn.add("RFC 4180: line %d has an unescaped quote in field %q", i+1, field)
				break
			}
		}
	}
}

func splitLine(line, delim string) ([]string, error) {
	r := newReader(strings.NewReader(line), delim)
	rec, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	return rec, err
}

func newReader(r io.Reader, delim string) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = []rune(delim)[0]
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr
}

// normalizeName lower-cases a header cell and drops a trailing unit such as "(s)" or "[m]".
func normalizeName(cell string) string {
	name := strings.ToLower(strings.TrimSpace(strings.Trim(cell, `"' `)))
	if i := strings.IndexAny(name, " ([{"); i > 0 {
		name = name[:i]
	}
	return name
}

func classifyHeaderless(columns int) FormatType {
	switch {
	case columns == 2:
		return TypeTimeZ
	case columns == 4:
		return TypeWheelsOnly
	case columns == 5:
		return TypeTimeWheels
	case columns > 2:
		return TypeCustom
	}
	return TypeUnknown
}

func classifyHeader(columns []string) FormatType {
	hasTime := lo.SomeBy(columns, func(c string) bool { return timeNames[c] })
	wheels := lo.Uniq(lo.FilterMap(columns, func(c string, _ int) (string, bool) {
		w, ok := wheelNames[c]
		return w, ok
	}))
	hasHeight := lo.SomeBy(columns, func(c string) bool { return heightNames[c] })
	switch {
	case len(wheels) == 4 && hasTime:
		return TypeTimeWheels
	case len(wheels) == 4:
		return TypeWheelsOnly
	case hasTime && (hasHeight || len(columns) == 2):
		return TypeTimeZ
	case len(columns) >= 2:
		return TypeCustom
	}
	return TypeUnknown
}
