// Package atf reads Axon Text File (ATF) recordings of the kind produced by
// patch-clamp acquisition software. An ATF file starts with an "ATF" magic
// line and a header-count/column-count line, followed by quoted header
// records (free text or key=value metadata), a line of quoted column titles,
// and whitespace-separated numeric data rows.
package atf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var (
	// ErrBadMagic is returned when the file does not start with "ATF".
	ErrBadMagic = errors.New("atf: missing ATF signature")

	// ErrBadHeader is returned when the header structure is malformed.
	ErrBadHeader = errors.New("atf: malformed header")

	// ErrNoData is returned when the file contains no parsable data rows.
	ErrNoData = errors.New("atf: no data rows")
)

// Recording is one parsed ATF file.
type Recording struct {
	Version string

	// Metadata holds the key=value header records. Headers without an
	// equals sign are collected under Comments.
	Metadata map[string]string
	Comments []string

	Columns []string

	// Data holds one slice per column, all of equal length.
	Data [][]float64

	// SamplingRate in Hz, derived from the SampleInterval metadata entry
	// when present, otherwise from the spacing of the first column.
	SamplingRate float64
}

// ReadFile parses the ATF file at path.
func ReadFile(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("atf: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads one ATF recording from r.
func Parse(r io.Reader) (*Recording, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line, ok := nextLine(sc)
	if !ok {
		return nil, ErrBadMagic
	}
	fields := strings.Fields(line)
	if len(fields) == 0 || !strings.EqualFold(fields[0], "ATF") {
		return nil, fmt.Errorf("%w: %q", ErrBadMagic, line)
	}

	rec := &Recording{Metadata: make(map[string]string)}
	if len(fields) > 1 {
		rec.Version = fields[1]
	}

	line, ok = nextLine(sc)
	if !ok {
		return nil, fmt.Errorf("%w: missing count line", ErrBadHeader)
	}
	counts := strings.Fields(line)
	if len(counts) < 2 {
		return nil, fmt.Errorf("%w: count line %q", ErrBadHeader, line)
	}
	headerCount, err := strconv.Atoi(counts[0])
	if err != nil || headerCount < 0 {
		return nil, fmt.Errorf("%w: header count %q", ErrBadHeader, counts[0])
	}
	columnCount, err := strconv.Atoi(counts[1])
	if err != nil || columnCount < 1 {
		return nil, fmt.Errorf("%w: column count %q", ErrBadHeader, counts[1])
	}

	for i := 0; i < headerCount; i++ {
		line, ok = nextLine(sc)
		if !ok {
			return nil, fmt.Errorf("%w: truncated header records", ErrBadHeader)
		}
		rec.addHeaderRecord(unquote(line))
	}

	line, ok = nextLine(sc)
	if !ok {
		return nil, fmt.Errorf("%w: missing column titles", ErrBadHeader)
	}
	rec.Columns = parseColumnTitles(line, columnCount)

	rec.Data = make([][]float64, columnCount)
	for sc.Scan() {
		row, rowOK := parseRow(sc.Text(), columnCount)
		if !rowOK {
			continue
		}
		for i, v := range row {
			rec.Data[i] = append(rec.Data[i], v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("atf: %w", err)
	}
	if len(rec.Data[0]) == 0 {
		return nil, ErrNoData
	}

	rec.SamplingRate = rec.deriveSamplingRate()

	return rec, nil
}

// Column returns the data of the named column.
func (r *Recording) Column(name string) ([]float64, bool) {
	for i, title := range r.Columns {
		if strings.EqualFold(title, name) {
			return r.Data[i], true
		}
	}
	return nil, false
}

// Time returns the first column, conventionally the time axis.
func (r *Recording) Time() []float64 {
	return r.Data[0]
}

// Current returns the second column, conventionally the measured current,
// or the first column for single-column files.
func (r *Recording) Current() []float64 {
	if len(r.Data) > 1 {
		return r.Data[1]
	}
	return r.Data[0]
}

// Samples returns the number of data rows.
func (r *Recording) Samples() int {
	return len(r.Data[0])
}

// Info returns a one-line summary of the recording.
func (r *Recording) Info() string {
	return fmt.Sprintf("%d columns, %d samples, %g Hz", len(r.Columns), r.Samples(), r.SamplingRate)
}

func (r *Recording) addHeaderRecord(record string) {
	key, value, found := strings.Cut(record, "=")
	if !found {
		if record != "" {
			r.Comments = append(r.Comments, record)
		}
		return
	}
	r.Metadata[strings.TrimSpace(key)] = strings.TrimSpace(value)
}

func (r *Recording) deriveSamplingRate() float64 {
	if raw, ok := r.Metadata["SampleInterval"]; ok {
		if interval, err := strconv.ParseFloat(raw, 64); err == nil && interval > 0 {
			return 1 / interval
		}
	}

	t := r.Data[0]
	if len(t) > 1 && t[1] > t[0] {
		return 1 / (t[1] - t[0])
	}

	return 0
}

// nextLine returns the next non-empty line.
func nextLine(sc *bufio.Scanner) (string, bool) {
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			return line, true
		}
	}
	return "", false
}

func unquote(line string) string {
	return strings.Trim(strings.TrimSpace(line), `"`)
}

// parseColumnTitles splits a line of quoted, tab- or comma-separated titles.
// Missing titles are filled in as "Column N".
func parseColumnTitles(line string, columnCount int) []string {
	sep := "\t"
	if !strings.Contains(line, "\t") && strings.Contains(line, ",") {
		sep = ","
	}

	titles := make([]string, 0, columnCount)
	for _, part := range strings.Split(line, sep) {
		title := unquote(part)
		if title != "" {
			titles = append(titles, title)
		}
	}
	for len(titles) < columnCount {
		titles = append(titles, fmt.Sprintf("Column %d", len(titles)+1))
	}

	return titles[:columnCount]
}

// parseRow parses one data row, rejecting rows with the wrong field count or
// non-numeric fields.
func parseRow(line string, columnCount int) ([]float64, bool) {
	fields := strings.Fields(line)
	if len(fields) != columnCount {
		return nil, false
	}

	row := make([]float64, columnCount)
	for i, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, false
		}
		row[i] = v
	}

	return row, true
}
