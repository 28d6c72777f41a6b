package shockdata

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultChannels is the number of position channels in a stock shock log.
	DefaultChannels = 4

	// DefaultSampleInterval is the fixed sampling interval in seconds (1 kHz).
	DefaultSampleInterval = 0.001
)

// ParseError is the single failure kind for the ingest pipeline. It covers
// bad transport framing, invalid base64, non-UTF-8 text, non-numeric tokens,
// ragged rows, wrong channel counts, and empty input. The message always
// carries a human-readable cause for the upload page to display.
type ParseError struct {
	msg string
	err error
}

func (e *ParseError) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *ParseError) Unwrap() error {
	return e.err
}

func parseErrorf(err error, format string, args ...any) *ParseError {
	return &ParseError{msg: fmt.Sprintf(format, args...), err: err}
}

// Options tunes the parser. Zero values select the stock log layout.
type Options struct {
	// Channels is the required number of position columns. 0 means DefaultChannels.
	Channels int

	// SampleInterval is dt in seconds. 0 means DefaultSampleInterval.
	SampleInterval float64
}

// Parse decodes an uploaded payload with the stock options: four position
// channels at 1 kHz.
func Parse(payload string) (*Table, error) {
	return ParseWithOptions(payload, Options{})
}

// ParseWithOptions decodes a browser upload payload of the form
// "<metadata>,<base64 text>" (what FileReader.readAsDataURL produces) into a
// Table. The decoded text must be a rectangular whitespace-delimited numeric
// matrix with exactly opts.Channels columns. The time axis is synthesized at
// opts.SampleInterval and velocities are derived by finite differencing; the
// first velocity row is NaN.
//
// All failures return a *ParseError. Parsing is pure: the same payload always
// yields an identical Table.
func ParseWithOptions(payload string, opts Options) (*Table, error) {
	channels := opts.Channels
	if channels <= 0 {
		channels = DefaultChannels
	}
	dt := opts.SampleInterval
	if dt <= 0 {
		dt = DefaultSampleInterval
	}

	_, body, found := strings.Cut(payload, ",")
	if !found {
		return nil, parseErrorf(nil, "payload has no ',' separator between metadata and base64 body")
	}

	raw, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, parseErrorf(err, "payload body is not valid base64")
	}
	if !utf8.Valid(raw) {
		return nil, parseErrorf(nil, "decoded payload is not valid UTF-8 text")
	}

	rows, err := parseMatrix(string(raw))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, parseErrorf(nil, "empty input: no data rows")
	}
	if got := len(rows[0]); got != channels {
		return nil, parseErrorf(nil, "expected %d position columns, found %d", channels, got)
	}

	return derive(rows, dt), nil
}

// parseMatrix splits text into whitespace-delimited numeric rows. Blank lines
// are skipped. The first data row fixes the column count; a row with any
// other width is rejected rather than truncated or padded.
func parseMatrix(text string) ([][]float64, error) {
	var rows [][]float64
	width := 0
	lineNo := 0

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if width == 0 {
			width = len(fields)
		} else if len(fields) != width {
			return nil, parseErrorf(nil, "ragged input: line %d has %d columns, line 1 has %d", lineNo, len(fields), width)
		}

		row := make([]float64, len(fields))
		for i, tok := range fields {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, parseErrorf(err, "line %d: non-numeric token %q", lineNo, tok)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, parseErrorf(err, "failed to scan decoded text")
	}
	return rows, nil
}

// derive builds the Table from a rectangular position matrix: time axis at
// n*dt, then per-channel finite-difference velocity.
func derive(rows [][]float64, dt float64) *Table {
	n := len(rows)
	channels := len(rows[0])

	t := &Table{
		Time:           make([]float64, n),
		Pos:            make([][]float64, channels),
		Vel:            make([][]float64, channels),
		SampleInterval: dt,
	}
	for i := range t.Time {
		t.Time[i] = float64(i) * dt
	}
	for c := 0; c < channels; c++ {
		pos := make([]float64, n)
		for i, row := range rows {
			pos[i] = row[c]
		}
		vel := make([]float64, n)
		vel[0] = math.NaN()
		for i := 1; i < n; i++ {
			vel[i] = (pos[i] - pos[i-1]) / dt
		}
		t.Pos[c] = pos
		t.Vel[c] = vel
	}
	return t
}
