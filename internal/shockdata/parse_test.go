package shockdata

import (
	"encoding/base64"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// payload frames text the way the browser upload does:
// a data-URL metadata prefix, a comma, then standard base64.
func payload(text string) string {
	return "data:text/plain;base64," + base64.StdEncoding.EncodeToString([]byte(text))
}

func TestParseColumns(t *testing.T) {
	t.Parallel()

	table, err := Parse(payload("1 2 3 4\n5 6 7 8\n9 10 11 12"))
	require.NoError(t, err)

	want := []string{"Time", "Pos_1", "Pos_2", "Pos_3", "Pos_4", "Vel_1", "Vel_2", "Vel_3", "Vel_4"}
	assert.Equal(t, want, table.Columns())
	assert.Equal(t, 3, table.Rows())
	assert.Equal(t, 4, table.Channels())
}

func TestParseTimeAxis(t *testing.T) {
	t.Parallel()

	table, err := Parse(payload("0 0 0 0\n0 0 0 0\n0 0 0 0\n0 0 0 0\n0 0 0 0"))
	require.NoError(t, err)
	require.Equal(t, 5, table.Rows())

	for n := 0; n < table.Rows(); n++ {
		assert.InDelta(t, float64(n)*0.001, table.Time[n], 1e-12, "Time[%d]", n)
	}
	// Strictly increasing.
	for n := 1; n < table.Rows(); n++ {
		assert.Greater(t, table.Time[n], table.Time[n-1])
	}
}

func TestParseVelocity(t *testing.T) {
	t.Parallel()

	table, err := Parse(payload("0 0 0 0\n1 2 3 4"))
	require.NoError(t, err)

	for c := 0; c < 4; c++ {
		assert.True(t, math.IsNaN(table.Vel[c][0]), "Vel_%d[0] must be NaN, not zero", c+1)
		assert.InDelta(t, float64(c+1)*1000.0, table.Vel[c][1], 1e-9)
	}
}

func TestParseColumnCountMismatch(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		text string
	}{
		{"three columns", "1 2 3\n4 5 6"},
		{"five columns", "1 2 3 4 5\n6 7 8 9 10"},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(payload(c.text))
			require.Error(t, err)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Contains(t, err.Error(), "expected 4 position columns")
		})
	}
}

func TestParseMalformed(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		payload string
		cause   string
	}{
		{"no comma separator", "justonestringwithoutcomma", "no ',' separator"},
		{"invalid base64", "data:text/plain;base64,@@not-base64@@", "not valid base64"},
		{"non-utf8 text", "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString([]byte{0xff, 0xfe, 0xfd}), "not valid UTF-8"},
		{"non-numeric token", payload("1 2 three 4\n5 6 7 8"), "non-numeric token"},
		{"ragged rows", payload("1 2 3 4\n5 6 7"), "ragged input"},
		{"empty input", payload(""), "empty input"},
		{"whitespace only", payload("\n   \n\t\n"), "empty input"},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(c.payload)
			require.Error(t, err)

			// Every failure mode surfaces as the one ParseError kind.
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Contains(t, err.Error(), c.cause)
		})
	}
}

func TestParseRaggedNamesOffendingLine(t *testing.T) {
	t.Parallel()

	_, err := Parse(payload("1 2 3 4\n5 6 7 8\n9 10 11"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3 has 3 columns, line 1 has 4")
}

func TestParseIdempotent(t *testing.T) {
	t.Parallel()

	p := payload("0.10 0.20 0.30 0.40\n0.15 0.18 0.33 0.41\n0.19 0.17 0.35 0.40")
	a, err := Parse(p)
	require.NoError(t, err)
	b, err := Parse(p)
	require.NoError(t, err)

	if diff := cmp.Diff(a, b, cmpopts.EquateNaNs()); diff != "" {
		t.Fatalf("repeated parse differs (-first +second):\n%s", diff)
	}
}

func TestParseWithOptions(t *testing.T) {
	t.Parallel()

	t.Run("custom channel count", func(t *testing.T) {
		t.Parallel()
		table, err := ParseWithOptions(payload("1 2\n3 4"), Options{Channels: 2})
		require.NoError(t, err)
		assert.Equal(t, []string{"Time", "Pos_1", "Pos_2", "Vel_1", "Vel_2"}, table.Columns())
	})

	t.Run("custom sample interval", func(t *testing.T) {
		t.Parallel()
		table, err := ParseWithOptions(payload("0 0 0 0\n1 1 1 1"), Options{SampleInterval: 0.01})
		require.NoError(t, err)
		assert.InDelta(t, 0.01, table.Time[1], 1e-12)
		assert.InDelta(t, 100.0, table.Vel[0][1], 1e-9)
	})

	t.Run("zero options mean stock layout", func(t *testing.T) {
		t.Parallel()
		table, err := ParseWithOptions(payload("1 2 3 4"), Options{})
		require.NoError(t, err)
		assert.Equal(t, 4, table.Channels())
		assert.InDelta(t, DefaultSampleInterval, table.SampleInterval, 1e-12)
	})
}

func TestParseErrorUnwrap(t *testing.T) {
	t.Parallel()

	_, err := Parse("data:text/plain;base64,@@not-base64@@")
	require.Error(t, err)

	var corrupt base64.CorruptInputError
	assert.True(t, errors.As(err, &corrupt), "base64 cause should be preserved via Unwrap")
}
