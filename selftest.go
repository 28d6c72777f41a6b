package main

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/banshee-data/shock.report/internal/shockdata"
)

// b64payload frames text the way a browser upload does.
func b64payload(text string) string {
	return "data:text/plain;base64," + base64.StdEncoding.EncodeToString([]byte(text))
}

func expectParseError(err error) error {
	if err == nil {
		return errors.New("expected an error, got none")
	}
	var pe *shockdata.ParseError
	if !errors.As(err, &pe) {
		return fmt.Errorf("expected ParseError, got %T: %v", err, err)
	}
	return nil
}

// selfTestScenarios are the end-to-end checks behind "shock.report selftest".
var selfTestScenarios = []struct {
	name string
	run  func() error
}{
	{
		name: "column naming",
		run: func() error {
			table, err := shockdata.Parse(b64payload("1 2 3 4\n5 6 7 8"))
			if err != nil {
				return err
			}
			want := []string{"Time", "Pos_1", "Pos_2", "Pos_3", "Pos_4", "Vel_1", "Vel_2", "Vel_3", "Vel_4"}
			if diff := cmp.Diff(want, table.Columns()); diff != "" {
				return fmt.Errorf("columns mismatch (-want +got):\n%s", diff)
			}
			return nil
		},
	},
	{
		name: "time axis at 1 kHz",
		run: func() error {
			table, err := shockdata.Parse(b64payload("0 0 0 0\n0 0 0 0\n0 0 0 0"))
			if err != nil {
				return err
			}
			for n, ts := range table.Time {
				want := float64(n) * 0.001
				if math.Abs(ts-want) > 1e-12 {
					return fmt.Errorf("Time[%d] = %v, want %v", n, ts, want)
				}
			}
			return nil
		},
	},
	{
		name: "velocity finite difference",
		run: func() error {
			table, err := shockdata.Parse(b64payload("0 0 0 0\n1 2 3 4"))
			if err != nil {
				return err
			}
			if !math.IsNaN(table.Vel[0][0]) {
				return fmt.Errorf("Vel_1[0] = %v, want NaN sentinel", table.Vel[0][0])
			}
			if got := table.Vel[0][1]; math.Abs(got-1000.0) > 1e-9 {
				return fmt.Errorf("Vel_1[1] = %v, want 1000.0", got)
			}
			return nil
		},
	},
	{
		name: "wrong column count rejected",
		run: func() error {
			for _, text := range []string{"1 2 3\n4 5 6", "1 2 3 4 5\n6 7 8 9 10"} {
				_, err := shockdata.Parse(b64payload(text))
				if err := expectParseError(err); err != nil {
					return err
				}
			}
			return nil
		},
	},
	{
		name: "malformed transport rejected",
		run: func() error {
			for _, payload := range []string{"no-comma-at-all", "meta,###not base64###"} {
				_, err := shockdata.Parse(payload)
				if err := expectParseError(err); err != nil {
					return fmt.Errorf("payload %q: %w", payload, err)
				}
			}
			return nil
		},
	},
	{
		name: "window excluding all rows is empty, not an error",
		run: func() error {
			table, err := shockdata.Parse(b64payload("1 2 3 4\n5 6 7 8"))
			if err != nil {
				return err
			}
			if rows := table.Window(100, 200).Rows(); rows != 0 {
				return fmt.Errorf("window selected %d rows, want 0", rows)
			}
			return nil
		},
	},
	{
		name: "parse is idempotent",
		run: func() error {
			p := b64payload("0.1 0.2 0.3 0.4\n0.2 0.3 0.4 0.5")
			a, err := shockdata.Parse(p)
			if err != nil {
				return err
			}
			b, err := shockdata.Parse(p)
			if err != nil {
				return err
			}
			if diff := cmp.Diff(a, b, cmpopts.EquateNaNs()); diff != "" {
				return fmt.Errorf("repeated parse differs:\n%s", diff)
			}
			return nil
		},
	},
}

// runSelfTest runs every scenario, printing one line per result, and returns
// the process exit code: 0 if all passed, 1 otherwise.
func runSelfTest(w io.Writer) int {
	failed := 0
	for _, s := range selfTestScenarios {
		if err := s.run(); err != nil {
			failed++
			fmt.Fprintf(w, "FAIL %s: %v\n", s.name, err)
			continue
		}
		fmt.Fprintf(w, "ok   %s\n", s.name)
	}
	if failed > 0 {
		fmt.Fprintf(w, "%d of %d scenarios failed\n", failed, len(selfTestScenarios))
		return 1
	}
	fmt.Fprintf(w, "all %d scenarios passed\n", len(selfTestScenarios))
	return 0
}
