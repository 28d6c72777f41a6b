// Command gen-shocklog generates a synthetic four-channel shock log at 1 kHz
// for testing uploads and the offline plotter.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
)

func main() {
	output := flag.String("o", "shock.txt", "output path")
	rows := flag.Int("n", 5000, "number of samples (1 kHz)")
	noise := flag.Float64("noise", 0.02, "gaussian noise amplitude")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("failed to create %s: %v", *output, err)
	}
	defer f.Close()

	rng := rand.New(rand.NewSource(*seed))
	w := bufio.NewWriter(f)

	// Each channel is a damped sine with its own frequency and phase, the
	// rough shape of a shock settling after a landing.
	const dt = 0.001
	for i := 0; i < *rows; i++ {
		t := float64(i) * dt
		for ch := 0; ch < 4; ch++ {
			freq := 1.5 + 0.5*float64(ch)
			phase := float64(ch) * math.Pi / 4
			v := math.Exp(-0.4*t)*math.Sin(2*math.Pi*freq*t+phase) + *noise*rng.NormFloat64()
			if ch > 0 {
				fmt.Fprint(w, " ")
			}
			fmt.Fprintf(w, "%.5f", v)
		}
		fmt.Fprintln(w)
	}
	if err := w.Flush(); err != nil {
		log.Fatalf("failed to write %s: %v", *output, err)
	}
	log.Printf("wrote %d samples (%gs at 1 kHz) to %s", *rows, float64(*rows)*dt, *output)
}
