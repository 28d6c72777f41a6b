package main

import (
	"context"
	"embed"
	"flag"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/banshee-data/shock.report/internal/config"
	"github.com/banshee-data/shock.report/internal/shockweb"
	"github.com/banshee-data/shock.report/internal/version"
)

var (
	//go:embed static/*
	staticFiles embed.FS
	devMode     = flag.Bool("dev", false, "Serve static files from ./static instead of the embedded copy")
	listen      = flag.String("listen", ":8080", "Listen address")
	tuningPath  = flag.String("tuning", "", "Optional JSON tuning file (channel count, sample interval, histogram bins)")
)

// Main
func main() {
	flag.Parse()

	// "shock.report selftest" runs the parse/derive scenarios and exits.
	if flag.Arg(0) == "selftest" {
		os.Exit(runSelfTest(os.Stdout))
	}

	if *listen == "" {
		log.Fatal("Listen address is required")
	}
	log.Printf("shock.report %s", version.String())

	tuning := config.EmptyTuningConfig()
	if *tuningPath != "" {
		var err error
		tuning, err = config.LoadTuningConfig(*tuningPath)
		if err != nil {
			log.Fatalf("failed to load tuning config: %v", err)
		}
	}

	// read static files from the embedded filesystem in production or from
	// the local ./static in dev for easier iteration without restarting the
	// server
	var staticHandler http.Handler
	if *devMode {
		staticHandler = http.FileServer(http.Dir("./static"))
	} else {
		sub, err := fs.Sub(staticFiles, "static")
		if err != nil {
			log.Fatalf("failed to open embedded static files: %v", err)
		}
		staticHandler = http.FileServer(http.FS(sub))
	}

	ws := shockweb.NewWebServer(shockweb.WebServerConfig{
		Address: *listen,
		Tuning:  tuning,
		Static:  staticHandler,
	})

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// HTTP server goroutine; Start blocks until the context is cancelled and
	// the server has shut down.
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := ws.Start(ctx); err != nil {
			log.Printf("web server terminated: %v", err)
		}
	}()

	wg.Wait()
	log.Printf("Graceful shutdown complete")
}
