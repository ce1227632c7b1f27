package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"coastline/villas/internal/config"
	"coastline/villas/internal/contentstore"
)

var (
	file    = flag.String("f", "villas.json", "JSON file holding an array of villas")
	timeout = flag.Duration("timeout", time.Minute, "Overall import timeout")
)

func main() {
	flag.Parse()

	cfg, err := config.Load("import")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", *file, err)
	}
	villas, err := contentstore.DecodeVillas(f)
	f.Close()
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *file, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	factory := contentstore.NewMongoWriteClientFactory(cfg.ContentStoreURI, cfg.ContentWrite)
	defer factory.Close()

	wc, err := factory.NewWriteClient(ctx)
	if err != nil {
		log.Fatalf("Failed to create write client: %v", err)
	}
	if err := wc.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}

	res, err := contentstore.ImportVillas(ctx, wc, villas)
	for _, f := range res.Failed {
		log.Printf("ERROR: Villa #%d (%q) not imported: %v", f.Index, f.Slug, f.Err)
	}
	if err != nil {
		log.Fatalf("Import stopped: %v", err)
	}

	fmt.Printf("Imported %d villas, skipped %d existing, rejected %d invalid.\n",
		len(res.Imported), len(res.Skipped), len(res.Failed))
	if len(res.Failed) > 0 {
		os.Exit(1)
	}
}
