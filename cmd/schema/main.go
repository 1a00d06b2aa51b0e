package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"SentryArena/internal/scenario"
)

func main() {
	var outPath, layoutPath string
	flag.StringVar(&outPath, "out", "", "path to write the scenario JSON schema")
	flag.StringVar(&layoutPath, "layout", "", "optional path to write the default arena as GeoJSON")
	flag.Parse()

	if outPath == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	data, err := json.MarshalIndent(scenario.Schema(), "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal schema: %v\n", err)
		os.Exit(1)
	}
	if err := writeAtomic(outPath, data); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write schema: %v\n", err)
		os.Exit(1)
	}

	if layoutPath != "" {
		data, err := json.MarshalIndent(scenario.Default().FeatureCollection(), "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to marshal layout: %v\n", err)
			os.Exit(1)
		}
		if err := writeAtomic(layoutPath, data); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write layout: %v\n", err)
			os.Exit(1)
		}
	}
}

func writeAtomic(outPath string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace file: %w", err)
	}

	return nil
}
