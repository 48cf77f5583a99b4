package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jonathan/internradar/internal/schemas"
)

// readValidated reads a JSON file, checks it against an embedded schema and decodes it into out.
func readValidated(path string, schema schemas.Name, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := schemas.Validate(schema, data); err != nil {
		return fmt.Errorf("%s does not match %s: %w", path, schema, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", path, err)
	}
	return nil
}

// writeJSON writes v as indented JSON to path, or to stdout when path is "-".
// When schema is non-empty the written document is checked against it; a
// mismatch is reported on stderr but does not fail the command.
func writeJSON(stdout, stderr io.Writer, path string, v any, schema schemas.Name) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	if schema != "" {
		if err := schemas.Validate(schema, data); err != nil {
			_, _ = fmt.Fprintf(stderr, "Warning: Output validation failed: %v\n", err)
		}
	}

	if path == "-" {
		_, err := fmt.Fprintln(stdout, string(data))
		return err
	}

	// Ensure output directory exists
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	return nil
}
