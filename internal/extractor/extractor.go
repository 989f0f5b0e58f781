// Package extractor turns uploaded PDF files into plain text by
// shelling out to pdftotext (poppler). Extraction is the one pipeline
// step whose failure rejects an upload, so its errors propagate.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrPDFToolNotFound is returned when pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// CommandRunner executes an external command and returns its stdout.
// Injectable so tests can run without poppler installed.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Extractor converts PDF files to plain text.
type Extractor struct {
	runner CommandRunner
}

// New creates an Extractor backed by the real pdftotext binary.
func New() *Extractor {
	return &Extractor{runner: execRunner{}}
}

// NewWithRunner creates an Extractor with a custom command runner.
func NewWithRunner(runner CommandRunner) *Extractor {
	return &Extractor{runner: runner}
}

// CheckAvailable reports whether pdftotext is installed.
func CheckAvailable() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions tells the operator how to get pdftotext.
func InstallInstructions() string {
	return `pdftotext is required for PDF text extraction.

Install poppler:
  macOS:         brew install poppler
  Debian/Ubuntu: apt install poppler-utils
  Fedora:        dnf install poppler-utils`
}

// Extract runs pdftotext over the file at path and returns the
// extracted text. An empty result is not an error; some PDFs are
// scans with no text layer and the caller decides what that means.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	if err := CheckAvailable(); err != nil {
		return "", err
	}

	// "-" writes the text to stdout.
	out, err := e.runner.Run(ctx, "pdftotext", "-enc", "UTF-8", path, "-")
	if err != nil {
		return "", fmt.Errorf("pdftotext failed for %s: %w", filepath.Base(path), err)
	}

	return string(out), nil
}

// ExtractTitle guesses a document title from extracted text: the
// first non-empty line of reasonable length, falling back to the
// cleaned-up filename.
func ExtractTitle(content, path string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) > 200 {
			continue
		}
		return line
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.ReplaceAll(base, "_", " ")
}
