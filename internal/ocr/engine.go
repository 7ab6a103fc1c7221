package ocr

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strconv"
	"strings"

	qcerrors "github.com/reelcheck/reelcheck/internal/errors"
)

// Engine is the OCR capability: image buffer in, recognized regions out.
// Engines are initialized once at process start and shared read-only across
// requests.
type Engine interface {
	// Available reports whether the engine can be invoked at all.
	// A non-nil error is fatal for the content stage of a run.
	Available() error

	// Recognize extracts text regions from one frame image.
	Recognize(ctx context.Context, image []byte) ([]Region, error)
}

// Tesseract invokes the tesseract binary in TSV output mode.
type Tesseract struct {
	// Cmd overrides the binary path; empty means PATH lookup.
	Cmd string
}

// NewTesseract creates a tesseract-backed engine.
func NewTesseract(cmd string) *Tesseract {
	return &Tesseract{Cmd: cmd}
}

func (t *Tesseract) binary() string {
	if t.Cmd != "" {
		return t.Cmd
	}
	return "tesseract"
}

// Available checks that the tesseract binary can be found.
func (t *Tesseract) Available() error {
	if _, err := exec.LookPath(t.binary()); err != nil {
		return qcerrors.NewOCRUnavailableError("tesseract binary not found", err)
	}
	return nil
}

// Recognize runs tesseract on the image and parses its TSV word table.
func (t *Tesseract) Recognize(ctx context.Context, image []byte) ([]Region, error) {
	cmd := exec.CommandContext(ctx, t.binary(), "stdin", "stdout", "tsv")
	cmd.Stdin = bytes.NewReader(image)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, qcerrors.NewCancelledError(qcerrors.StageContent, ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, qcerrors.NewCommandFailedError(t.binary(), exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
		}
		return nil, qcerrors.NewCommandStartError(t.binary(), err)
	}

	return parseTSV(string(output)), nil
}

// tsv column indices from tesseract's fixed 12-column word table.
const (
	tsvColLevel  = 0
	tsvColLeft   = 6
	tsvColTop    = 7
	tsvColWidth  = 8
	tsvColHeight = 9
	tsvColConf   = 10
	tsvColText   = 11
	tsvColCount  = 12

	// wordLevel marks word rows; lower levels are page/block/line structure.
	wordLevel = "5"
)

// parseTSV extracts word-level regions from tesseract TSV output.
// Malformed rows are skipped rather than failing the frame.
func parseTSV(output string) []Region {
	var regions []Region

	for i, line := range strings.Split(output, "\n") {
		if i == 0 {
			continue // header row
		}
		fields := strings.Split(line, "\t")
		if len(fields) < tsvColCount || fields[tsvColLevel] != wordLevel {
			continue
		}

		text := strings.TrimSpace(fields[tsvColText])
		if text == "" {
			continue
		}

		conf, err := strconv.ParseFloat(fields[tsvColConf], 64)
		if err != nil || conf < 0 {
			continue
		}

		x, _ := strconv.Atoi(fields[tsvColLeft])
		y, _ := strconv.Atoi(fields[tsvColTop])
		w, _ := strconv.Atoi(fields[tsvColWidth])
		h, _ := strconv.Atoi(fields[tsvColHeight])

		regions = append(regions, Region{
			Text:       text,
			Confidence: conf,
			X:          x,
			Y:          y,
			W:          w,
			H:          h,
		})
	}

	return regions
}
