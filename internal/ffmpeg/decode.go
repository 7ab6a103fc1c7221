// Package ffmpeg provides the frame decode capability using the ffmpeg binary.
package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	qcerrors "github.com/reelcheck/reelcheck/internal/errors"
)

// Decoder is the frame decode capability: one image buffer per timestamp.
type Decoder interface {
	DecodeFrame(ctx context.Context, path string, timestamp float64) ([]byte, error)
}

// FFmpeg decodes frames by seeking with the ffmpeg binary on PATH.
type FFmpeg struct{}

// DecodeFrame extracts a single frame at the given timestamp as a PNG buffer.
// Failures are per-frame decode errors; callers skip the frame and continue.
func (FFmpeg) DecodeFrame(ctx context.Context, path string, timestamp float64) ([]byte, error) {
	// -ss before -i uses keyframe-accurate fast seek, which is sufficient
	// for sampled analysis and avoids decoding the whole stream.
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-v", "error",
		"-ss", fmt.Sprintf("%.3f", timestamp),
		"-i", path,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, qcerrors.NewCancelledError(qcerrors.StageContent, ctx.Err())
		}
		return nil, qcerrors.NewDecodeError(timestamp,
			qcerrors.NewCommandFailedError("ffmpeg", exitCode(err), strings.TrimSpace(stderr.String())))
	}

	frame := stdout.Bytes()
	if len(frame) == 0 {
		// Seeking past the end of stream yields no output and exit code 0.
		return nil, qcerrors.NewDecodeError(timestamp, fmt.Errorf("no frame produced at %.3fs", timestamp))
	}

	return frame, nil
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
