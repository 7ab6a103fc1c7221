// Package ffprobe provides the metadata probe capability using ffprobe.
package ffprobe

import (
	"context"
	"encoding/json"
	"os/exec"
	"strconv"
	"strings"

	qcerrors "github.com/reelcheck/reelcheck/internal/errors"
)

// Metadata is the normalized probe result for a video asset.
type Metadata struct {
	Width         int64
	Height        int64
	CodecName     string
	CodecLongName string
	Profile       string
	PixelFormat   string
	FrameRate     float64 // from r_frame_rate
	AvgFrameRate  float64
	Duration      float64 // seconds
	BitRate       int64   // bits per second
	FileSize      int64   // bytes
	FormatName    string
}

// Resolution returns the metadata's resolution as "WxH".
func (m *Metadata) Resolution() string {
	return strconv.FormatInt(m.Width, 10) + "x" + strconv.FormatInt(m.Height, 10)
}

// ffprobeOutput represents the JSON output from ffprobe.
type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Duration   string `json:"duration"`
	BitRate    string `json:"bit_rate"`
	Size       string `json:"size"`
	FormatName string `json:"format_name"`
}

type ffprobeStream struct {
	CodecType     string `json:"codec_type"`
	CodecName     string `json:"codec_name"`
	CodecLongName string `json:"codec_long_name"`
	Profile       string `json:"profile"`
	Width         int64  `json:"width"`
	Height        int64  `json:"height"`
	PixFmt        string `json:"pix_fmt"`
	RFrameRate    string `json:"r_frame_rate"`
	AvgFrameRate  string `json:"avg_frame_rate"`
	Duration      string `json:"duration"`
	BitRate       string `json:"bit_rate"`
}

// Prober is the metadata probe capability.
type Prober interface {
	Probe(ctx context.Context, path string) (*Metadata, error)
}

// FFprobe runs the ffprobe binary found on PATH.
type FFprobe struct{}

// Probe extracts normalized video metadata from a file.
// It fails with a probe error if the file is unreadable or carries no video stream.
func (FFprobe) Probe(ctx context.Context, path string) (*Metadata, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)

	output, err := cmd.Output()
	if err != nil {
		return nil, qcerrors.NewProbeError("ffprobe failed for "+path, err)
	}

	return parseProbeOutput(path, output)
}

// parseProbeOutput converts raw ffprobe JSON into Metadata.
func parseProbeOutput(path string, raw []byte) (*Metadata, error) {
	var probe ffprobeOutput
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, qcerrors.NewJSONParseError("failed to parse ffprobe output", err)
	}

	var videoStream *ffprobeStream
	for i := range probe.Streams {
		if probe.Streams[i].CodecType == "video" {
			videoStream = &probe.Streams[i]
			break
		}
	}
	if videoStream == nil {
		return nil, qcerrors.NewNoVideoStreamError(path)
	}

	meta := &Metadata{
		Width:         videoStream.Width,
		Height:        videoStream.Height,
		CodecName:     strings.ToLower(videoStream.CodecName),
		CodecLongName: videoStream.CodecLongName,
		Profile:       videoStream.Profile,
		PixelFormat:   videoStream.PixFmt,
		FrameRate:     parseRational(videoStream.RFrameRate),
		AvgFrameRate:  parseRational(videoStream.AvgFrameRate),
		FormatName:    probe.Format.FormatName,
	}

	// Stream duration takes precedence; some containers only set it on format.
	if d, err := strconv.ParseFloat(videoStream.Duration, 64); err == nil {
		meta.Duration = d
	} else if d, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil {
		meta.Duration = d
	}

	if br, err := strconv.ParseInt(videoStream.BitRate, 10, 64); err == nil {
		meta.BitRate = br
	} else if br, err := strconv.ParseInt(probe.Format.BitRate, 10, 64); err == nil {
		meta.BitRate = br
	}

	if size, err := strconv.ParseInt(probe.Format.Size, 10, 64); err == nil {
		meta.FileSize = size
	}

	return meta, nil
}

// parseRational parses an ffprobe frame rate like "30000/1001" or "25".
// Returns 0 for malformed or zero-denominator values.
func parseRational(s string) float64 {
	if s == "" {
		return 0
	}

	if num, den, found := strings.Cut(s, "/"); found {
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(den, 64)
		if err1 != nil || err2 != nil || d == 0 {
			return 0
		}
		return n / d
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
