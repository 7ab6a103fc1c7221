package ffprobe

import (
	"errors"
	"math"
	"testing"

	qcerrors "github.com/reelcheck/reelcheck/internal/errors"
)

func TestParseRational(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{"ntsc rational", "30000/1001", 29.97002997002997},
		{"integer rational", "25/1", 25},
		{"plain number", "24", 24},
		{"fractional plain", "23.976", 23.976},
		{"zero denominator", "30/0", 0},
		{"empty", "", 0},
		{"garbage", "abc/def", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseRational(tt.input)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("parseRational(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

const sampleProbeJSON = `{
  "streams": [
    {
      "codec_type": "audio",
      "codec_name": "aac",
      "bit_rate": "128000"
    },
    {
      "codec_type": "video",
      "codec_name": "H264",
      "codec_long_name": "H.264 / AVC / MPEG-4 AVC / MPEG-4 part 10",
      "profile": "High",
      "width": 1920,
      "height": 1080,
      "pix_fmt": "yuv420p",
      "r_frame_rate": "30000/1001",
      "avg_frame_rate": "30000/1001",
      "duration": "600.500000",
      "bit_rate": "8000000"
    }
  ],
  "format": {
    "duration": "600.533000",
    "bit_rate": "8128000",
    "size": "610000000",
    "format_name": "mov,mp4,m4a,3gp,3g2,mj2"
  }
}`

func TestParseProbeOutput(t *testing.T) {
	meta, err := parseProbeOutput("clip.mp4", []byte(sampleProbeJSON))
	if err != nil {
		t.Fatalf("parseProbeOutput() error: %v", err)
	}

	if meta.Width != 1920 || meta.Height != 1080 {
		t.Errorf("dimensions = %dx%d, want 1920x1080", meta.Width, meta.Height)
	}
	if meta.Resolution() != "1920x1080" {
		t.Errorf("Resolution() = %v, want 1920x1080", meta.Resolution())
	}
	if meta.CodecName != "h264" {
		t.Errorf("CodecName = %v, want h264 (lowercased)", meta.CodecName)
	}
	if math.Abs(meta.FrameRate-29.97) > 0.01 {
		t.Errorf("FrameRate = %v, want ~29.97", meta.FrameRate)
	}
	// Stream duration wins over format duration.
	if math.Abs(meta.Duration-600.5) > 1e-6 {
		t.Errorf("Duration = %v, want 600.5", meta.Duration)
	}
	if meta.BitRate != 8000000 {
		t.Errorf("BitRate = %d, want 8000000", meta.BitRate)
	}
	if meta.FileSize != 610000000 {
		t.Errorf("FileSize = %d, want 610000000", meta.FileSize)
	}
}

func TestParseProbeOutputNoVideoStream(t *testing.T) {
	raw := `{"streams":[{"codec_type":"audio","codec_name":"aac"}],"format":{}}`

	_, err := parseProbeOutput("audio.mp4", []byte(raw))
	if err == nil {
		t.Fatal("expected error for file without video stream")
	}

	kind, ok := qcerrors.KindOf(err)
	if !ok || kind != qcerrors.KindNoVideoStream {
		t.Errorf("error kind = %v, want KindNoVideoStream", kind)
	}
}

func TestParseProbeOutputBadJSON(t *testing.T) {
	_, err := parseProbeOutput("clip.mp4", []byte("not json"))
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	if kind, ok := qcerrors.KindOf(err); !ok || kind != qcerrors.KindJSONParse {
		t.Errorf("error kind = %v, want KindJSONParse", kind)
	}
}

func TestParseProbeOutputFormatFallbacks(t *testing.T) {
	raw := `{
	  "streams": [{"codec_type": "video", "codec_name": "prores", "width": 1920, "height": 1080, "r_frame_rate": "24/1"}],
	  "format": {"duration": "120.0", "bit_rate": "95000000", "size": "1425000000"}
	}`

	meta, err := parseProbeOutput("master.mov", []byte(raw))
	if err != nil {
		t.Fatalf("parseProbeOutput() error: %v", err)
	}
	if meta.Duration != 120 {
		t.Errorf("Duration = %v, want format fallback 120", meta.Duration)
	}
	if meta.BitRate != 95000000 {
		t.Errorf("BitRate = %d, want format fallback 95000000", meta.BitRate)
	}

	var probeErr *qcerrors.Error
	if errors.As(err, &probeErr) {
		t.Error("successful parse should not return a structured error")
	}
}
