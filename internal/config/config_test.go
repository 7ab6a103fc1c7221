package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	if cfg.MaxKeyframes != DefaultMaxKeyframes {
		t.Errorf("MaxKeyframes = %d, want %d", cfg.MaxKeyframes, DefaultMaxKeyframes)
	}
	if cfg.IntervalSecs != DefaultIntervalSecs {
		t.Errorf("IntervalSecs = %g, want %g", cfg.IntervalSecs, DefaultIntervalSecs)
	}
	if cfg.OCRConfidence != DefaultOCRConfidence {
		t.Errorf("OCRConfidence = %g, want %g", cfg.OCRConfidence, DefaultOCRConfidence)
	}
	if cfg.Workers < 1 {
		t.Errorf("Workers = %d, want >= 1", cfg.Workers)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestParsePreset(t *testing.T) {
	tests := []struct {
		input   string
		want    Preset
		wantErr bool
	}{
		{"strict", PresetStrict, false},
		{"STANDARD", PresetStandard, false},
		{"Quick", PresetQuick, false},
		{"thorough", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePreset(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPreset) {
					t.Errorf("ParsePreset(%q) error = %v, want ErrInvalidPreset", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePreset(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParsePreset(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := NewConfig()
	cfg.ApplyPreset(PresetQuick)

	if cfg.MaxKeyframes != QuickPresetMaxKeyframes {
		t.Errorf("MaxKeyframes = %d, want %d", cfg.MaxKeyframes, QuickPresetMaxKeyframes)
	}
	if cfg.IntervalSecs != QuickPresetIntervalSecs {
		t.Errorf("IntervalSecs = %g, want %g", cfg.IntervalSecs, QuickPresetIntervalSecs)
	}
	if cfg.AnalysisPreset == nil || *cfg.AnalysisPreset != PresetQuick {
		t.Error("AnalysisPreset should record the applied preset")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("preset config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"zero keyframes", func(c *Config) { c.MaxKeyframes = 0 }, ErrInvalidKeyframes},
		{"negative interval", func(c *Config) { c.IntervalSecs = -1 }, ErrInvalidInterval},
		{"confidence above range", func(c *Config) { c.OCRConfidence = 101 }, ErrInvalidConfidence},
		{"confidence below range", func(c *Config) { c.OCRConfidence = -5 }, ErrInvalidConfidence},
		{"zero distance", func(c *Config) { c.SpellingMaxDistance = 0 }, ErrInvalidDistance},
		{"negative window", func(c *Config) { c.MergeWindowSecs = -1 }, ErrInvalidWindow},
		{"zero workers", func(c *Config) { c.Workers = 0 }, ErrInvalidWorkers},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, ErrInvalidTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reelcheck.yaml")

	content := `
max_keyframes: 45
interval_seconds: 3.5
ocr_confidence: 40
merge_window_seconds: 6
workers: 2
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := NewConfig()
	if err := cfg.LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}

	if cfg.MaxKeyframes != 45 {
		t.Errorf("MaxKeyframes = %d, want 45", cfg.MaxKeyframes)
	}
	if cfg.IntervalSecs != 3.5 {
		t.Errorf("IntervalSecs = %g, want 3.5", cfg.IntervalSecs)
	}
	if cfg.OCRConfidence != 40 {
		t.Errorf("OCRConfidence = %g, want 40", cfg.OCRConfidence)
	}
	// Unset fields keep their defaults.
	if cfg.SpellingMaxDistance != DefaultSpellingMaxDistance {
		t.Errorf("SpellingMaxDistance = %d, want default %d", cfg.SpellingMaxDistance, DefaultSpellingMaxDistance)
	}
}

func TestLoadFileMissing(t *testing.T) {
	cfg := NewConfig()
	if err := cfg.LoadFile("/nonexistent/reelcheck.yaml"); err == nil {
		t.Error("LoadFile should fail for a missing file")
	}
}
