package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/reelcheck/reelcheck/internal/util"
)

// Default constants
const (
	// DefaultMaxKeyframes is the cap on sampled frames per video.
	DefaultMaxKeyframes = 30

	// DefaultIntervalSecs is the minimum spacing between samples in seconds.
	DefaultIntervalSecs = 5.0

	// DefaultOCRConfidence is the minimum OCR confidence for a text region.
	DefaultOCRConfidence = 30.0

	// DefaultSpellingMaxDistance is the maximum edit distance for a
	// dictionary suggestion to be offered.
	DefaultSpellingMaxDistance = 2

	// DefaultMinWordLength is the shortest token the spelling pass inspects.
	DefaultMinWordLength = 3

	// DefaultMergeWindowSecs is the dedupe window for repeated issues.
	DefaultMergeWindowSecs = 10.0

	// DefaultTimeout is the wall-clock budget for one analysis job.
	DefaultTimeout = 10 * time.Minute

	// DefaultWorkerLimit caps the auto-sized frame worker pool.
	DefaultWorkerLimit = 4

	// MaxConfidence is the upper bound of the OCR confidence scale.
	MaxConfidence = 100.0

	// StrictPresetIntervalSecs samples more densely for strict review.
	StrictPresetIntervalSecs = 2.0

	// StrictPresetMaxKeyframes raises the frame cap for strict review.
	StrictPresetMaxKeyframes = 60

	// StrictPresetOCRConfidence accepts lower-confidence text in strict mode.
	StrictPresetOCRConfidence = 20.0

	// QuickPresetIntervalSecs samples sparsely for a fast pass.
	QuickPresetIntervalSecs = 15.0

	// QuickPresetMaxKeyframes lowers the frame cap for a fast pass.
	QuickPresetMaxKeyframes = 10

	// QuickPresetOCRConfidence only trusts high-confidence text in quick mode.
	QuickPresetOCRConfidence = 50.0
)

// Preset represents a grouped set of analysis defaults.
type Preset string

const (
	PresetStrict   Preset = "strict"
	PresetStandard Preset = "standard"
	PresetQuick    Preset = "quick"
)

// ParsePreset parses a string into a Preset.
func ParsePreset(s string) (Preset, error) {
	switch strings.ToLower(s) {
	case "strict":
		return PresetStrict, nil
	case "standard":
		return PresetStandard, nil
	case "quick":
		return PresetQuick, nil
	default:
		return "", fmt.Errorf("%w: '%s', valid options: strict, standard, quick", ErrInvalidPreset, s)
	}
}

// String returns the string representation of the preset.
func (p Preset) String() string {
	return string(p)
}

// PresetValues contains bundled parameter values for a preset.
type PresetValues struct {
	MaxKeyframes  int
	IntervalSecs  float64
	OCRConfidence float64
}

// GetPresetValues returns the values for a given preset.
func GetPresetValues(p Preset) PresetValues {
	switch p {
	case PresetStrict:
		return PresetValues{
			MaxKeyframes:  StrictPresetMaxKeyframes,
			IntervalSecs:  StrictPresetIntervalSecs,
			OCRConfidence: StrictPresetOCRConfidence,
		}
	case PresetQuick:
		return PresetValues{
			MaxKeyframes:  QuickPresetMaxKeyframes,
			IntervalSecs:  QuickPresetIntervalSecs,
			OCRConfidence: QuickPresetOCRConfidence,
		}
	default:
		return PresetValues{
			MaxKeyframes:  DefaultMaxKeyframes,
			IntervalSecs:  DefaultIntervalSecs,
			OCRConfidence: DefaultOCRConfidence,
		}
	}
}

// Config holds all configuration for a quality check run.
type Config struct {
	// Frame sampling policy
	MaxKeyframes int     `yaml:"max_keyframes"`
	IntervalSecs float64 `yaml:"interval_seconds"`

	// OCR options
	OCRConfidence float64 `yaml:"ocr_confidence"`
	TesseractCmd  string  `yaml:"tesseract_cmd"` // Optional override, defaults to PATH lookup

	// Text quality options
	SpellingMaxDistance int     `yaml:"spelling_max_distance"`
	MinWordLength       int     `yaml:"min_word_length"`
	MergeWindowSecs     float64 `yaml:"merge_window_seconds"`

	// Resource options
	Workers int           `yaml:"workers"`
	Timeout time.Duration `yaml:"timeout"`

	// Selected preset (optional)
	AnalysisPreset *Preset `yaml:"-"`
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		MaxKeyframes:        DefaultMaxKeyframes,
		IntervalSecs:        DefaultIntervalSecs,
		OCRConfidence:       DefaultOCRConfidence,
		SpellingMaxDistance: DefaultSpellingMaxDistance,
		MinWordLength:       DefaultMinWordLength,
		MergeWindowSecs:     DefaultMergeWindowSecs,
		Workers:             util.DefaultWorkers(DefaultWorkerLimit),
		Timeout:             DefaultTimeout,
	}
}

// ApplyPreset applies the given preset to the config.
func (c *Config) ApplyPreset(p Preset) {
	values := GetPresetValues(p)
	c.AnalysisPreset = &p
	c.MaxKeyframes = values.MaxKeyframes
	c.IntervalSecs = values.IntervalSecs
	c.OCRConfidence = values.OCRConfidence
}

// LoadFile merges settings from a YAML file into the config.
// Zero values in the file leave the corresponding field untouched.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if overlay.MaxKeyframes != 0 {
		c.MaxKeyframes = overlay.MaxKeyframes
	}
	if overlay.IntervalSecs != 0 {
		c.IntervalSecs = overlay.IntervalSecs
	}
	if overlay.OCRConfidence != 0 {
		c.OCRConfidence = overlay.OCRConfidence
	}
	if overlay.TesseractCmd != "" {
		c.TesseractCmd = overlay.TesseractCmd
	}
	if overlay.SpellingMaxDistance != 0 {
		c.SpellingMaxDistance = overlay.SpellingMaxDistance
	}
	if overlay.MinWordLength != 0 {
		c.MinWordLength = overlay.MinWordLength
	}
	if overlay.MergeWindowSecs != 0 {
		c.MergeWindowSecs = overlay.MergeWindowSecs
	}
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
	if overlay.Timeout != 0 {
		c.Timeout = overlay.Timeout
	}

	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.MaxKeyframes < 1 {
		return fmt.Errorf("%w: must be >= 1, got %d", ErrInvalidKeyframes, c.MaxKeyframes)
	}
	if c.IntervalSecs <= 0 {
		return fmt.Errorf("%w: must be > 0, got %g", ErrInvalidInterval, c.IntervalSecs)
	}
	if c.OCRConfidence < 0 || c.OCRConfidence > MaxConfidence {
		return fmt.Errorf("%w: must be 0-%g, got %g", ErrInvalidConfidence, MaxConfidence, c.OCRConfidence)
	}
	if c.SpellingMaxDistance < 1 {
		return fmt.Errorf("%w: must be >= 1, got %d", ErrInvalidDistance, c.SpellingMaxDistance)
	}
	if c.MergeWindowSecs < 0 {
		return fmt.Errorf("%w: must be >= 0, got %g", ErrInvalidWindow, c.MergeWindowSecs)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: must be >= 1, got %d", ErrInvalidWorkers, c.Workers)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: must be > 0, got %s", ErrInvalidTimeout, c.Timeout)
	}
	return nil
}
