// Package config provides configuration types and defaults for reelcheck.
package config

import "errors"

// Sentinel errors for configuration validation.
var (
	// ErrInvalidPreset indicates an unknown preset name was provided.
	ErrInvalidPreset = errors.New("invalid preset")

	// ErrInvalidKeyframes indicates a non-positive keyframe cap.
	ErrInvalidKeyframes = errors.New("keyframe cap out of range")

	// ErrInvalidInterval indicates a non-positive sampling interval.
	ErrInvalidInterval = errors.New("sampling interval out of range")

	// ErrInvalidConfidence indicates an OCR confidence outside the 0-100 range.
	ErrInvalidConfidence = errors.New("OCR confidence out of range")

	// ErrInvalidDistance indicates a non-positive spelling match distance.
	ErrInvalidDistance = errors.New("spelling match distance out of range")

	// ErrInvalidWindow indicates a negative dedupe merge window.
	ErrInvalidWindow = errors.New("merge window out of range")

	// ErrInvalidWorkers indicates a non-positive worker count.
	ErrInvalidWorkers = errors.New("worker count out of range")

	// ErrInvalidTimeout indicates a negative job timeout.
	ErrInvalidTimeout = errors.New("timeout out of range")
)
