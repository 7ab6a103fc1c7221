// Package technical evaluates probed video metadata against delivery rules.
package technical

import (
	"fmt"
	"math"
	"strings"

	"github.com/reelcheck/reelcheck/internal/ffprobe"
)

const (
	// MinWidth and MinHeight define the 1080p resolution floor.
	MinWidth  int64 = 1920
	MinHeight int64 = 1080

	// FrameRateTolerance absorbs rational rounding of NTSC rates.
	FrameRateTolerance = 0.01

	// lowBitRateThreshold triggers an advisory warning, not a rule failure.
	lowBitRateThreshold int64 = 1_000_000
)

// AllowedFrameRates lists the approved delivery frame rates.
var AllowedFrameRates = []float64{23.976, 24, 25, 29.97, 30, 50, 60}

// codecAliases maps normalized stream codec identifiers to canonical names.
// ffprobe reports fourcc-style names for ProRes variants.
var codecAliases = map[string]string{
	"h264":   "H.264",
	"h.264":  "H.264",
	"avc":    "H.264",
	"avc1":   "H.264",
	"prores": "ProRes",
	"apch":   "ProRes",
	"apcn":   "ProRes",
	"apcs":   "ProRes",
	"apco":   "ProRes",
	"ap4h":   "ProRes",
	"ap4x":   "ProRes",
}

// RuleCheck is the outcome of one technical rule.
type RuleCheck struct {
	Name     string
	Current  string
	Required string
	Passed   bool
}

// Result contains the full technical evaluation for one asset.
type Result struct {
	Passed   bool
	Metadata *ffprobe.Metadata

	Resolution RuleCheck
	FrameRate  RuleCheck
	Codec      RuleCheck

	// CanonicalCodec is the normalized codec name, or the raw stream name
	// when no alias matches.
	CanonicalCodec string

	Errors   []string
	Warnings []string
}

// Evaluate applies the three delivery rules independently.
// All three must pass for the asset to pass.
func Evaluate(meta *ffprobe.Metadata) *Result {
	r := &Result{Metadata: meta}

	r.Resolution = checkResolution(meta)
	r.FrameRate = checkFrameRate(meta)
	r.Codec, r.CanonicalCodec = checkCodec(meta)

	for _, check := range []RuleCheck{r.Resolution, r.FrameRate, r.Codec} {
		if !check.Passed {
			r.Errors = append(r.Errors, failureMessage(check))
		}
	}

	if meta.BitRate > 0 && meta.BitRate < lowBitRateThreshold {
		r.Warnings = append(r.Warnings,
			fmt.Sprintf("Low bit rate detected: %.2f Mbps", float64(meta.BitRate)/1_000_000))
	}
	if meta.Duration <= 0 {
		r.Warnings = append(r.Warnings, "Could not determine video duration")
	}

	r.Passed = len(r.Errors) == 0
	return r
}

func checkResolution(meta *ffprobe.Metadata) RuleCheck {
	return RuleCheck{
		Name:     "resolution",
		Current:  meta.Resolution(),
		Required: fmt.Sprintf("%dx%d", MinWidth, MinHeight),
		Passed:   meta.Width >= MinWidth && meta.Height >= MinHeight,
	}
}

func checkFrameRate(meta *ffprobe.Metadata) RuleCheck {
	passed := false
	for _, rate := range AllowedFrameRates {
		// The extra epsilon keeps boundary values like 29.98 inside the
		// tolerance despite float64 subtraction error.
		if math.Abs(meta.FrameRate-rate) <= FrameRateTolerance+1e-9 {
			passed = true
			break
		}
	}

	return RuleCheck{
		Name:     "frame_rate",
		Current:  fmt.Sprintf("%.3f", meta.FrameRate),
		Required: formatRates(AllowedFrameRates),
		Passed:   passed,
	}
}

func checkCodec(meta *ffprobe.Metadata) (RuleCheck, string) {
	normalized := strings.ToLower(strings.TrimSpace(meta.CodecName))
	canonical, known := codecAliases[normalized]
	if !known {
		canonical = meta.CodecName
	}

	return RuleCheck{
		Name:     "codec",
		Current:  meta.CodecName,
		Required: "H.264, ProRes",
		Passed:   known,
	}, canonical
}

func failureMessage(check RuleCheck) string {
	switch check.Name {
	case "resolution":
		return fmt.Sprintf("Resolution %s is below minimum requirement of %s", check.Current, check.Required)
	case "frame_rate":
		return fmt.Sprintf("Frame rate %s FPS is not in approved list: %s", check.Current, check.Required)
	case "codec":
		return fmt.Sprintf("Codec '%s' is not in approved list: %s", check.Current, check.Required)
	default:
		return fmt.Sprintf("Rule %s failed: %s (required %s)", check.Name, check.Current, check.Required)
	}
}

func formatRates(rates []float64) string {
	parts := make([]string, len(rates))
	for i, r := range rates {
		parts[i] = strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", r), "0"), ".")
	}
	return strings.Join(parts, ", ")
}
