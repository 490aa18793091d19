package analyzer

import (
	"regexp"
	"strconv"
)

const (
	// DefaultCycleMS is used when a document declares no animation durations.
	DefaultCycleMS = 2000
	// MaxCycleMS caps the combined cycle length (200 frames at 20 fps).
	// Animations whose true common period exceeds the cap will not loop
	// perfectly; the Capped flag reports the truncation.
	MaxCycleMS = 10000
)

// Timings holds the animation timing declarations extracted from one document.
type Timings struct {
	Durations []int // milliseconds, in extraction order
	Delays    []int // milliseconds, in extraction order
}

// Cycle is the repeating period of a document's combined animations.
type Cycle struct {
	MS     int
	Capped bool
}

var (
	timeRe = regexp.MustCompile(`(\d+\.?\d*)(ms|s)`)

	// animation: name duration timing-function delay iteration-count ...
	shorthandRe = regexp.MustCompile(`animation\s*:\s*([^;}]+)`)

	durationPropRe = regexp.MustCompile(`animation-duration\s*:\s*(\d+\.?\d*)(ms|s)`)

	// Matches <animate>, <animateTransform>, <animateMotion>.
	smilDurRe = regexp.MustCompile(`<animate[^>]*dur="(\d+\.?\d*)(ms|s)"`)
)

// Extract pulls CSS and SMIL animation timing declarations out of raw SVG
// markup. The first time value of an animation shorthand is its duration,
// the second its delay. Malformed or unmatched declarations are skipped;
// extraction never fails.
func Extract(svg string) Timings {
	var t Timings

	for _, m := range shorthandRe.FindAllStringSubmatch(svg, -1) {
		times := timeRe.FindAllStringSubmatch(m[1], -1)
		if len(times) >= 1 {
			t.Durations = append(t.Durations, toMillis(times[0][1], times[0][2]))
		}
		if len(times) >= 2 {
			t.Delays = append(t.Delays, toMillis(times[1][1], times[1][2]))
		}
	}

	for _, m := range durationPropRe.FindAllStringSubmatch(svg, -1) {
		t.Durations = append(t.Durations, toMillis(m[1], m[2]))
	}

	for _, m := range smilDurRe.FindAllStringSubmatch(svg, -1) {
		t.Durations = append(t.Durations, toMillis(m[1], m[2]))
	}

	return t
}

// MaxDelay returns the latest declared start delay in milliseconds, 0 when none.
func (t Timings) MaxDelay() int {
	max := 0
	for _, d := range t.Delays {
		if d > max {
			max = d
		}
	}
	return max
}

// ComputeCycle collapses a set of durations into the shortest period after
// which every animation returns to its initial phase: the LCM of the distinct
// durations, capped at MaxCycleMS. An empty set yields DefaultCycleMS.
func ComputeCycle(durations []int) Cycle {
	if len(durations) == 0 {
		return Cycle{MS: DefaultCycleMS}
	}

	unique := make(map[int]struct{}, len(durations))
	for _, d := range durations {
		if d < 1 {
			d = 1
		}
		unique[d] = struct{}{}
	}

	// LCM is associative and commutative, map order does not matter.
	result := 1
	for d := range unique {
		result = lcm(result, d)
		if result > MaxCycleMS {
			return Cycle{MS: MaxCycleMS, Capped: true}
		}
	}
	return Cycle{MS: result}
}

func toMillis(value, unit string) int {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	if unit == "s" {
		f *= 1000
	}
	return int(f)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm(a, b int) int {
	return a / gcd(a, b) * b
}
