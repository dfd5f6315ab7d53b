package engine

import "math"

// Easing maps a normalized time progress to a normalized intensity. Inputs
// are clamped to [0,1], outputs stay in [0,1].
type Easing func(t float64) float64

var (
	Linear    Easing = func(t float64) float64 { return clamp01(t) }
	QuadIn    Easing = func(t float64) float64 { t = clamp01(t); return t * t }
	QuadOut   Easing = func(t float64) float64 { t = clamp01(t); return t * (2 - t) }
	Bounce    Easing = bounce
	Pulse     Easing = pulse
	SinePulse Easing = sinePulse
	Sawtooth  Easing = sawtooth
	Triangle  Easing = triangle
)

// Easings lists every curve in a stable order, for round-robin assignment.
var Easings = []Easing{Linear, QuadIn, QuadOut, Bounce, Pulse, SinePulse, Sawtooth, Triangle}

// EasingNames matches Easings index for index.
var EasingNames = []string{"linear", "quad-in", "quad-out", "bounce", "pulse", "sine-pulse", "sawtooth", "triangle"}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// bounce is the classic ease-out bounce: three decaying rebounds.
func bounce(t float64) float64 {
	t = clamp01(t)
	const n, d = 7.5625, 2.75
	switch {
	case t < 1/d:
		return n * t * t
	case t < 2/d:
		t -= 1.5 / d
		return n*t*t + 0.75
	case t < 2.5/d:
		t -= 2.25 / d
		return n*t*t + 0.9375
	default:
		t -= 2.625 / d
		return n*t*t + 0.984375
	}
}

// pulse is a hard on/off square: on for the first half of the cycle.
func pulse(t float64) float64 {
	if clamp01(t) < 0.5 {
		return 1
	}
	return 0
}

// sinePulse rises and falls smoothly over one cycle.
func sinePulse(t float64) float64 {
	return 0.5 - 0.5*math.Cos(2*math.Pi*clamp01(t))
}

// sawtooth ramps up twice per cycle.
func sawtooth(t float64) float64 {
	t = clamp01(t)
	if t >= 1 {
		return 1
	}
	f := math.Mod(t*2, 1)
	return f
}

// triangle ramps up then back down.
func triangle(t float64) float64 {
	return 1 - math.Abs(2*clamp01(t)-1)
}
