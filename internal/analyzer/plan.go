package analyzer

// Plan describes how one document is sampled: where on the timeline capture
// starts, how many frames are taken and how far apart they are.
type Plan struct {
	StartMS    int
	FrameCount int
	IntervalMS float64
}

// NewPlan picks the smallest multiple of the cycle strictly greater than the
// latest start delay, so capture begins on a cycle boundary with every
// animation already in its repeating steady state. One full cycle is sampled.
func NewPlan(cycleMS, maxDelayMS, fps int) Plan {
	interval := 1000.0 / float64(fps)

	// ceil((maxDelay+1) / cycle), at least 1
	mult := (maxDelayMS + cycleMS) / cycleMS
	if mult < 1 {
		mult = 1
	}

	return Plan{
		StartMS:    cycleMS * mult,
		FrameCount: int(float64(cycleMS) / interval),
		IntervalMS: interval,
	}
}

// Times returns the absolute sample timestamps in milliseconds, in playback
// order. The sequence depends only on the plan, never on wall-clock time.
func (p Plan) Times() []float64 {
	out := make([]float64, p.FrameCount)
	for i := range out {
		out[i] = float64(p.StartMS) + float64(i)*p.IntervalMS
	}
	return out
}
