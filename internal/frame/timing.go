package frame

import "time"

// Timing is the per-frame snapshot handed to callbacks. Times are seconds.
type Timing struct {
	// DeltaTime is the scaled frame delta, clamped to [0, max delta].
	DeltaTime float64

	// FixedDeltaTime is the fixed-step size.
	FixedDeltaTime float64

	// TimeScale is the multiplier applied to the raw delta.
	TimeScale float64

	// TotalTime is the sum of every DeltaTime so far.
	TotalTime float64

	// FrameCount is the number of completed frames.
	FrameCount uint64

	// Interpolation is the leftover accumulator as a fraction of one fixed
	// step, in [0, 1).
	Interpolation float64
}

// SampleCount is the capacity of the FPS sample ring.
const SampleCount = 60

// fpsRing holds the raw deltas of the last SampleCount frames.
type fpsRing struct {
	samples [SampleCount]float64
	index   int
}

func (r *fpsRing) add(raw float64) {
	r.samples[r.index] = raw
	r.index = (r.index + 1) % SampleCount
}

// average returns the mean frame rate over the recorded samples. Empty slots
// and zero deltas are ignored.
func (r *fpsRing) average() float64 {
	var sum float64
	var n int
	for _, s := range r.samples {
		if s > 0 {
			sum += s
			n++
		}
	}
	if sum == 0 {
		return 0
	}
	return float64(n) / sum
}

func seconds(d time.Duration) float64 {
	return d.Seconds()
}

func duration(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}
