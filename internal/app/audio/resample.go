package audio

import (
	"context"
	"math"
)

// zeroCrossings is the number of sinc lobes kept on each side of the kernel.
const zeroCrossings = 16

// checkEvery is how many output samples are computed between context checks.
const checkEvery = 4096

// Resample converts samples from one rate to another with a windowed-sinc
// (Blackman) low-pass interpolator. The cutoff sits at the lower of the two
// Nyquist frequencies so downsampling does not alias. The output holds
// ceil(len(samples)*to/from) samples. It stops early with ctx.Err() once ctx
// is done.
func Resample(ctx context.Context, samples []float64, from, to int) ([]float64, error) {
	if from <= 0 || to <= 0 || from == to {
		out := make([]float64, len(samples))
		copy(out, samples)
		return out, nil
	}
	if len(samples) == 0 {
		return []float64{}, nil
	}

	outLen := int((int64(len(samples))*int64(to) + int64(from) - 1) / int64(from))
	out := make([]float64, outLen)

	step := float64(from) / float64(to)
	// cutoff in cycles per input sample
	fc := 0.5 * math.Min(1, float64(to)/float64(from))
	halfWidth := float64(zeroCrossings) / (2 * fc)

	for i := range out {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		t := float64(i) * step
		lo := int(math.Ceil(t - halfWidth))
		hi := int(math.Floor(t + halfWidth))
		if lo < 0 {
			lo = 0
		}
		if hi > len(samples)-1 {
			hi = len(samples) - 1
		}

		var acc, norm float64
		for j := lo; j <= hi; j++ {
			x := t - float64(j)
			h := 2 * fc * sinc(2*fc*x) * blackman(x/halfWidth)
			acc += samples[j] * h
			norm += h
		}
		if norm != 0 {
			out[i] = acc / norm
		}
	}
	return out, nil
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}

// blackman is the centred Blackman window on [-1, 1].
func blackman(u float64) float64 {
	if u <= -1 || u >= 1 {
		return 0
	}
	return 0.42 + 0.5*math.Cos(math.Pi*u) + 0.08*math.Cos(2*math.Pi*u)
}
