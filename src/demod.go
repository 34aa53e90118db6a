package soundtun

/*------------------------------------------------------------------
 *
 * Purpose:	FSK demodulator: convert audio samples back into bits.
 *
 *		The incoming block is consumed in non-overlapping windows
 *		of one bit time each.  Within a window the decision is a
 *		zero-crossing count: the high carrier crosses zero about
 *		twice per cycle more often than the low one, so a single
 *		fixed threshold midway between the two expected counts
 *		separates them with no training or adaptation.  With the
 *		default carriers a window holds 1 or 2 crossings of the
 *		1200 Hz tone and 3 or 4 of the 2400 Hz tone, so the
 *		threshold lands on 2.
 *
 *		This is a deliberately crude symbol-synchronous detector.
 *		It assumes the caller's block boundaries line up roughly
 *		with symbol boundaries and tolerates the small drift that
 *		the truncated samples-per-bit value introduces, because
 *		the two crossing counts differ by a large factor.  There
 *		is no symbol timing recovery.
 *
 *------------------------------------------------------------------*/

import (
	"math"
)

type modem_rx struct {
	cfg modem_config

	/* Crossing-count decision threshold, fixed per configuration. */
	threshold int

	/* Mean absolute level of the last window.  Recorded for diagnostics
	   only; nothing logs it and it takes no part in the decision. */
	last_level float64
}

func modem_rx_create(cfg modem_config) *modem_rx {
	return &modem_rx{
		cfg:       cfg,
		threshold: crossing_threshold(cfg),
	}
}

/* A sine at frequency f crosses zero 2*f*spb/rate times per window; the
 * decision threshold is the midpoint of the two carriers' counts. */
func crossing_threshold(cfg modem_config) int {
	return (cfg.Freq0 + cfg.Freq1) * cfg.samples_per_bit() / cfg.SampleRate
}

/*-------------------------------------------------------------
 *
 * Name:	demodulate_bit
 *
 * Purpose:	Decide the bit value of one window of samples.
 *
 * Inputs:	samples		- Exactly one bit time of audio.
 *		threshold	- Crossing count above which the window
 *				  is the high carrier.
 *
 * Returns:	The bit, and the mean absolute sample value of the
 *		window.  The level takes no part in the decision.
 *
 *--------------------------------------------------------------*/

func demodulate_bit(samples []float32, threshold int) (int, float64) {
	var crossings = 0
	var avg_abs = 0.0

	for i := 1; i < len(samples); i++ {
		if (samples[i-1] >= 0 && samples[i] < 0) || (samples[i-1] < 0 && samples[i] >= 0) {
			crossings++
		}
		avg_abs += math.Abs(float64(samples[i]))
	}
	avg_abs /= float64(len(samples))

	if crossings > threshold {
		return 1, avg_abs
	}
	return 0, avg_abs
}

/*-------------------------------------------------------------
 *
 * Name:	demodulate
 *
 * Purpose:	Demodulate a block of audio into packed bits.
 *
 * Inputs:	samples	- Audio block of any size.
 *		max_bits - Output cap.
 *
 * Outputs:	bits	- Receives the packed bits, MSB first.
 *
 * Returns:	Number of bits produced.  One bit per full window; a
 *		tail shorter than one bit time is dropped, and a block
 *		shorter than one bit time produces nothing.
 *
 *--------------------------------------------------------------*/

func (rx *modem_rx) demodulate(samples []float32, bits []byte, max_bits int) int {
	var spb = rx.cfg.samples_per_bit()
	var nbits = 0

	if len(samples) < spb || max_bits <= 0 {
		return 0
	}

	for i := 0; i+spb <= len(samples) && nbits < max_bits; i += spb {
		var bit, level = demodulate_bit(samples[i:i+spb], rx.threshold)
		bit_set(bits, nbits, bit)
		rx.last_level = level
		nbits++
	}
	return nbits
}
