package soundtun

/*------------------------------------------------------------------
 *
 * Purpose:	FSK modulator: convert a packed bit stream into audio
 *		samples for the sound device or a WAV file.
 *
 *		Bit 0 is a sine at Freq0, bit 1 a sine at Freq1, each bit
 *		lasting samples_per_bit() samples.  The two carriers keep
 *		independent phase accumulators so the waveform of a
 *		carrier is continuous across bit boundaries of the same
 *		symbol.  A 0->1 transition starts from wherever the
 *		1-carrier's own phase currently stands, not from the end
 *		phase of the 0-carrier.
 *
 *		With the default parameters 2400 Hz is an exact harmonic
 *		of 1200 Hz.  The truncated 36-sample bit is slightly
 *		shorter than one 1200 Hz cycle (36.75 samples), so each
 *		carrier's phase at a bit boundary shifts from bit to bit
 *		and boundaries do not in general fall on zero crossings.
 *
 *------------------------------------------------------------------*/

import (
	"math"
)

type modem_tx struct {
	cfg    modem_config
	phase0 float64 /* current 0-carrier phase, radians */
	phase1 float64 /* current 1-carrier phase, radians */
}

func modem_tx_create(cfg modem_config) *modem_tx {
	return &modem_tx{cfg: cfg}
}

/*-------------------------------------------------------------
 *
 * Name:	gen_sine
 *
 * Purpose:	Emit one bit time of sine wave and advance the carrier
 *		phase.
 *
 * Inputs:	freq		- Carrier frequency in Hz.
 *		sample_rate	- Samples per second.
 *		amplitude	- Peak sample value.
 *		phase_inout	- Carrier phase accumulator.
 *
 * Outputs:	out		- Receives len(out) samples.
 *
 * Description:	The phase is folded back into [0, 2pi) after each bit
 *		so the accumulator cannot drift into the range where
 *		float64 loses sub-sample precision.
 *
 *--------------------------------------------------------------*/

func gen_sine(freq float64, sample_rate int, amplitude float64, out []float32, phase_inout *float64) {
	var phase = *phase_inout
	var step = 2.0 * math.Pi * freq / float64(sample_rate)

	for i := range out {
		out[i] = float32(amplitude * math.Sin(phase))
		phase += step
	}

	for phase >= 2.0*math.Pi {
		phase -= 2.0 * math.Pi
	}
	for phase < 0 {
		phase += 2.0 * math.Pi
	}
	*phase_inout = phase
}

/*-------------------------------------------------------------
 *
 * Name:	modulate
 *
 * Purpose:	Modulate a packed bit stream into audio samples.
 *
 * Inputs:	bits	- Packed bits, MSB first.
 *		nbits	- Number of valid bits.
 *
 * Outputs:	out_buf	- Receives the samples.  Must hold at least
 *			  nbits * samples_per_bit().
 *
 * Returns:	Number of samples produced: exactly
 *		nbits * samples_per_bit(), or 0 for an empty input.
 *
 *--------------------------------------------------------------*/

func (tx *modem_tx) modulate(bits []byte, nbits int, out_buf []float32) int {
	if nbits <= 0 {
		return 0
	}

	var spb = tx.cfg.samples_per_bit()
	var out_idx = 0

	for bit_idx := 0; bit_idx < nbits; bit_idx++ {
		var out = out_buf[out_idx : out_idx+spb]
		if bit_get(bits, bit_idx) != 0 {
			gen_sine(float64(tx.cfg.Freq1), tx.cfg.SampleRate, tx.cfg.Amplitude, out, &tx.phase1)
		} else {
			gen_sine(float64(tx.cfg.Freq0), tx.cfg.SampleRate, tx.cfg.Amplitude, out, &tx.phase0)
		}
		out_idx += spb
	}
	return out_idx
}
