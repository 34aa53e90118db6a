package soundtun

/*------------------------------------------------------------------
 *
 * Purpose:	WAV file input and output.
 *
 *		Files are 16-bit PCM mono at the modem sample rate.  The
 *		writer doubles as a sample_sink so the transmit path can
 *		be pointed at a file instead of (or as well as) the sound
 *		device; the reader feeds the offline decoder.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

type wav_writer struct {
	file    *os.File
	encoder *wav.Encoder

	/* Reused conversion buffer. */
	ints []int
}

/*-------------------------------------------------------------
 *
 * Name:	wav_create
 *
 * Purpose:	Create a WAV file for writing samples.
 *
 * Inputs:	path		- Output file.  Truncated if it exists.
 *		sample_rate	- Samples per second.
 *
 *--------------------------------------------------------------*/

func wav_create(path string, sample_rate int) (*wav_writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}

	return &wav_writer{
		file:    file,
		encoder: wav.NewEncoder(file, sample_rate, 16, 1, 1),
	}, nil
}

/* Clip to [-1, 1] and scale to 16-bit PCM. */
func (w *wav_writer) write_samples(buf []float32) error {
	if cap(w.ints) < len(buf) {
		w.ints = make([]int, len(buf))
	}
	w.ints = w.ints[:len(buf)]

	for i, f := range buf {
		if f > 1.0 {
			f = 1.0
		}
		if f < -1.0 {
			f = -1.0
		}
		w.ints[i] = int(f * 32767)
	}

	var err = w.encoder.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: w.encoder.SampleRate},
		Data:           w.ints,
		SourceBitDepth: 16,
	})
	if err != nil {
		return fmt.Errorf("writing WAV samples: %w", err)
	}
	return nil
}

/* Close finalizes the header.  A wav_writer left unclosed is unreadable. */
func (w *wav_writer) close() error {
	if err := w.encoder.Close(); err != nil {
		_ = w.file.Close()
		return fmt.Errorf("finalizing WAV: %w", err)
	}
	return w.file.Close()
}

/*-------------------------------------------------------------
 *
 * Name:	wav_read_samples
 *
 * Purpose:	Load a whole WAV file as float samples in [-1, 1].
 *
 * Inputs:	path	- File to read.
 *
 * Returns:	Samples, sample rate, or an error for a missing or
 *		malformed file.  Stereo input is rejected.
 *
 *--------------------------------------------------------------*/

func wav_read_samples(path string) ([]float32, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	var decoder = wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return nil, 0, fmt.Errorf("%s is not a valid WAV file", path)
	}

	pcm, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decoding %s: %w", path, err)
	}
	if pcm.Format.NumChannels != 1 {
		return nil, 0, fmt.Errorf("%s has %d channels, want mono", path, pcm.Format.NumChannels)
	}

	var scale = float32(int(1) << (decoder.BitDepth - 1))
	var samples = make([]float32, len(pcm.Data))
	for i, v := range pcm.Data {
		samples[i] = float32(v) / scale
	}

	return samples, pcm.Format.SampleRate, nil
}
