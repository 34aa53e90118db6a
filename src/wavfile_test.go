package soundtun

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWavRoundTrip(t *testing.T) {
	var cfg = default_modem_config()
	var path = filepath.Join(t.TempDir(), "tone.wav")

	var samples = pure_tone(cfg.Freq0, cfg, 4*cfg.samples_per_bit())

	writer, err := wav_create(path, cfg.SampleRate)
	require.NoError(t, err)
	require.NoError(t, writer.write_samples(samples))
	require.NoError(t, writer.close())

	back, rate, err := wav_read_samples(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.SampleRate, rate)
	require.Len(t, back, len(samples))

	// 16-bit quantisation bounds the round-trip error.
	for i := range samples {
		assert.InDelta(t, float64(samples[i]), float64(back[i]), 2.0/32767, "sample %d", i)
	}
}

func TestWavWriterClipsOutOfRange(t *testing.T) {
	var path = filepath.Join(t.TempDir(), "clip.wav")

	writer, err := wav_create(path, SAMPLE_RATE)
	require.NoError(t, err)
	require.NoError(t, writer.write_samples([]float32{1.5, -1.5, 0}))
	require.NoError(t, writer.close())

	back, _, err := wav_read_samples(path)
	require.NoError(t, err)
	require.Len(t, back, 3)
	assert.InDelta(t, 1.0, float64(back[0]), 1e-3)
	assert.InDelta(t, -1.0, float64(back[1]), 1e-3)
	assert.InDelta(t, 0.0, float64(back[2]), 1e-4)
}

func TestWavReadRejectsGarbage(t *testing.T) {
	var path = filepath.Join(t.TempDir(), "junk.wav")
	require.NoError(t, os.WriteFile(path, []byte("not a wav file at all"), 0o644))

	var _, _, err = wav_read_samples(path)
	assert.Error(t, err)
}

func TestWavReadMissingFile(t *testing.T) {
	var _, _, err = wav_read_samples(filepath.Join(t.TempDir(), "absent.wav"))
	assert.Error(t, err)
}

func TestWavModemRoundTrip(t *testing.T) {
	// Modulate a frame, park it in a WAV file, read it back and
	// demodulate: the audio-file path must be as lossless as the
	// in-memory one, within quantisation.
	var cfg = default_modem_config()
	var path = filepath.Join(t.TempDir(), "frame.wav")

	var payload = []byte{0x13, 0x37, 0x00, 0xFF}
	var frame_buf = make([]byte, MAX_FRAME_LEN)
	var frame_len = protocol_encapsulate(payload, frame_buf)
	require.Greater(t, frame_len, 0)

	var bits = make([]byte, frame_len)
	var nbits = frame_to_bits(frame_buf[:frame_len], bits)

	var tx = modem_tx_create(cfg)
	var samples = make([]float32, nbits*cfg.samples_per_bit())
	tx.modulate(bits, nbits, samples)

	writer, err := wav_create(path, cfg.SampleRate)
	require.NoError(t, err)
	require.NoError(t, writer.write_samples(samples))
	require.NoError(t, writer.close())

	back, _, err := wav_read_samples(path)
	require.NoError(t, err)

	var rx = modem_rx_create(cfg)
	var st = rx_state_create()
	var out = &capture_writer{}

	var demod_bits = make([]byte, len(back)/cfg.samples_per_bit()/8+1)
	var got = rx.demodulate(back, demod_bits, len(demod_bits)*8)
	require.Equal(t, nbits, got)
	require.True(t, st.accept_bits(demod_bits, got, out))

	require.Len(t, out.payloads, 1)
	assert.Equal(t, payload, out.payloads[0])
}
