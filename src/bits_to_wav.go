package soundtun

/*------------------------------------------------------------------
 *
 * Name:	bitstowav
 *
 * Purpose:	Offline modulator: packed bit file -> FSK -> WAV file.
 *
 *		The input file is raw bytes, eight bits per byte, high
 *		bit first, same as the on-air convention.  With --test a
 *		built-in pattern is modulated instead: the sync pair
 *		followed by alternating 00/55/AA/FF filler, long enough
 *		to hear the two tones switching.
 *
 *		The output pairs with wavdecode for audio-file round
 *		trips without a sound card.
 *
 *------------------------------------------------------------------*/

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
)

const test_pattern_bytes = 1024

func bits_to_wav_test_pattern() []byte {
	var bits = make([]byte, test_pattern_bytes)
	bits[0] = SYNC_BYTE
	bits[1] = SYNC_BYTE
	for i := 2; i < test_pattern_bytes; i++ {
		switch i % 4 {
		case 2:
			bits[i] = 0x55
		case 3:
			bits[i] = 0xAA
		case 0:
			bits[i] = 0x00
		default:
			bits[i] = 0xFF
		}
	}
	return bits
}

func BitsToWavMain() {
	var test = pflag.Bool("test", false, "Modulate the built-in test pattern to output/test.wav.")
	var config_path = pflag.StringP("config", "c", "", "YAML modem configuration file.")
	pflag.Parse()

	cfg, err := load_modem_config(*config_path)
	if err != nil {
		log.Fatal("bad modem configuration", "err", err)
	}

	var bits []byte
	var out_path string

	if *test {
		bits = bits_to_wav_test_pattern()
		out_path = "output/test.wav"
		if err := os.MkdirAll("output", 0o755); err != nil {
			log.Fatal("creating output directory", "err", err)
		}
	} else {
		if pflag.NArg() != 2 {
			log.Fatal("usage: bitstowav <input.bin> <output.wav>  (or --test)")
		}
		bits, err = os.ReadFile(pflag.Arg(0))
		if err != nil {
			log.Fatal("reading bit file", "err", err)
		}
		if len(bits) == 0 {
			log.Fatal("bit file is empty", "path", pflag.Arg(0))
		}
		out_path = pflag.Arg(1)
	}

	var nbits = len(bits) * 8
	var tx = modem_tx_create(cfg)
	var samples = make([]float32, nbits*cfg.samples_per_bit())
	var nsamples = tx.modulate(bits, nbits, samples)

	writer, err := wav_create(out_path, cfg.SampleRate)
	if err != nil {
		log.Fatal("creating WAV", "err", err)
	}
	if err := writer.write_samples(samples[:nsamples]); err != nil {
		log.Fatal("writing WAV", "err", err)
	}
	if err := writer.close(); err != nil {
		log.Fatal("closing WAV", "err", err)
	}

	log.Info("modulated", "bits", nbits, "samples", nsamples, "file", out_path)
}
