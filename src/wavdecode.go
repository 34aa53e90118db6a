package soundtun

/*------------------------------------------------------------------
 *
 * Name:	wavdecode
 *
 * Purpose:	Offline decoder: WAV file -> FSK demod -> frames ->
 *		recovered payloads on stdout.
 *
 *		The file is fed through the same demodulator and receive
 *		state machine as live audio, in the same whole-bit blocks
 *		the receive worker reads, so a capture of a real
 *		transmission decodes exactly as the daemon would have
 *		decoded it.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
)

/* io.Writer that prints each recovered payload instead of injecting it. */
type payload_printer struct {
	count int
}

func (p *payload_printer) Write(buf []byte) (int, error) {
	p.count++
	fmt.Printf("payload %d (%d bytes): %s\n", p.count, len(buf), hex_dump(buf))
	return len(buf), nil
}

func WavDecodeMain() {
	var config_path = pflag.StringP("config", "c", "", "YAML modem configuration file.")
	var verbose = pflag.BoolP("verbose", "v", false, "Enable debug logging.")
	pflag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	if pflag.NArg() != 1 {
		log.Fatal("usage: wavdecode <input.wav>")
	}

	cfg, err := load_modem_config(*config_path)
	if err != nil {
		log.Fatal("bad modem configuration", "err", err)
	}

	samples, rate, err := wav_read_samples(pflag.Arg(0))
	if err != nil {
		log.Fatal("reading WAV", "err", err)
	}
	if rate != cfg.SampleRate {
		log.Warn("WAV sample rate differs from modem configuration", "wav", rate, "modem", cfg.SampleRate)
	}

	var rx = modem_rx_create(cfg)
	var st = rx_state_create()
	var out = &payload_printer{}
	var spb = cfg.samples_per_bit()
	var block = (cfg.FramesPerBuffer / spb) * spb
	if block < spb {
		block = spb
	}
	var demod_bits = make([]byte, block/spb/8+1)

	for i := 0; i < len(samples); i += block {
		var end = i + block
		if end > len(samples) {
			end = len(samples)
		}
		var nbits = rx.demodulate(samples[i:end], demod_bits, len(demod_bits)*8)
		if nbits <= 0 {
			continue
		}
		st.accept_bits(demod_bits, nbits, out)
	}

	/* End of file: keep hunting over what is buffered until nothing moves. */
	for {
		var before = st.bit_count
		st.accept_bits(nil, 0, out)
		if st.bit_count == before {
			break
		}
	}

	log.Info("decode complete", "samples", len(samples), "payloads", out.count)
}
