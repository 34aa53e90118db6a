package soundtun

/*------------------------------------------------------------------
 *
 * Purpose:	Transmit worker: TUN -> frame -> bits -> FSK -> speaker.
 *
 *		One goroutine runs this loop for the life of the process.
 *		Each IP packet read from the TUN interface is modulated in
 *		full before the next is read, so per-packet order holds on
 *		the transmit side.
 *
 *		Failures are never fatal here.  A bad TUN read or an
 *		oversize packet skips that iteration; an audio write
 *		failure abandons the rest of the current frame's samples
 *		but the loop carries on with the next packet.
 *
 *------------------------------------------------------------------*/

import (
	"io"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

func tx_worker(running *atomic.Bool, tun io.Reader, audio sample_sink, cfg modem_config) {
	var spb = cfg.samples_per_bit()

	/* Per-iteration scratch, allocated once and reused. */
	var ip_buf = make([]byte, MAX_FRAME_PAYLOAD)
	var frame_buf = make([]byte, MAX_FRAME_LEN)
	var bits_buf = make([]byte, MAX_FRAME_LEN)
	var samples_buf = make([]float32, MAX_FRAME_LEN*8*spb)

	var tx = modem_tx_create(cfg)

	for running.Load() {
		n, err := tun.Read(ip_buf)
		if err != nil {
			if running.Load() {
				log.Error("TUN read failed", "err", err)
			}
			continue
		}
		if n <= 0 {
			continue
		}

		var frame_len = protocol_encapsulate(ip_buf[:n], frame_buf)
		if frame_len <= 0 {
			log.Warn("dropping packet that does not fit a frame", "len", n)
			continue
		}
		debug_hex_dump("tx frame", frame_buf[:frame_len])

		var nbits = frame_to_bits(frame_buf[:frame_len], bits_buf)
		var nsamples = tx.modulate(bits_buf, nbits, samples_buf)
		if nsamples <= 0 {
			continue
		}
		log.Debug("transmitting frame", "payload", n, "bits", nbits, "samples", nsamples)

		/* Chunked writes bound the blocking latency and give the
		   termination flag a chance to take effect mid-frame. */
		for i := 0; i < nsamples && running.Load(); i += cfg.FramesPerBuffer {
			var end = i + cfg.FramesPerBuffer
			if end > nsamples {
				end = nsamples
			}
			if err := audio.write_samples(samples_buf[i:end]); err != nil {
				log.Error("audio write failed, abandoning frame", "err", err)
				break
			}
		}
	}
}
