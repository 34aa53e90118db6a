package soundtun

/*------------------------------------------------------------------
 *
 * Purpose:	Receive worker: microphone -> FSK demod -> bit buffer ->
 *		sync hunt -> frame -> TUN.
 *
 *		Demodulated bits accumulate in a packed bit buffer until a
 *		whole frame can be cut out of them.  For each sync hit the
 *		receiver is implicitly in one of two waiting states:
 *		header pending (sync seen, length field not yet complete)
 *		or body pending (length known, rest of the frame not yet
 *		arrived).  In both it consumes nothing and waits for more
 *		audio.  A nonsense length field means the "sync" was
 *		payload or noise; everything up to and including those 16
 *		bits is dropped so the same false positive is not hit
 *		again.  A complete frame is consumed whether or not its
 *		CRC checks out.
 *
 *------------------------------------------------------------------*/

import (
	"encoding/binary"
	"io"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

/* The bit buffer holds four maximum frames' worth of bytes.  Overflow is
 * handled by dropping the oldest half, which may well truncate a frame in
 * progress; the channel is lossy anyway. */
const RX_BIT_BUF_BYTES = MAX_FRAME_LEN * 4
const RX_BIT_BUF_BITS = RX_BIT_BUF_BYTES * 8

type rx_state struct {
	bits      []byte
	bit_count int

	/* Reused frame and payload scratch. */
	frame_buf   []byte
	payload_buf []byte
}

func rx_state_create() *rx_state {
	return &rx_state{
		bits:        make([]byte, RX_BIT_BUF_BYTES),
		frame_buf:   make([]byte, MAX_FRAME_LEN),
		payload_buf: make([]byte, MAX_FRAME_PAYLOAD),
	}
}

/*-------------------------------------------------------------
 *
 * Name:	accept_bits
 *
 * Purpose:	Absorb newly demodulated bits and deliver at most one
 *		complete frame's payload.
 *
 * Inputs:	newbits	- Packed bits from the demodulator.  May be
 *			  empty, which just re-runs the frame hunt over
 *			  what is already buffered.
 *		nbits	- Number of valid bits in newbits.
 *		tun	- Destination for recovered payloads.
 *
 * Returns:	True if a payload was written to tun.
 *
 *--------------------------------------------------------------*/

func (st *rx_state) accept_bits(newbits []byte, nbits int, tun io.Writer) bool {
	if nbits > 0 {
		if st.bit_count+nbits > RX_BIT_BUF_BITS {
			log.Warn("receive bit buffer full, dropping oldest half", "bits", st.bit_count)
			st.bit_count = bits_remove(st.bits, st.bit_count, 0, st.bit_count/2)
		}
		st.bit_count = bits_append(st.bits, st.bit_count, newbits, nbits)
	}

	var sync_pos = protocol_find_sync(st.bits, st.bit_count)
	if sync_pos < 0 {
		return false
	}

	/* Header pending: not enough bits after the sync to read the length. */
	if sync_pos+FRAME_HEADER_LEN*8 > st.bit_count {
		return false
	}

	bits_to_bytes(st.bits, sync_pos, FRAME_HEADER_LEN, st.frame_buf)
	var payload_len = int(binary.BigEndian.Uint16(st.frame_buf[SYNC_LEN:]))
	if payload_len <= 0 || payload_len > MAX_FRAME_PAYLOAD {
		/* False sync.  Skip past it, including the sync pattern itself. */
		log.Debug("spurious sync", "at", sync_pos, "len_field", payload_len)
		st.bit_count = bits_remove(st.bits, st.bit_count, 0, sync_pos+SYNC_LEN*8)
		return false
	}

	/* Body pending: wait until the whole frame has been demodulated. */
	var frame_len_bits = (FRAME_HEADER_LEN + payload_len + CRC_BYTES) * 8
	if sync_pos+frame_len_bits > st.bit_count {
		return false
	}

	bits_to_bytes(st.bits, sync_pos, frame_len_bits/8, st.frame_buf)

	var delivered = false
	var n = protocol_decapsulate(st.frame_buf[:frame_len_bits/8], st.payload_buf)
	if n > 0 {
		debug_hex_dump("rx payload", st.payload_buf[:n])
		if _, err := tun.Write(st.payload_buf[:n]); err != nil {
			log.Error("TUN write failed", "err", err)
		} else {
			delivered = true
		}
	} else {
		log.Debug("frame failed CRC", "at", sync_pos, "payload_len", payload_len)
	}

	/* Consumed either way.  A CRC failure after a false sync inside an
	 * earlier frame's payload resolves itself here: the bits of the real
	 * frame that follow stay buffered and the hunt resumes on them. */
	st.bit_count = bits_remove(st.bits, st.bit_count, sync_pos, frame_len_bits)
	return delivered
}

func rx_worker(running *atomic.Bool, tun io.Writer, audio sample_source, cfg modem_config) {
	var rx = modem_rx_create(cfg)
	var st = rx_state_create()

	/* Read whole bit times only, so the demodulator never drops a tail
	 * between blocks and its windows stay on one grid across reads. */
	var spb = cfg.samples_per_bit()
	var block = (cfg.FramesPerBuffer / spb) * spb
	if block < spb {
		block = spb
	}
	var audio_buf = make([]float32, block)
	var demod_bits = make([]byte, block/spb/8+1)

	for running.Load() {
		n, err := audio.read_samples(audio_buf)
		if err != nil {
			if running.Load() {
				log.Error("audio read failed", "err", err)
			}
			continue
		}
		if n <= 0 {
			continue
		}

		var nbits = rx.demodulate(audio_buf[:n], demod_bits, len(demod_bits)*8)
		if nbits <= 0 {
			continue
		}

		st.accept_bits(demod_bits, nbits, tun)
	}
}
