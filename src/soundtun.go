// Package soundtun carries IP packets over an acoustic channel.
//
// Packets routed by the kernel to a TUN interface are framed, modulated as
// audible FSK tones and played through the speaker.  The peer listens on its
// microphone, demodulates the tones back into a bit stream, hunts for frame
// boundaries and re-injects recovered packets through its own TUN interface.
package soundtun

/* ========== Audio parameters ========== */

/* Sample rate in Hz.  The FSK carriers must stay below SAMPLE_RATE/2. */
const SAMPLE_RATE = 44100

/* Samples transferred to/from the sound device per call.  Bounds latency. */
const AUDIO_FRAMES_PER_BUFFER = 1024

/* ========== FSK modem parameters (physical layer) ========== */

/* Carrier frequency for bit 0, in Hz. */
const FSK_FREQ_0 = 1200

/* Carrier frequency for bit 1, in Hz. */
const FSK_FREQ_1 = 2400

/* Transmitted bits per second. */
const FSK_BAUD_RATE = 1200

/*
 * Samples per transmitted bit.
 *
 * 44100 / 1200 is not an integer; the division truncates to 36 and both the
 * modulator and demodulator use the truncated value, so the system is
 * self-consistent end-to-end but runs ~2% fast relative to a true 1200 baud
 * source.  Interop with a standard 1200 bps FSK modem would need exact
 * symbol timing.
 */
const SAMPLES_PER_BIT = SAMPLE_RATE / FSK_BAUD_RATE

/* ========== Frame parameters (link layer) ========== */

/* Largest payload of one frame, i.e. largest IP packet.  Matches the TUN MTU. */
const MAX_FRAME_PAYLOAD = 1500

/* Number of sync bytes leading a frame. */
const SYNC_LEN = 2

/* The sync byte itself.  0x7E as in HDLC. */
const SYNC_BYTE = 0x7E

/* Size of the big-endian payload length field. */
const LEN_FIELD_BYTES = 2

/* Size of the trailing CRC-16. */
const CRC_BYTES = 2

/* Sync plus length. */
const FRAME_HEADER_LEN = SYNC_LEN + LEN_FIELD_BYTES

/* Largest possible frame: header + payload + CRC. */
const MAX_FRAME_LEN = FRAME_HEADER_LEN + MAX_FRAME_PAYLOAD + CRC_BYTES

/* ========== TUN device ========== */

/* Default TUN interface name, overridable on the command line. */
const TUN_DEV_NAME = "tun0"
