package soundtun

/*------------------------------------------------------------------
 *
 * Purpose:	Link layer frame encapsulation and parsing.
 *
 *		On the wire a frame is:
 *
 *			7E 7E | length (2, big endian) | payload | CRC (2, big endian)
 *
 *		The length field counts payload bytes only.  The CRC-16-CCITT
 *		covers length and payload but not the sync bytes.  There is
 *		no escaping or bit stuffing, so the sync pattern can appear
 *		inside payload or CRC; the receiver copes by checking the
 *		length field before the CRC and by resuming its hunt past a
 *		sync that fails either check.
 *
 *------------------------------------------------------------------*/

import (
	"encoding/binary"
)

/*-------------------------------------------------------------
 *
 * Name:	protocol_encapsulate
 *
 * Purpose:	Wrap one IP packet in a frame.
 *
 * Inputs:	payload		- The IP packet, 1 to MAX_FRAME_PAYLOAD bytes.
 *
 * Outputs:	frame_out	- Receives the frame.  Must hold at least
 *				  FRAME_HEADER_LEN + len(payload) + CRC_BYTES.
 *
 * Returns:	Frame length in bytes, or 0 if the payload is empty or
 *		oversize.
 *
 *--------------------------------------------------------------*/

func protocol_encapsulate(payload []byte, frame_out []byte) int {
	var payload_len = len(payload)

	if payload_len <= 0 || payload_len > MAX_FRAME_PAYLOAD {
		return 0
	}
	if len(frame_out) < FRAME_HEADER_LEN+payload_len+CRC_BYTES {
		return 0
	}

	for i := 0; i < SYNC_LEN; i++ {
		frame_out[i] = SYNC_BYTE
	}

	binary.BigEndian.PutUint16(frame_out[SYNC_LEN:], uint16(payload_len))

	copy(frame_out[FRAME_HEADER_LEN:], payload)

	/* CRC over length and payload, not the sync bytes. */
	var c = crc16(frame_out[SYNC_LEN : FRAME_HEADER_LEN+payload_len])
	binary.BigEndian.PutUint16(frame_out[FRAME_HEADER_LEN+payload_len:], c)

	return FRAME_HEADER_LEN + payload_len + CRC_BYTES
}

/*-------------------------------------------------------------
 *
 * Name:	protocol_decapsulate
 *
 * Purpose:	Validate a frame and extract its payload.
 *
 * Inputs:	frame		- Frame bytes starting at the sync field.
 *
 * Outputs:	payload_out	- Receives the payload.
 *
 * Returns:	Payload length, or -1 if the frame is short, the length
 *		field is out of range, the destination is too small or
 *		the CRC does not match.
 *
 * Description:	The sync field is not re-verified here.  The caller only
 *		reaches this point after a successful bit-level sync
 *		hunt, and the sync bytes are not CRC protected anyway.
 *
 *--------------------------------------------------------------*/

func protocol_decapsulate(frame []byte, payload_out []byte) int {
	if len(frame) < FRAME_HEADER_LEN+CRC_BYTES {
		return -1
	}

	var payload_len = int(binary.BigEndian.Uint16(frame[SYNC_LEN:]))
	if payload_len <= 0 || payload_len > MAX_FRAME_PAYLOAD {
		return -1
	}
	if len(frame) < FRAME_HEADER_LEN+payload_len+CRC_BYTES {
		return -1
	}
	if len(payload_out) < payload_len {
		return -1
	}

	var crc_computed = crc16(frame[SYNC_LEN : FRAME_HEADER_LEN+payload_len])
	var crc_stored = binary.BigEndian.Uint16(frame[FRAME_HEADER_LEN+payload_len:])
	if crc_computed != crc_stored {
		return -1
	}

	copy(payload_out, frame[FRAME_HEADER_LEN:FRAME_HEADER_LEN+payload_len])
	return payload_len
}

/*-------------------------------------------------------------
 *
 * Name:	protocol_find_sync
 *
 * Purpose:	Hunt for the frame sync pattern at any bit alignment.
 *
 * Inputs:	bits	- Packed bit stream from the demodulator.
 *		nbits	- Number of valid bits.
 *
 * Returns:	Bit index of the first position where SYNC_LEN
 *		consecutive bytes equal SYNC_BYTE, or -1 if the pattern
 *		does not occur.
 *
 * Description:	The result is a bit index, not a byte index.  The
 *		receiver's first valid bit lands wherever the previous
 *		frame (or noise) left the buffer, so sync must be found
 *		without any byte alignment assumption.
 *
 *--------------------------------------------------------------*/

func protocol_find_sync(bits []byte, nbits int) int {
	var need_bits = SYNC_LEN * 8

	if nbits < need_bits {
		return -1
	}

	var pattern [SYNC_LEN]byte
	for i := 0; i <= nbits-need_bits; i++ {
		bits_to_bytes(bits, i, SYNC_LEN, pattern[:])
		var hit = true
		for j := 0; j < SYNC_LEN; j++ {
			if pattern[j] != SYNC_BYTE {
				hit = false
				break
			}
		}
		if hit {
			return i
		}
	}
	return -1
}
