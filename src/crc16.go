package soundtun

/*------------------------------------------------------------------
 *
 * Purpose:	CRC-16-CCITT over the length field and payload of a frame.
 *
 *		Polynomial 0x1021, initial value 0xFFFF, most significant
 *		bit first, no reflection, no final XOR.
 *
 *------------------------------------------------------------------*/

import (
	"github.com/snksoft/crc"
)

var crc16_params = &crc.Parameters{
	Width:      16,
	Polynomial: 0x1021,
	Init:       0xFFFF,
	ReflectIn:  false,
	ReflectOut: false,
	FinalXor:   0x0,
}

/*-------------------------------------------------------------
 *
 * Name:	crc16
 *
 * Purpose:	Compute the CRC-16-CCITT of a byte range.
 *
 * Inputs:	data	- Input bytes.  May be empty.
 *
 * Returns:	16-bit CRC register value.  Empty input returns the
 *		initial value 0xFFFF.
 *
 *--------------------------------------------------------------*/

func crc16(data []byte) uint16 {
	return uint16(crc.CalculateCRC(crc16_params, data))
}
