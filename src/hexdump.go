package soundtun

/*------------------------------------------------------------------
 *
 * Purpose:	Hex dump of frame and packet contents for debugging.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

/* Format at most the first 64 bytes as "xx xx xx ...". */
func hex_dump(data []byte) string {
	var b strings.Builder
	for i, v := range data {
		if i >= 64 {
			fmt.Fprintf(&b, "... (%d bytes total)", len(data))
			break
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%02x", v)
	}
	return b.String()
}

func debug_hex_dump(tag string, data []byte) {
	log.Debug(tag, "len", len(data), "data", hex_dump(data))
}
