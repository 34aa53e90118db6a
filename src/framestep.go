package soundtun

/*------------------------------------------------------------------
 *
 * Name:	framestep
 *
 * Purpose:	Stepwise debug tool.  Runs each stage of the transmit
 *		chain independently, persisting the intermediate
 *		artefacts to disk so they can be inspected one hop at a
 *		time:
 *
 *		  framestep --create [tun_name]   create the TUN, verify, exit
 *		  framestep --read [tun_name]     read one packet -> output/ip.bin
 *		  framestep --encapsulate         output/ip.bin -> output/frame.bin
 *		  framestep --to-bits             output/frame.bin -> output/bits.bin
 *		  framestep --test                built-in payload through the chain
 *		  framestep [tun_name]            all of the above in sequence
 *
 *		output/bits.bin is accepted by bitstowav, which completes
 *		the offline chain out to a listenable WAV file.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
)

const ip_out_path = "output/ip.bin"
const frame_out_path = "output/frame.bin"
const bits_out_path = "output/bits.bin"

func step_create(tun_name string) error {
	tun, err := tun_open(tun_name)
	if err != nil {
		return fmt.Errorf("creating TUN (root required?): %w", err)
	}
	fmt.Printf("TUN created successfully: %s\n", tun.name)
	return tun.close()
}

func step_read(tun_name string) error {
	tun, err := tun_open(tun_name)
	if err != nil {
		return fmt.Errorf("opening TUN (root required?): %w", err)
	}
	defer tun.close()

	fmt.Printf("Waiting for one IP packet on %s...\n", tun.name)
	var ip_buf = make([]byte, MAX_FRAME_PAYLOAD)
	n, err := tun.Read(ip_buf)
	if err != nil {
		return fmt.Errorf("reading packet: %w", err)
	}

	if err := os.WriteFile(ip_out_path, ip_buf[:n], 0o644); err != nil {
		return err
	}
	fmt.Printf("Read packet: %d bytes -> %s\n", n, ip_out_path)
	fmt.Printf("ip: %s\n", hex_dump(ip_buf[:n]))
	return nil
}

func step_encapsulate() error {
	payload, err := os.ReadFile(ip_out_path)
	if err != nil {
		return fmt.Errorf("reading %s (run --read first): %w", ip_out_path, err)
	}

	var frame_buf = make([]byte, MAX_FRAME_LEN)
	var frame_len = protocol_encapsulate(payload, frame_buf)
	if frame_len <= 0 {
		return fmt.Errorf("encapsulate rejected %d byte payload", len(payload))
	}

	if err := os.WriteFile(frame_out_path, frame_buf[:frame_len], 0o644); err != nil {
		return err
	}
	fmt.Printf("Encapsulated: %d byte payload -> %d byte frame -> %s\n", len(payload), frame_len, frame_out_path)
	fmt.Printf("frame: %s\n", hex_dump(frame_buf[:frame_len]))
	return nil
}

func step_to_bits() error {
	frame, err := os.ReadFile(frame_out_path)
	if err != nil {
		return fmt.Errorf("reading %s (run --encapsulate first): %w", frame_out_path, err)
	}

	var bits_buf = make([]byte, len(frame))
	var nbits = frame_to_bits(frame, bits_buf)

	if err := os.WriteFile(bits_out_path, bits_buf, 0o644); err != nil {
		return err
	}
	fmt.Printf("Converted: %d byte frame -> %d bits -> %s\n", len(frame), nbits, bits_out_path)
	return nil
}

/* Built-in payload through encapsulate and to-bits, no TUN needed. */
func step_test() error {
	var payload = []byte{0x45, 0x00, 0x00, 0x14, 0x01, 0x7E, 0x7E, 0x02, 0xAA, 0x55}
	fmt.Printf("test payload: %s\n", hex_dump(payload))

	if err := os.WriteFile(ip_out_path, payload, 0o644); err != nil {
		return err
	}
	if err := step_encapsulate(); err != nil {
		return err
	}
	return step_to_bits()
}

func FrameStepMain() {
	var create = pflag.Bool("create", false, "Create the TUN interface, verify, exit.")
	var read = pflag.Bool("read", false, "Read one packet from the TUN into "+ip_out_path+".")
	var encapsulate = pflag.Bool("encapsulate", false, "Encapsulate "+ip_out_path+" into "+frame_out_path+".")
	var to_bits = pflag.Bool("to-bits", false, "Convert "+frame_out_path+" into "+bits_out_path+".")
	var test = pflag.Bool("test", false, "Run a built-in payload through the chain, no TUN needed.")
	pflag.Parse()

	var tun_name = TUN_DEV_NAME
	if pflag.NArg() >= 1 {
		tun_name = pflag.Arg(0)
	}

	if err := os.MkdirAll("output", 0o755); err != nil {
		log.Fatal("creating output directory", "err", err)
	}

	var err error
	switch {
	case *create:
		err = step_create(tun_name)
	case *read:
		err = step_read(tun_name)
	case *encapsulate:
		err = step_encapsulate()
	case *to_bits:
		err = step_to_bits()
	case *test:
		err = step_test()
	default:
		/* Full pipeline. */
		err = step_create(tun_name)
		if err == nil {
			err = step_read(tun_name)
		}
		if err == nil {
			err = step_encapsulate()
		}
		if err == nil {
			err = step_to_bits()
		}
	}

	if err != nil {
		log.Fatal("framestep failed", "err", err)
	}
}
