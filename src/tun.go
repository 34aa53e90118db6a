package soundtun

/*------------------------------------------------------------------
 *
 * Purpose:	Linux TUN virtual network interface.
 *
 *		The interface is configured in TUN mode (layer 3) with no
 *		packet information header, so a read returns exactly one
 *		IP packet as the kernel routed it and a write injects one
 *		IP packet as if it had been received.
 *
 *		Creating the device needs root or CAP_NET_ADMIN.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

type tun_device struct {
	file *os.File
	name string
}

/*-------------------------------------------------------------
 *
 * Name:	tun_open
 *
 * Purpose:	Create or attach to a named TUN interface.
 *
 * Inputs:	name	- Interface name, e.g. "tun0".
 *
 * Returns:	Device handle, or an error if /dev/net/tun cannot be
 *		opened or the TUNSETIFF ioctl fails.
 *
 *--------------------------------------------------------------*/

func tun_open(name string) (*tun_device, error) {
	fd, err := unix.Open("/dev/net/tun", unix.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("opening /dev/net/tun: %w", err)
	}

	ifr, err := unix.NewIfreq(name)
	if err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("bad interface name %q: %w", name, err)
	}
	ifr.SetUint16(unix.IFF_TUN | unix.IFF_NO_PI)

	if err := unix.IoctlIfreq(fd, unix.TUNSETIFF, ifr); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("TUNSETIFF %s: %w", name, err)
	}

	return &tun_device{
		file: os.NewFile(uintptr(fd), "/dev/net/tun"),
		name: ifr.Name(),
	}, nil
}

/* Read blocks until the kernel routes a packet to the interface.
 * One call returns one whole IP packet. */
func (t *tun_device) Read(buf []byte) (int, error) {
	return t.file.Read(buf)
}

/* Write injects one IP packet into the kernel. */
func (t *tun_device) Write(buf []byte) (int, error) {
	return t.file.Write(buf)
}

func (t *tun_device) close() error {
	return t.file.Close()
}
