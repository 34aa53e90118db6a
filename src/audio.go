package soundtun

/*------------------------------------------------------------------
 *
 * Purpose:	Sound device access through PortAudio.
 *
 *		The default input and output devices are opened as two
 *		independent mono float32 streams at the configured sample
 *		rate.  The input stream is owned by the receive worker and
 *		the output stream by the transmit worker, so no locking is
 *		needed between them.
 *
 *		Input overflow and output underflow happen routinely when
 *		the rest of the system hiccups.  Both are absorbed: the
 *		call reports success and the next call proceeds normally.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

/*
 * The workers talk to these, not to the device type, so the offline
 * tools and the tests can substitute files and synthetic signals.
 */

type sample_source interface {
	read_samples(buf []float32) (int, error)
}

type sample_sink interface {
	write_samples(buf []float32) error
}

type audio_device struct {
	stream_in  *portaudio.Stream
	stream_out *portaudio.Stream

	/* Transfer buffers registered with PortAudio.  Reslicing before a
	   transfer sets how many frames that transfer moves. */
	in_buf  []float32
	out_buf []float32
}

/*-------------------------------------------------------------
 *
 * Name:	audio_init
 *
 * Purpose:	Initialize PortAudio and open the default input and
 *		output devices.
 *
 * Returns:	Device handle, or an error if either stream cannot be
 *		opened and started.  Failure here is fatal at startup;
 *		there is no point running without sound.
 *
 *--------------------------------------------------------------*/

func audio_init(cfg modem_config) (*audio_device, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initializing PortAudio: %w", err)
	}

	var a = &audio_device{
		in_buf:  make([]float32, cfg.FramesPerBuffer),
		out_buf: make([]float32, cfg.FramesPerBuffer),
	}

	stream_in, err := portaudio.OpenDefaultStream(1, 0, float64(cfg.SampleRate), cfg.FramesPerBuffer, &a.in_buf)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("opening default input stream: %w", err)
	}
	a.stream_in = stream_in

	stream_out, err := portaudio.OpenDefaultStream(0, 1, float64(cfg.SampleRate), cfg.FramesPerBuffer, &a.out_buf)
	if err != nil {
		_ = stream_in.Close()
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("opening default output stream: %w", err)
	}
	a.stream_out = stream_out

	if err := a.stream_in.Start(); err != nil {
		a.close()
		return nil, fmt.Errorf("starting input stream: %w", err)
	}
	if err := a.stream_out.Start(); err != nil {
		a.close()
		return nil, fmt.Errorf("starting output stream: %w", err)
	}

	return a, nil
}

/*-------------------------------------------------------------
 *
 * Name:	read_samples
 *
 * Purpose:	Read len(buf) samples from the microphone, blocking
 *		until they are available.
 *
 * Returns:	Number of samples read.  Input overflow is absorbed.
 *
 *--------------------------------------------------------------*/

func (a *audio_device) read_samples(buf []float32) (int, error) {
	a.in_buf = buf
	var err = a.stream_in.Read()
	if err != nil && err != portaudio.InputOverflowed {
		return 0, fmt.Errorf("reading audio: %w", err)
	}
	return len(buf), nil
}

/*-------------------------------------------------------------
 *
 * Name:	write_samples
 *
 * Purpose:	Write samples to the speaker, blocking on device
 *		backpressure.
 *
 * Returns:	nil on success.  Output underflow is absorbed.
 *
 *--------------------------------------------------------------*/

func (a *audio_device) write_samples(buf []float32) error {
	a.out_buf = buf
	var err = a.stream_out.Write()
	if err != nil && err != portaudio.OutputUnderflowed {
		return fmt.Errorf("writing audio: %w", err)
	}
	return nil
}

func (a *audio_device) close() {
	if a.stream_in != nil {
		_ = a.stream_in.Stop()
		_ = a.stream_in.Close()
		a.stream_in = nil
	}
	if a.stream_out != nil {
		_ = a.stream_out.Stop()
		_ = a.stream_out.Close()
		a.stream_out = nil
	}
	_ = portaudio.Terminate()
}
