package soundtun

/*------------------------------------------------------------------
 *
 * Purpose:	Program entry: open the TUN interface and the sound
 *		device, run the two pipeline workers, shut down cleanly
 *		on SIGINT.
 *
 *		Startup failures are fatal with exit status 1.  Once the
 *		workers are running, every failure is absorbed and the
 *		user-visible symptom is packet loss, nothing more.
 *
 *------------------------------------------------------------------*/

import (
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
)

/* Mirrors transmitted samples into a WAV file alongside the speaker. */
type tee_sink struct {
	primary sample_sink
	tap     sample_sink
}

func (t *tee_sink) write_samples(buf []float32) error {
	if err := t.tap.write_samples(buf); err != nil {
		log.Error("transmit dump write failed", "err", err)
	}
	return t.primary.write_samples(buf)
}

/*-------------------------------------------------------------
 *
 * Name:	SoundtunMain
 *
 * Purpose:	Main program for the soundtun daemon.
 *
 * Usage:	soundtun [flags] [tun_name]
 *
 *		The optional positional argument overrides the TUN
 *		interface name (default tun0).  Creating the interface
 *		needs root or CAP_NET_ADMIN.
 *
 *--------------------------------------------------------------*/

func SoundtunMain() {
	var config_path = pflag.StringP("config", "c", "", "YAML modem configuration file.")
	var dump_tx = pflag.String("dump-tx", "", "Mirror transmitted audio into this WAV file.")
	var verbose = pflag.BoolP("verbose", "v", false, "Enable debug logging.")
	pflag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	cfg, err := load_modem_config(*config_path)
	if err != nil {
		log.Fatal("bad modem configuration", "err", err)
	}

	var tun_name = TUN_DEV_NAME
	if pflag.NArg() >= 1 {
		tun_name = pflag.Arg(0)
	}

	log.Info("opening TUN interface", "name", tun_name)
	tun, err := tun_open(tun_name)
	if err != nil {
		log.Fatal("failed to open TUN (root required?)", "err", err)
	}

	log.Info("initializing audio", "sample_rate", cfg.SampleRate, "baud", cfg.BaudRate)
	audio, err := audio_init(cfg)
	if err != nil {
		_ = tun.close()
		log.Fatal("failed to initialize audio", "err", err)
	}

	var sink sample_sink = audio
	var dump *wav_writer
	if *dump_tx != "" {
		dump, err = wav_create(*dump_tx, cfg.SampleRate)
		if err != nil {
			audio.close()
			_ = tun.close()
			log.Fatal("failed to create transmit dump", "err", err)
		}
		sink = &tee_sink{primary: audio, tap: dump}
	}

	var running atomic.Bool
	running.Store(true)

	var sigs = make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Info("shutting down")
		running.Store(false)
	}()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		tx_worker(&running, tun, sink, cfg)
	}()
	go func() {
		defer wg.Done()
		rx_worker(&running, tun, audio, cfg)
	}()

	log.Info("running, press Ctrl+C to stop")
	for running.Load() {
		time.Sleep(1 * time.Second)
	}

	/* Workers notice the flag at their next loop head; a TX worker
	 * parked in a TUN read stays there until traffic arrives. */
	wg.Wait()

	if dump != nil {
		if err := dump.close(); err != nil {
			log.Error("closing transmit dump", "err", err)
		}
	}
	audio.close()
	if err := tun.close(); err != nil {
		log.Error("closing TUN", "err", err)
	}
	log.Info("exited")
}
