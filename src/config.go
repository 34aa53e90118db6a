package soundtun

/*------------------------------------------------------------------
 *
 * Purpose:	Modem configuration.
 *
 *		The defaults reproduce the compiled-in parameters and are
 *		what both ends normally run.  A YAML file can override
 *		them for experiments with other carrier pairs or baud
 *		rates; both ends must of course agree.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type modem_config struct {
	SampleRate      int     `yaml:"sample_rate"`
	BaudRate        int     `yaml:"baud_rate"`
	Freq0           int     `yaml:"freq_0"`
	Freq1           int     `yaml:"freq_1"`
	Amplitude       float64 `yaml:"amplitude"`
	FramesPerBuffer int     `yaml:"frames_per_buffer"`
}

func default_modem_config() modem_config {
	return modem_config{
		SampleRate:      SAMPLE_RATE,
		BaudRate:        FSK_BAUD_RATE,
		Freq0:           FSK_FREQ_0,
		Freq1:           FSK_FREQ_1,
		Amplitude:       0.3,
		FramesPerBuffer: AUDIO_FRAMES_PER_BUFFER,
	}
}

/* Samples per bit, truncated.  See the SAMPLES_PER_BIT comment. */
func (c modem_config) samples_per_bit() int {
	return c.SampleRate / c.BaudRate
}

func (c modem_config) validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", c.SampleRate)
	}
	if c.BaudRate <= 0 {
		return fmt.Errorf("baud_rate must be positive, got %d", c.BaudRate)
	}
	if c.samples_per_bit() < 2 {
		return fmt.Errorf("baud_rate %d too fast for sample_rate %d", c.BaudRate, c.SampleRate)
	}
	if c.Freq0 <= 0 || c.Freq1 <= 0 {
		return fmt.Errorf("carrier frequencies must be positive, got %d and %d", c.Freq0, c.Freq1)
	}
	if c.Freq0*2 >= c.SampleRate || c.Freq1*2 >= c.SampleRate {
		return fmt.Errorf("carrier frequencies %d/%d must stay below half the sample rate %d", c.Freq0, c.Freq1, c.SampleRate)
	}
	if c.Freq0 == c.Freq1 {
		return fmt.Errorf("carrier frequencies must differ, both are %d", c.Freq0)
	}
	if c.Amplitude <= 0 || c.Amplitude > 1.0 {
		return fmt.Errorf("amplitude must be in (0, 1], got %g", c.Amplitude)
	}
	if c.FramesPerBuffer <= 0 {
		return fmt.Errorf("frames_per_buffer must be positive, got %d", c.FramesPerBuffer)
	}
	return nil
}

/*-------------------------------------------------------------
 *
 * Name:	load_modem_config
 *
 * Purpose:	Read a YAML modem configuration file.
 *
 * Inputs:	path	- File to read.  Empty means defaults only.
 *
 * Returns:	The configuration with unset fields at their defaults,
 *		or an error if the file is unreadable, malformed or
 *		fails validation.
 *
 *--------------------------------------------------------------*/

func load_modem_config(path string) (modem_config, error) {
	var cfg = default_modem_config()

	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading modem config: %w", err)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing modem config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("modem config %s: %w", path, err)
	}

	return cfg, nil
}
