package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCaptions(); err != nil {
		return err
	}
	if err := c.validateQC(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateCaptions() error {
	switch c.Captions.Mode {
	case "auto", "asr", "heuristic":
	default:
		return fmt.Errorf("captions.mode must be auto, asr, or heuristic (got %q)", c.Captions.Mode)
	}
	switch c.Captions.VerbatimPolicy {
	case "", "script", "audio":
	default:
		return fmt.Errorf("captions.verbatim_policy must be empty, script, or audio (got %q)", c.Captions.VerbatimPolicy)
	}
	if c.Captions.MaxCharsPerLine < 0 {
		return errors.New("captions.max_chars_per_line must not be negative")
	}
	if c.Captions.MaxWordsPerCue < 0 {
		return errors.New("captions.max_words_per_cue must not be negative")
	}
	return nil
}

func (c *Config) validateQC() error {
	switch c.QC.Mode {
	case "warn", "strict", "broadcast":
	default:
		return fmt.Errorf("qc.mode must be warn, strict, or broadcast (got %q)", c.QC.Mode)
	}
	if c.QC.DriftAvgMaxSeconds > c.QC.DriftMaxMaxSeconds {
		return errors.New("qc.drift_avg_max_seconds must not exceed qc.drift_max_max_seconds")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	return nil
}
