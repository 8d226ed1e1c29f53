package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCaptions()
	c.normalizeQC()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ReportDB) == "" {
		c.Paths.ReportDB = defaultReportDB
	}
	if c.Paths.ReportDB, err = expandPath(c.Paths.ReportDB); err != nil {
		return fmt.Errorf("paths.report_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeCaptions() {
	c.Captions.Mode = strings.ToLower(strings.TrimSpace(c.Captions.Mode))
	if c.Captions.Mode == "" {
		c.Captions.Mode = defaultCaptionsMode
	}
	c.Captions.VerbatimPolicy = strings.ToLower(strings.TrimSpace(c.Captions.VerbatimPolicy))
	c.Captions.Profile = strings.ToLower(strings.TrimSpace(c.Captions.Profile))
	if c.Captions.Profile == "" {
		c.Captions.Profile = defaultProfile
	}
}

func (c *Config) normalizeQC() {
	c.QC.Mode = strings.ToLower(strings.TrimSpace(c.QC.Mode))
	if c.QC.Mode == "" {
		c.QC.Mode = defaultQCMode
	}
	if c.QC.DriftAvgMaxSeconds <= 0 {
		c.QC.DriftAvgMaxSeconds = defaultDriftAvgMaxSec
	}
	if c.QC.DriftMaxMaxSeconds <= 0 {
		c.QC.DriftMaxMaxSeconds = defaultDriftMaxMaxSec
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
