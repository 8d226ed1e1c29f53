package config

const (
	defaultWorkDir        = "~/.local/share/techsprint/work"
	defaultOutputDir      = "~/techsprint"
	defaultLogDir         = "~/.local/share/techsprint/logs"
	defaultReportDB       = "~/.local/share/techsprint/reports.db"
	defaultCaptionsMode   = "auto"
	defaultProfile        = "tiktok"
	defaultQCMode         = "strict"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultDriftAvgMaxSec = 0.8
	defaultDriftMaxMaxSec = 2.0
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:   defaultWorkDir,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
			ReportDB:  defaultReportDB,
		},
		Captions: Captions{
			Mode:    defaultCaptionsMode,
			Profile: defaultProfile,
		},
		QC: QC{
			Mode:               defaultQCMode,
			ArchiveReports:     true,
			DriftAvgMaxSeconds: defaultDriftAvgMaxSec,
			DriftMaxMaxSeconds: defaultDriftMaxMaxSec,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
