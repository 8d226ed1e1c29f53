package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"techsprint/internal/captions"
	"techsprint/internal/captions/layout"
	"techsprint/internal/media/ffprobe"
	"techsprint/internal/qc"
	"techsprint/internal/render"
	"techsprint/internal/reports"
	"techsprint/internal/services"
	"techsprint/internal/transcriber"
)

func newQCCommand(ctx *commandContext) *cobra.Command {
	var (
		captionsPath   string
		audioPath      string
		videoPath      string
		scriptPath     string
		transcriptPath string
		profile        string
		mode           string
	)

	cmd := &cobra.Command{
		Use:   "qc",
		Short: "Validate a caption file against the broadcast thresholds",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			if profile != "" {
				cfg.Captions.Profile = profile
			}
			if mode == "" {
				mode = cfg.QC.Mode
			}

			content, err := os.ReadFile(captionsPath)
			if err != nil {
				return fmt.Errorf("read captions: %w", err)
			}
			cues, err := captions.ParseSRT(string(content))
			if err != nil {
				return err
			}

			geom, err := render.Lookup(cfg.Captions.Profile)
			if err != nil {
				return services.Wrap(services.ErrConfiguration, "qc", "setup", err.Error(), nil)
			}
			limits := captions.DefaultLimits().ForGeometry(geom)
			if cfg.Captions.MaxCharsPerLine > 0 {
				limits.MaxCharsPerLine = cfg.Captions.MaxCharsPerLine
			}
			box := layout.Compute(geom, limits.MaxLines, limits.MaxCharsPerLine)

			runCtx := services.WithStage(services.WithRunID(cmd.Context(), ctx.runID), "qc")
			audioDuration, _ := ffprobe.ProbeDuration(runCtx, cfg.FFprobeBinary(), audioPath)
			videoDuration := 0.0
			if videoPath != "" {
				videoDuration, _ = ffprobe.ProbeDuration(runCtx, cfg.FFprobeBinary(), videoPath)
			}

			scriptText := ""
			if scriptPath != "" {
				data, err := os.ReadFile(scriptPath)
				if err != nil {
					return fmt.Errorf("read script: %w", err)
				}
				scriptText = string(data)
			}

			var segments []transcriber.Segment
			if transcriptPath != "" {
				stt := transcriber.NewJSONFile(transcriptPath)
				segments, err = stt.Transcribe(runCtx, audioPath)
				if err != nil {
					return err
				}
			}

			report, qcErr := qc.Run(qc.Input{
				Mode:           mode,
				Cues:           cues,
				AudioDuration:  audioDuration,
				VideoDuration:  videoDuration,
				ScriptText:     scriptText,
				Segments:       segments,
				Geometry:       geom,
				Limits:         limits,
				Box:            box,
				VerbatimPolicy: cfg.Captions.VerbatimPolicy,
				DriftAvgMax:    cfg.QC.DriftAvgMaxSeconds,
				DriftMaxMax:    cfg.QC.DriftMaxMaxSeconds,
			}, logger)
			if report == nil {
				return qcErr
			}

			reportPath := strings.TrimSuffix(captionsPath, ".srt") + ".qc.json"
			if err := report.WriteJSON(reportPath); err != nil {
				return err
			}

			if cfg.QC.ArchiveReports {
				store, err := reports.Open(cfg)
				if err != nil {
					return err
				}
				defer store.Close()
				if _, err := store.Save(runCtx, ctx.runID, cfg.Captions.Profile, report); err != nil {
					return err
				}
			}

			printReport(cmd, report, reportPath)
			return qcErr
		},
	}

	cmd.Flags().StringVar(&captionsPath, "captions", "", "Path to the SRT caption file")
	cmd.Flags().StringVar(&audioPath, "audio", "", "Path to the narration audio")
	cmd.Flags().StringVar(&videoPath, "video", "", "Path to the rendered video (enables AV delta)")
	cmd.Flags().StringVar(&scriptPath, "script", "", "Path to the narration script (enables overlap and verbatim checks)")
	cmd.Flags().StringVar(&transcriptPath, "transcript", "", "Path to a whisper-style transcript JSON (enables drift)")
	cmd.Flags().StringVar(&profile, "profile", "", "Render profile (tiktok, reels, shorts)")
	cmd.Flags().StringVar(&mode, "mode", "", "QC mode (warn, strict, broadcast)")
	_ = cmd.MarkFlagRequired("captions")
	_ = cmd.MarkFlagRequired("audio")

	return cmd
}

func printReport(cmd *cobra.Command, report *qc.Report, reportPath string) {
	out := cmd.OutOrStdout()
	rows := [][]string{
		{"Mode", report.Mode},
		{"Cue count", fmt.Sprintf("%d", report.CueCount)},
		{"Span ok", fmt.Sprintf("%t", report.SpanOK)},
		{"Layout ok", fmt.Sprintf("%t", report.LayoutOK)},
		{"Violations", fmt.Sprintf("%d", len(report.Violations))},
		{"Warnings", fmt.Sprintf("%d", len(report.Warnings))},
	}
	if report.CPSMax != nil {
		rows = append(rows, []string{"CPS max", fmt.Sprintf("%.2f", *report.CPSMax)})
	}
	if report.MedianSeconds != nil {
		rows = append(rows, []string{"Median duration", fmt.Sprintf("%.2fs", *report.MedianSeconds)})
	}
	if report.Drift != nil {
		rows = append(rows, []string{"Drift avg/max", fmt.Sprintf("%.2fs / %.2fs", report.Drift.AvgSeconds, report.Drift.MaxSeconds)})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Metric", "Value"},
		rows,
		[]columnAlignment{alignLeft, alignRight},
	))
	for _, warning := range report.Warnings {
		fmt.Fprintf(out, "warning: %s\n", warning)
	}
	fmt.Fprintf(out, "Report written to %s\n", reportPath)
}
