package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"techsprint/internal/captions"
	"techsprint/internal/services"
	"techsprint/internal/transcriber"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var (
		scriptPath     string
		audioPath      string
		transcriptPath string
		profile        string
		mode           string
		verbatim       string
		styledOutput   bool
		outDir         string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate broadcast-compliant captions for a narration",
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
			if mode != "" {
				cfg.Captions.Mode = mode
			}
			if cmd.Flags().Changed("verbatim") {
				cfg.Captions.VerbatimPolicy = verbatim
			}
			if styledOutput {
				cfg.Captions.StyledOutput = true
			}

			scriptText, err := os.ReadFile(scriptPath)
			if err != nil {
				return fmt.Errorf("read script: %w", err)
			}

			var stt transcriber.Transcriber = transcriber.Unavailable{}
			if transcriptPath != "" {
				stt = transcriber.NewJSONFile(transcriptPath)
			}

			engine, err := captions.NewEngine(cfg, logger, stt)
			if err != nil {
				return err
			}

			release, err := ctx.lockWorkspace()
			if err != nil {
				return err
			}
			defer release()

			runCtx := services.WithStage(services.WithRunID(cmd.Context(), ctx.runID), "generate")
			artifact, err := engine.Generate(runCtx, captions.Request{
				ScriptText: string(scriptText),
				AudioPath:  audioPath,
				OutputDir:  outDir,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %s (%d cues, source %s)\n", artifact.Path, artifact.CueCount, artifact.Source)
			if artifact.StyledPath != "" {
				fmt.Fprintf(out, "Wrote %s\n", artifact.StyledPath)
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Metric", "Value"},
				[][]string{
					{"Cue count", fmt.Sprintf("%d", artifact.CueCount)},
					{"Min duration", fmt.Sprintf("%.2fs", artifact.Stats.Min)},
					{"Max duration", fmt.Sprintf("%.2fs", artifact.Stats.Max)},
					{"Avg duration", fmt.Sprintf("%.2fs", artifact.Stats.Avg)},
					{"Layout", layoutLabel(artifact.LayoutOK)},
					{"Text digest", artifact.TextDigest[:12]},
				},
				[]columnAlignment{alignLeft, alignRight},
			))
			if len(artifact.Repairs) > 0 {
				fmt.Fprintf(out, "Repairs: %s\n", strings.Join(artifact.Repairs, "; "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&scriptPath, "script", "", "Path to the narration script text")
	cmd.Flags().StringVar(&audioPath, "audio", "", "Path to the narration audio")
	cmd.Flags().StringVar(&transcriptPath, "transcript", "", "Path to a whisper-style transcript JSON")
	cmd.Flags().StringVar(&profile, "profile", "", "Render profile (tiktok, reels, shorts)")
	cmd.Flags().StringVar(&mode, "mode", "", "Cue builder mode (auto, asr, heuristic)")
	cmd.Flags().StringVar(&verbatim, "verbatim", "", "Verbatim policy (script or audio)")
	cmd.Flags().BoolVar(&styledOutput, "ass", false, "Also write a styled ASS file")
	cmd.Flags().StringVar(&outDir, "out", "", "Output directory (defaults to configured output_dir)")
	_ = cmd.MarkFlagRequired("script")
	_ = cmd.MarkFlagRequired("audio")

	return cmd
}

func layoutLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "exceeds safe area"
}
