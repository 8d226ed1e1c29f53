package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"techsprint/internal/media/ffprobe"
	"techsprint/internal/services"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <media>",
		Short: "Probe a media file for duration and stream layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			result, err := ffprobe.Inspect(cmd.Context(), cfg.FFprobeBinary(), args[0])
			if err != nil {
				return services.Wrap(services.ErrDependency, "probe", "inspect", args[0], err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Property", "Value"},
				[][]string{
					{"Duration", fmt.Sprintf("%.3fs", result.DurationSeconds())},
					{"Audio streams", fmt.Sprintf("%d", result.AudioStreamCount())},
					{"Streams", fmt.Sprintf("%d", len(result.Streams))},
				},
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}
}
