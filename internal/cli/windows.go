package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivlev/mapmovie/internal/report"
	"github.com/ivlev/mapmovie/internal/timeslice"
)

var windowsCmd = &cobra.Command{
	Use:   "windows",
	Short: "Print the time windows an interval is chunked into",
	Long: `Chunk [start, end] into windows of the given exposure, one every step.
If the last window does not reach end, a shorter window is appended.

Examples:
  mapmovie windows --start 2024-05-14T17:00:00Z --end 2024-05-14T17:10:00Z --step 30s --exposure 60s
  mapmovie windows --start ... --end ... --step 1m --exposure 1m -f xlsx -o windows.xlsx`,
	Args: cobra.NoArgs,
	RunE: runWindows,
}

func init() {
	rootCmd.AddCommand(windowsCmd)

	windowsCmd.Flags().String("start", "", "Interval start (RFC 3339)")
	windowsCmd.Flags().String("end", "", "Interval end (RFC 3339)")
	windowsCmd.Flags().Duration("step", 0, "Time between window starts (e.g. 30s)")
	windowsCmd.Flags().Duration("exposure", 0, "Window length (e.g. 1m)")
	windowsCmd.Flags().
		StringP("format", "f", "text", "Output format (text, yaml, xlsx)")
	windowsCmd.Flags().
		StringP("output", "o", "", "Output file path (default stdout)")

	for _, name := range []string{"start", "end", "step", "exposure"} {
		_ = windowsCmd.MarkFlagRequired(name)
	}
}

func runWindows(cmd *cobra.Command, args []string) error {
	startStr, _ := cmd.Flags().GetString("start")
	endStr, _ := cmd.Flags().GetString("end")
	step, _ := cmd.Flags().GetDuration("step")
	exposure, _ := cmd.Flags().GetDuration("exposure")
	formatStr, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")

	start, err := time.Parse(time.RFC3339Nano, startStr)
	if err != nil {
		return fmt.Errorf("invalid --start: %w", err)
	}
	end, err := time.Parse(time.RFC3339Nano, endStr)
	if err != nil {
		return fmt.Errorf("invalid --end: %w", err)
	}
	format, err := report.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	if format == report.FormatXLSX && outputPath == "" {
		return fmt.Errorf("xlsx output needs --output")
	}

	windows, err := timeslice.MakeTimeSlices(start, end, step, exposure)
	if err != nil {
		return err
	}
	if span, ok := timeslice.Span(windows); ok {
		logger.Debugw("Windows computed", "count", len(windows), "span", span, "step", step, "exposure", exposure)
	}

	var out io.Writer = cmd.OutOrStdout()
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	if err := report.Write(out, format, windows); err != nil {
		return fmt.Errorf("write windows: %w", err)
	}
	if outputPath != "" {
		logger.Infow("Windows written", "output", outputPath, "count", len(windows), "format", format)
	}
	return nil
}
