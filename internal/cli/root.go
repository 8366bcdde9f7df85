package cli

import (
	"github.com/spf13/cobra"

	"github.com/ivlev/mapmovie/internal/config"
	"github.com/ivlev/mapmovie/internal/logging"
	"github.com/ivlev/mapmovie/internal/system"
)

var (
	verbose  bool
	logger   *logging.Logger
	settings config.Config
)

var rootCmd = &cobra.Command{
	Use:   "mapmovie",
	Short: "Render synchronized solar map sequences into a movie",
	Long: `mapmovie chunks an observation interval into time windows and renders
one or more sequences of solar maps side by side into a single movie.

Input sequences can be directories of images, PDF pages or binned photon lists.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		settings = cfg
		logger = logging.NewLogger(verbose || cfg.Verbose)
		system.InitResourceLimits(logger)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}
