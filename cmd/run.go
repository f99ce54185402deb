package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/calcquiz/internal/app"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start the quiz (same as running calcquiz with no command)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func init() {
	playCmd.Flags().IntP("questions", "n", 0, "Default number of problems (clamped to 15-100)")
	playCmd.Flags().Bool("shuffle-choices", false, "Shuffle answer options")
}

// runApp opens the content source and launches the TUI.
func runApp(cmd *cobra.Command) error {
	log, err := newLogger(nil)
	if err != nil {
		return err
	}
	defer log.Sync()

	src, closeSrc, err := openSource(log)
	if err != nil {
		return err
	}
	defer closeSrc()

	opts := app.Options{
		Chapters:       src,
		Loader:         src,
		Logger:         log,
		Questions:      cfg.Quiz.Questions,
		ShufflePool:    cfg.Quiz.ShufflePool,
		ShuffleChoices: cfg.Quiz.ShuffleChoices,
	}
	if err := applyPlayFlags(cmd, &opts); err != nil {
		return err
	}

	log.Info("starting TUI", zap.String("source", cfg.Source.Type), zap.Int("questions", opts.Questions))
	return app.Run(opts)
}

// applyPlayFlags overrides config values with flags set on the command
// line. The root command runs the quiz without defining them.
func applyPlayFlags(cmd *cobra.Command, opts *app.Options) error {
	flags := cmd.Flags()
	if f := flags.Lookup("questions"); f != nil && f.Changed {
		n, err := flags.GetInt("questions")
		if err != nil {
			return err
		}
		opts.Questions = n
	}
	if f := flags.Lookup("shuffle-choices"); f != nil && f.Changed {
		shuffle, err := flags.GetBool("shuffle-choices")
		if err != nil {
			return err
		}
		opts.ShuffleChoices = shuffle
	}
	return nil
}
