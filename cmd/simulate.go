package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/calcquiz/internal/question"
	"github.com/abhisek/calcquiz/internal/simulate"
	"github.com/abhisek/calcquiz/internal/ui/components"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <chapter>",
	Short: "Play sessions with a scripted learner and report the outcome",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := simulateConfig(cmd)
		if err != nil {
			return err
		}

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

		rep, err := simulate.Run(cmd.Context(), src, args[0], sc, log)
		if err != nil {
			return err
		}

		fmt.Printf("%-5s  %7s  %7s  %7s  %s\n", "Run", "Served", "Correct", "Average", "")
		for i, r := range rep.Results {
			note := ""
			if r.EndedEarly {
				note = "ended early"
			}
			fmt.Printf("%-5d  %7d  %7d  %7.2f  %s\n", i+1, r.Served, r.CorrectCount(), r.Average, note)
		}
		fmt.Printf("\nMean average over %d runs: %.2f\n\n", len(rep.Results), rep.Mean)

		var rows [][]string
		for _, l := range question.Levels() {
			lt := rep.Tally[l]
			rows = append(rows, []string{strconv.Itoa(int(l)), strconv.Itoa(lt.Correct), strconv.Itoa(lt.Wrong)})
		}
		fmt.Println(components.Table([]string{"Level", "Correct", "Wrong"}, rows))
		return nil
	},
}

// simulateConfig builds the run config from the quiz config and flags.
func simulateConfig(cmd *cobra.Command) (simulate.Config, error) {
	sc := simulate.DefaultConfig()
	sc.Questions = cfg.Quiz.Questions
	sc.ShufflePool = cfg.Quiz.ShufflePool

	flags := cmd.Flags()
	var err error
	if sc.Runs, err = flags.GetInt("runs"); err != nil {
		return sc, err
	}
	if sc.Accuracy, err = flags.GetFloat64("accuracy"); err != nil {
		return sc, err
	}
	if sc.Slope, err = flags.GetFloat64("slope"); err != nil {
		return sc, err
	}
	if sc.SkipRate, err = flags.GetFloat64("skip-rate"); err != nil {
		return sc, err
	}
	if sc.Seed, err = flags.GetUint64("seed"); err != nil {
		return sc, err
	}
	if flags.Changed("questions") {
		if sc.Questions, err = flags.GetInt("questions"); err != nil {
			return sc, err
		}
	}
	return sc, nil
}

func init() {
	def := simulate.DefaultConfig()
	simulateCmd.Flags().Int("runs", def.Runs, "Number of sessions to play")
	simulateCmd.Flags().IntP("questions", "n", def.Questions, "Problems per session (clamped to 15-100)")
	simulateCmd.Flags().Float64("accuracy", def.Accuracy, "Chance of a correct answer at level 3")
	simulateCmd.Flags().Float64("slope", def.Slope, "Accuracy change per level away from 3")
	simulateCmd.Flags().Float64("skip-rate", def.SkipRate, "Chance of skipping a problem")
	simulateCmd.Flags().Uint64("seed", def.Seed, "Random seed")
}
