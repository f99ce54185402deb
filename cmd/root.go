package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/abhisek/calcquiz/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "calcquiz",
	Short: "Adaptive calculus practice in the terminal",
	Long: `calcquiz serves multiple-choice calculus problems whose difficulty follows
your answers. The first three problems ramp through levels 2, 3 and 4; after
that each problem is picked from how you did so far.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the CLI. Ctrl+C cancels the command's context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a calcquiz.yaml config file")
	rootCmd.PersistentFlags().String("db", "", "Path to the SQLite question bank (implies --source sqlite)")
	rootCmd.PersistentFlags().String("content", "", "Content directory with chapters.json (implies --source dir)")
	rootCmd.PersistentFlags().String("source", "", "Where chapters come from: dir or sqlite")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(chaptersCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// stringFlags reads several string flags into their destinations.
func stringFlags(cmd *cobra.Command, dst map[string]*string) error {
	for name, p := range dst {
		v, err := cmd.Flags().GetString(name)
		if err != nil {
			return err
		}
		*p = v
	}
	return nil
}

// loadConfig reads the config file and environment, then applies the
// persistent flag overrides.
func loadConfig(cmd *cobra.Command) error {
	var path, src, dir, db string
	err := stringFlags(cmd, map[string]*string{"config": &path, "source": &src, "content": &dir, "db": &db})
	if err != nil {
		return err
	}

	c, err := config.Load(path)
	if err != nil {
		return err
	}

	if src != "" {
		c.Source.Type = src
	}
	if dir != "" {
		c.Source.Type = config.SourceDir
		c.Source.Dir = dir
	}
	if db != "" {
		c.Source.DB = db
		if !cmd.Flags().Changed("content") {
			c.Source.Type = config.SourceSQLite
		}
	}
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c
	return nil
}
