package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/calcquiz/internal/loader"
)

var importCmd = &cobra.Command{
	Use:   "import <content-dir>",
	Short: "Copy chapters from a content directory into the SQLite question bank",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		only, err := cmd.Flags().GetString("chapter")
		if err != nil {
			return err
		}

		log, err := newLogger(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer log.Sync()

		dir := loader.NewDir(args[0], loader.WithLogger(log))
		chapters, err := dir.ListChapters(ctx)
		if err != nil {
			return err
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		imported := 0
		for _, ch := range chapters {
			if only != "" && ch.Key != only {
				continue
			}
			pools, err := dir.LoadPools(ctx, ch.Key)
			if err != nil {
				return err
			}
			n, err := s.ImportChapter(ctx, ch, pools)
			if err != nil {
				return err
			}
			fmt.Printf("%-20s  %d problems\n", ch.Key, n)
			imported++
		}
		if only != "" && imported == 0 {
			return fmt.Errorf("%w: %q", loader.ErrChapterNotFound, only)
		}
		fmt.Printf("Imported %d chapter(s).\n", imported)
		return nil
	},
}

func init() {
	importCmd.Flags().String("chapter", "", "Import only this chapter key")
}
