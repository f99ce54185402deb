package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/calcquiz/internal/question"
)

var chaptersCmd = &cobra.Command{
	Use:   "chapters",
	Short: "List chapters and their problem counts per level",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		src, closeSrc, err := openSource(zap.NewNop())
		if err != nil {
			return err
		}
		defer closeSrc()

		chapters, err := src.ListChapters(ctx)
		if err != nil {
			return fmt.Errorf("list chapters: %w", err)
		}
		if len(chapters) == 0 {
			fmt.Println("No chapters found.")
			return nil
		}

		fmt.Printf("%-20s  %-32s  %4s  %4s  %4s  %4s  %4s  %5s\n",
			"Key", "Title", "L1", "L2", "L3", "L4", "L5", "Total")
		fmt.Println(strings.Repeat("─", 90))
		for _, ch := range chapters {
			pools, err := src.LoadPools(ctx, ch.Key)
			if err != nil {
				fmt.Printf("%-20s  %-32s  error: %v\n", ch.Key, truncate(ch.Title, 32), err)
				continue
			}
			fmt.Printf("%-20s  %-32s", ch.Key, truncate(ch.Title, 32))
			for _, l := range question.Levels() {
				fmt.Printf("  %4d", len(pools[l]))
			}
			fmt.Printf("  %5d\n", pools.Count())
		}
		return nil
	},
}
