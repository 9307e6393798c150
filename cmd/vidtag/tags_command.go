package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lmercier/vidtag/internal/config"
	"github.com/lmercier/vidtag/internal/tags"
)

func newTagsCommand(ctx *appContext) *cobra.Command {
	tagsCmd := &cobra.Command{
		Use:   "tags",
		Short: "List the tag palette in rank order",
		RunE: func(cmd *cobra.Command, args []string) error {
			ranked := tags.Ranked(ctx.cfg.Tags, ctx.cfg.TagUsage)
			if len(ranked) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tags configured.")
				return nil
			}

			rows := make([][]string, 0, len(ranked))
			for i, tag := range ranked {
				section := ""
				if i < tags.TopCount && ctx.cfg.TagUsage[tag] > 0 {
					section = "top"
				}
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					tag,
					strconv.Itoa(ctx.cfg.TagUsage[tag]),
					section,
				})
			}

			out := renderTable(
				[]string{"#", "Tag", "Uses", ""},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft},
			)
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	tagsCmd.AddCommand(newTagsAddCommand(ctx))
	return tagsCmd
}

func newTagsAddCommand(ctx *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a tag to the palette",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			updated, normalized, err := tags.Add(ctx.cfg.Tags, args[0])
			if err != nil {
				return err
			}
			ctx.cfg.Tags = updated
			if err := config.Save(ctx.cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added tag %q\n", normalized)
			return nil
		},
	}
}
