package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lmercier/vidtag/internal/library"
)

func newThumbsCommand(ctx *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "thumbs",
		Short: "Pre-generate thumbnails for every video in the source folders",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, index, err := ctx.openCache()
			if err != nil {
				return err
			}
			defer index.Close()

			videos := library.Scan(ctx.cfg.SourceFolders, ctx.logger)
			if len(videos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No videos found.")
				return nil
			}

			var generated, cached, failed int
			for _, video := range videos {
				if _, ok := cache.Lookup(video); ok {
					cached++
					continue
				}
				if _, err := cache.Ensure(video); err != nil {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "  failed: %s (%v)\n", video.Name, err)
					continue
				}
				generated++
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d generated, %d cached, %d failed (%d total)\n",
				generated, cached, failed, len(videos))
			return nil
		},
	}
}
