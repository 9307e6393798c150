package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lmercier/vidtag/internal/config"
	"github.com/lmercier/vidtag/internal/domain"
	"github.com/lmercier/vidtag/internal/organize"
)

func newOrganizeCommand(ctx *appContext) *cobra.Command {
	var tagFlags []string

	cmd := &cobra.Command{
		Use:   "organize <file>",
		Short: "Move a video into the tag-derived folder tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}

			info, err := os.Stat(absPath)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("file does not exist: %s", absPath)
				}
				return fmt.Errorf("inspect file: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("%s is a directory", absPath)
			}
			if !domain.IsVideo(absPath) {
				return fmt.Errorf("%s is not a recognized video file", absPath)
			}

			video := domain.Video{
				Path:    absPath,
				Name:    filepath.Base(absPath),
				Size:    info.Size(),
				ModTime: info.ModTime(),
			}

			org := organize.New(ctx.logger)
			result, err := org.Organize(ctx.cfg.DestinationFolder, video, tagFlags)
			if err != nil {
				return err
			}

			for _, tag := range result.Tags {
				ctx.cfg.TagUsage[tag]++
			}
			if err := config.Save(ctx.cfg); err != nil {
				ctx.logger.Warn("failed to persist usage counts", "error", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s -> %s\n", video.Name, result.Destination)
			if result.Renamed {
				fmt.Fprintln(cmd.OutOrStdout(), "A file with the same name existed; the moved file was suffixed.")
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&tagFlags, "tag", "t", nil, "Tag to apply (repeatable)")
	return cmd
}
