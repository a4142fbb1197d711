// Command hitomi is a small CLI over the client library: search the index,
// inspect gallery metadata, list tags and resolve image download URLs.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hitogo/hitomi"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hitomi",
		Short:         "Client for the hitomi.la gallery service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSearchCmd(), newGalleryCmd(), newURLCmd(), newTagsCmd())
	return root
}

func newSearchCmd() *cobra.Command {
	var (
		title      string
		popularity string
		start, end int
	)
	cmd := &cobra.Command{
		Use:   "search [tag expression]",
		Short: "Search gallery ids by tags and title words",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := hitomi.NewClient()
			if err != nil {
				return err
			}

			query := hitomi.SearchQuery{
				Title:      title,
				Popularity: hitomi.PopularityPeriod(popularity),
			}
			if len(args) == 1 && args[0] != "" {
				tags, err := hitomi.ParseTags(args[0])
				if err != nil {
					return err
				}
				query.Tags = tags
			}
			if start > 0 || end > 0 {
				query.Range = &hitomi.IDRange{Start: start, End: end}
			}

			ids, err := client.GalleryIDs(cmd.Context(), query)
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			slog.Info("search finished", "results", len(ids))
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "title words to match")
	cmd.Flags().StringVar(&popularity, "popularity", "", "order by popularity: day, week, month or year")
	cmd.Flags().IntVar(&start, "start", 0, "result offset")
	cmd.Flags().IntVar(&end, "end", 0, "result end position (0 = unbounded)")
	return cmd
}

func newGalleryCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "gallery <id>",
		Short: "Show gallery metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("gallery id %q: %w", args[0], err)
			}
			client, err := hitomi.NewClient()
			if err != nil {
				return err
			}
			g, err := client.Gallery(cmd.Context(), id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(g)
			}

			fmt.Fprintf(out, "%s (%d)\n", g.Title.Display, g.ID)
			fmt.Fprintf(out, "type: %s  language: %s  files: %d\n", g.Type, g.LanguageName.English, len(g.Files))
			for _, tag := range g.Tags {
				fmt.Fprintf(out, "tag: %s:%s\n", tag.Type, tag.Name)
			}
			fmt.Fprintln(out, "page:", hitomi.GalleryURI(g))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full record as JSON")
	return cmd
}

func newURLCmd() *cobra.Command {
	var (
		extension string
		thumbnail bool
		small     bool
	)
	cmd := &cobra.Command{
		Use:   "url <gallery-id>",
		Short: "Resolve download URLs for a gallery's images",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("gallery id %q: %w", args[0], err)
			}
			client, err := hitomi.NewClient()
			if err != nil {
				return err
			}

			if err := client.Resolver().SynchronizeContext(cmd.Context()); err != nil {
				return err
			}
			g, err := client.Gallery(cmd.Context(), id)
			if err != nil {
				return err
			}

			opts := hitomi.ImageURLOptions{IsThumbnail: thumbnail, IsSmall: small}
			for _, img := range g.Files {
				u, err := client.Resolver().ImageURL(img, hitomi.Extension(extension), opts)
				if err != nil {
					slog.Warn("skipping image", "name", img.Name, "err", err)
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), u)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&extension, "extension", "webp", "image extension: webp, avif or jxl")
	cmd.Flags().BoolVar(&thumbnail, "thumbnail", false, "resolve thumbnail URLs")
	cmd.Flags().BoolVar(&small, "small", false, "resolve small thumbnails (avif only)")
	return cmd
}

func newTagsCmd() *cobra.Command {
	var startsWith string
	cmd := &cobra.Command{
		Use:   "tags <type>",
		Short: "List tags of one category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := hitomi.NewClient()
			if err != nil {
				return err
			}
			tags, err := client.Tags(cmd.Context(), args[0], startsWith)
			if err != nil {
				return err
			}
			for _, tag := range tags {
				fmt.Fprintf(cmd.OutOrStdout(), "%s:%s\n", tag.Type, tag.Name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&startsWith, "starts-with", "", "first letter, or 0-9")
	return cmd
}
