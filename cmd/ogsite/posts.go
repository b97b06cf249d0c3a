package main

import (
	"encoding/json"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/eringen/ogsite"
	"github.com/eringen/ogsite/content"
	"github.com/eringen/ogsite/ogimage"
	"github.com/eringen/ogsite/views"
)

func newPostsCmd(c *cli) *cobra.Command {
	var (
		topic  string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:     "posts",
		Aliases: []string{"ls"},
		Short:   "List published posts and files that failed to load",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			site := ogsite.New(c.settings, views.Default()).Config
			posts, failures, err := ogsite.LoadPosts(site.ContentDir, content.WithLogger(c.logger))
			if err != nil {
				return err
			}
			if topic != "" {
				var filtered []ogsite.BlogPost
				for _, p := range posts {
					if ogimage.TopicName(p.Topic) == ogimage.TopicName(topic) {
						filtered = append(filtered, p)
					}
				}
				posts = filtered
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(ogsite.NewSearchIndex(posts))
			}

			table := tablewriter.NewTable(cmd.OutOrStdout(),
				tablewriter.WithConfig(tablewriter.Config{
					Row: tw.CellConfig{
						Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
						Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
					},
					Header: tw.CellConfig{
						Formatting: tw.CellFormatting{AutoFormat: tw.On},
						Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
					},
				}),
				tablewriter.WithRendition(tw.Rendition{Borders: tw.BorderNone}),
			)
			table.Header([]string{"Slug", "Title", "Topic", "Date", "Read"})
			for _, p := range posts {
				if err := table.Append([]string{
					p.Slug,
					p.Title,
					ogimage.TopicName(p.Topic),
					ogimage.FormatDate(p.Date),
					strconv.Itoa(p.ReadTime) + " min",
				}); err != nil {
					return err
				}
			}
			if err := table.Render(); err != nil {
				return err
			}

			warn := color.New(color.FgYellow)
			for _, f := range failures {
				warn.Fprintf(cmd.ErrOrStderr(), "⚠ skipped %s: %v\n", f.Path, f.Err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&topic, "topic", "", "only posts of this topic")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the search index document instead of a table")
	return cmd
}
