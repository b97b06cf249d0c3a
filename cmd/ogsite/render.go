package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/eringen/ogsite"
	"github.com/eringen/ogsite/content"
	"github.com/eringen/ogsite/fonts"
	"github.com/eringen/ogsite/ogimage"
	"github.com/eringen/ogsite/views"
)

func newRenderCmd(c *cli) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render preview cards to PNG files",
		Long: `Render preview cards without starting the server.

Examples:
  ogsite render site                    # Write og-image.png
  ogsite render blog hello-world        # Write hello-world.png
  ogsite render blog hello-world -o -   # Write the PNG to stdout`,
	}
	cmd.PersistentFlags().StringVarP(&output, "output", "o", "", `output file, "-" for stdout`)

	cmd.AddCommand(&cobra.Command{
		Use:   "site",
		Short: "Render the site card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _ := c.cardService()
			png, err := svc.Site(cmd.Context())
			if err != nil {
				return err
			}
			return writeCard(cmd, orDefault(output, "og-image.png"), png)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "blog <slug>",
		Short: "Render the card of one post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, site := c.cardService()
			post, err := c.findPost(site, args[0])
			if err != nil {
				return err
			}
			png, err := svc.Blog(cmd.Context(), ogsite.CardInput(post))
			if err != nil {
				return err
			}
			return writeCard(cmd, orDefault(output, post.Slug+".png"), png)
		},
	})
	return cmd
}

// cardService builds a card renderer configured the way the server's is.
func (c *cli) cardService() (*ogimage.Service, ogsite.SiteConfig) {
	site := ogsite.New(c.settings, views.Default()).Config
	return ogimage.New(c.settings, c.fontCache(),
		ogimage.WithLogoPath(filepath.Join(site.StaticDir, "logo.svg")),
		ogimage.WithLogger(c.logger),
	), site
}

func (c *cli) fontCache() *fonts.Cache {
	opts := []fonts.Option{fonts.WithLogger(c.logger)}
	if u := c.settings.Server.FontsURL; u != "" {
		opts = append(opts, fonts.WithEndpoint(u))
	}
	return fonts.New(opts...)
}

func (c *cli) findPost(site ogsite.SiteConfig, slug string) (ogsite.BlogPost, error) {
	posts, _, err := ogsite.LoadPosts(site.ContentDir, content.WithLogger(c.logger))
	if err != nil {
		return ogsite.BlogPost{}, err
	}
	for _, p := range posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return ogsite.BlogPost{}, fmt.Errorf("no published post %q in %s", slug, site.ContentDir)
}

func writeCard(cmd *cobra.Command, path string, png []byte) error {
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(png)
		return err
	}
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(cmd.ErrOrStderr(), "✓ wrote %s (%d bytes)\n", path, len(png))
	return nil
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
