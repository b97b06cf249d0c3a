package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/eringen/ogsite/fonts"
)

func newFontsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fonts",
		Short: "Manage the card fonts",
	}
	var families []string
	preload := &cobra.Command{
		Use:   "preload",
		Short: "Fetch the card fonts and report which loaded",
		Long: `Fetch the card fonts from the fonts endpoint and report the result.

Examples:
  ogsite fonts preload                         # Inter 400, 600 and 800
  ogsite fonts preload --font Inter:400 --font Roboto:700`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := fonts.Inter
			if len(families) > 0 {
				var err error
				if keys, err = parseKeys(families); err != nil {
					return err
				}
			}
			fc := c.fontCache()
			start := time.Now()
			res := fc.Preload(cmd.Context(), keys)

			ok, bad := color.New(color.FgGreen), color.New(color.FgRed)
			for _, k := range res.Loaded {
				ok.Fprintf(cmd.OutOrStdout(), "✓ %s\n", k)
			}
			for _, f := range res.Failed {
				bad.Fprintf(cmd.OutOrStdout(), "✗ %s: %v\n", f.Key, f.Err)
			}
			stats := fc.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "%d loaded, %d failed in %s (%d requests)\n",
				len(res.Loaded), len(res.Failed), time.Since(start).Round(time.Millisecond), stats.Misses)
			if !res.OK() {
				return fmt.Errorf("%d of %d fonts failed to load", len(res.Failed), len(keys))
			}
			return nil
		},
	}
	preload.Flags().StringArrayVar(&families, "font", nil, "family:weight to load, repeatable")
	cmd.AddCommand(preload)
	return cmd
}

func parseKeys(specs []string) ([]fonts.Key, error) {
	keys := make([]fonts.Key, 0, len(specs))
	for _, s := range specs {
		family, w, ok := strings.Cut(s, ":")
		weight, err := strconv.Atoi(w)
		if !ok || family == "" || err != nil {
			return nil, fmt.Errorf("bad font %q, want family:weight", s)
		}
		keys = append(keys, fonts.Key{Family: family, Weight: weight})
	}
	return keys, nil
}
