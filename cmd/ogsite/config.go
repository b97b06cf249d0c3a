package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eringen/ogsite/config"
)

func newConfigCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the merged configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "print",
		Short: "Print the merged configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := c.resolver.Tree()
			if err != nil {
				return err
			}
			out, err := config.Marshal(tree)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# environment: %s\n", c.resolver.Environment())
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "get <path>",
		Short: "Print one value by dotted path, e.g. theme.blog.tech",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := c.resolver.Tree()
			if err != nil {
				return err
			}
			n, ok := config.Lookup(tree, args[0])
			if !ok {
				return fmt.Errorf("no config value at %q", args[0])
			}
			if s, ok := n.(config.Scalar); ok {
				fmt.Fprintln(cmd.OutOrStdout(), s.Value)
				return nil
			}
			out, err := config.Marshal(n)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	})
	return cmd
}
