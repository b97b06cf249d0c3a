// Command ogsite serves the blog and renders its preview cards.
package main

import (
	"os"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	os.Exit(execute())
}

func execute() int {
	c := &cli{}
	defer c.close()
	if err := c.rootCmd().Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}
	return 0
}
