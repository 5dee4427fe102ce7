// Package cli implements the display-demo command line.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/phanxgames/display"
)

var rootCmd = &cobra.Command{
	Use:   "display-demo",
	Short: "Run a frame-loop demo scene on any display backend",
	Long: `display-demo opens a display on the chosen backend (headless, gl, ebiten
or term), adds a few animated sprites and runs the frame loop until the frame
limit is reached or the window is closed. Frame statistics are printed on exit.`,
	SilenceUsage: true,
}

var configPath string

func init() {
	rootCmd.Version = display.Version
	rootCmd.SetVersionTemplate("display-demo version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (toml, yaml or json)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
