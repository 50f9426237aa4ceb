package cmd

import (
	"fmt"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

var openCmd = &cobra.Command{
	Use:       "open <config|feed> [short]",
	Short:     "Open the config file or a generated feed with the system handler",
	Args:      cobra.RangeArgs(1, 2),
	ValidArgs: []string{"config", "feed"},
	RunE: func(cmd *cobra.Command, args []string) error {
		quietLog()

		path, err := openTarget(args)
		if err != nil {
			return err
		}

		if err := browser.OpenFile(path); err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
}

func openTarget(args []string) (string, error) {
	switch args[0] {
	case "config":
		return cfgFile, nil
	case "feed":
		if len(args) < 2 {
			return "", fmt.Errorf("usage: bano open feed <short>")
		}
		cs, err := openStore()
		if err != nil {
			return "", err
		}
		cfg, err := cs.Load()
		if err != nil {
			return "", err
		}
		out, ok := cfg.Output(args[1])
		if !ok {
			return "", fmt.Errorf("no output with short code %q", args[1])
		}
		return out.ArtifactPath(), nil
	default:
		return "", fmt.Errorf("unknown target: %s", args[0])
	}
}
