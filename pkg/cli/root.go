package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/null-create/toolwatch/pkg/store"
)

// NewRoot builds the toolwatch command tree.
func NewRoot(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "toolwatch",
		Short:         "toolwatch: detect silent drift in tool schemas and response shapes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Version = version
	cmd.SetVersionTemplate("toolwatch {{.Version}}\n")

	cmd.PersistentFlags().String("state-dir",
		getenvDefault("TOOLWATCH_STATE_DIR", store.DefaultDir()),
		"directory holding baselines.json, alerts.json and watch.json")

	cmd.AddCommand(newBaselineCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newAlertsCmd())
	cmd.AddCommand(newTokenCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}

func stateDir(cmd *cobra.Command) string {
	dir, _ := cmd.Root().PersistentFlags().GetString("state-dir")
	if dir == "" {
		dir = store.DefaultDir()
	}
	return dir
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
