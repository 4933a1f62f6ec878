package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/null-create/toolwatch/pkg/store"
	"github.com/null-create/toolwatch/pkg/toolwatch"
)

func newAlertsCmd() *cobra.Command {
	var tool string

	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "List all recorded mutation alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := store.NewStore(stateDir(cmd))
			alerts, err := st.LoadAlerts()
			if err != nil {
				return err
			}

			if tool != "" {
				filtered := make([]toolwatch.Alert, 0, len(alerts))
				for _, a := range alerts {
					if a.ToolName == tool {
						filtered = append(filtered, a)
					}
				}
				alerts = filtered
			}

			if len(alerts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No alerts recorded.")
				return nil
			}
			return printJSON(cmd, alerts)
		},
	}

	cmd.Flags().StringVar(&tool, "tool", "", "only show alerts for this tool")

	return cmd
}
