package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/null-create/toolwatch/pkg/cache"
	"github.com/null-create/toolwatch/pkg/config"
	"github.com/null-create/toolwatch/pkg/db"
	"github.com/null-create/toolwatch/pkg/store"
	"github.com/null-create/toolwatch/pkg/toolwatch"
)

type checkReport struct {
	ToolName   string               `json:"tool_name"`
	ChangeType toolwatch.ChangeType `json:"change_type"`
	Severity   toolwatch.Severity   `json:"severity"`
	DetectedAt string               `json:"detected_at"`
}

func newCheckCmd() *cobra.Command {
	var (
		tool        string
		schemaFile  string
		samplesFile string
		toolVersion string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a tool against its stored baseline and report any mutations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			dir := stateDir(cmd)

			current, err := fingerprintFromFiles(tool, schemaFile, samplesFile, toolVersion)
			if err != nil {
				return err
			}

			st := store.NewStore(dir)
			reg, err := st.LoadRegistry()
			if err != nil {
				return err
			}

			// With a shared cache configured, a baseline published by
			// another checker stands in for a missing local one.
			var shared *cache.BaselineCache
			if cfg.RedisAddr != "" {
				shared = cache.NewBaselineCache(cfg.RedisAddr, cfg.RedisPassword, 0)
				defer shared.Close()
				if _, ok := reg.GetBaseline(tool); !ok {
					if fp, err := shared.GetBaseline(tool); err == nil && fp != nil {
						reg.AddBaseline(*fp)
					}
				}
			}

			alert := reg.Check(tool, current)
			if err := st.SaveRegistry(reg); err != nil {
				return err
			}
			if shared != nil {
				if baseline, ok := reg.GetBaseline(tool); ok {
					if err := shared.SetBaseline(baseline, 0); err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "warning: baseline cache update failed: %v\n", err)
					}
				}
			}

			if alert != nil && cfg.MongoURI != "" {
				if err := archiveAlert(cfg.MongoURI, *alert); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: alert archive failed: %v\n", err)
				}
			}

			if alert == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "No mutation detected for tool '%s'.\n", tool)
				return nil
			}

			// Display filtering is a consumer concern: the mutation is
			// recorded either way.
			watchCfg, err := config.LoadWatchConfig(dir)
			if err != nil {
				return err
			}
			if !watchCfg.AlertsOn(alert.ChangeType) {
				fmt.Fprintf(cmd.OutOrStdout(),
					"Mutation detected for tool '%s' (%s) but suppressed by watch config.\n",
					tool, alert.ChangeType)
				return nil
			}

			return printJSON(cmd, checkReport{
				ToolName:   alert.ToolName,
				ChangeType: alert.ChangeType,
				Severity:   alert.Severity,
				DetectedAt: alert.DetectedAt.Format(time.RFC3339),
			})
		},
	}

	cmd.Flags().StringVar(&tool, "tool", "", "name of the tool to check")
	cmd.Flags().StringVar(&schemaFile, "schema", "", "path to a JSON file containing the current tool schema")
	cmd.Flags().StringVar(&samplesFile, "samples", "", "path to a JSON file containing an array of current sample responses")
	cmd.Flags().StringVar(&toolVersion, "version", toolwatch.DefaultVersion, "version string for the tool")
	_ = cmd.MarkFlagRequired("tool")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}

func archiveAlert(mongoURI string, alert toolwatch.Alert) error {
	archive, err := db.NewAlertArchive(mongoURI, "toolwatch", "alerts")
	if err != nil {
		return err
	}
	defer archive.Close()
	return archive.InsertAlert(alert)
}
