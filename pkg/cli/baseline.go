package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/null-create/toolwatch/pkg/store"
	"github.com/null-create/toolwatch/pkg/toolwatch"
)

func newBaselineCmd() *cobra.Command {
	var (
		tool        string
		schemaFile  string
		samplesFile string
		toolVersion string
	)

	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Capture and store a baseline fingerprint for a tool",
		RunE: func(cmd *cobra.Command, args []string) error {
			fp, err := fingerprintFromFiles(tool, schemaFile, samplesFile, toolVersion)
			if err != nil {
				return err
			}

			st := store.NewStore(stateDir(cmd))
			reg, err := st.LoadRegistry()
			if err != nil {
				return err
			}
			reg.AddBaseline(fp)
			if err := st.SaveRegistry(reg); err != nil {
				return err
			}

			return printJSON(cmd, fp)
		},
	}

	cmd.Flags().StringVar(&tool, "tool", "", "name of the tool to baseline")
	cmd.Flags().StringVar(&schemaFile, "schema", "", "path to a JSON file containing the tool's schema")
	cmd.Flags().StringVar(&samplesFile, "samples", "", "path to a JSON file containing an array of sample responses")
	cmd.Flags().StringVar(&toolVersion, "version", toolwatch.DefaultVersion, "version string for the tool")
	_ = cmd.MarkFlagRequired("tool")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}

// fingerprintFromFiles reads schema (and optionally samples) from disk
// and captures a fingerprint. The core boundary decoders reject
// documents whose top level is not a mapping.
func fingerprintFromFiles(tool, schemaFile, samplesFile, version string) (toolwatch.Fingerprint, error) {
	raw, err := os.ReadFile(schemaFile)
	if err != nil {
		return toolwatch.Fingerprint{}, fmt.Errorf("read schema file: %w", err)
	}
	schema, err := toolwatch.DecodeSchema(raw)
	if err != nil {
		return toolwatch.Fingerprint{}, err
	}

	var samples []map[string]any
	if samplesFile != "" {
		raw, err := os.ReadFile(samplesFile)
		if err != nil {
			return toolwatch.Fingerprint{}, fmt.Errorf("read samples file: %w", err)
		}
		samples, err = toolwatch.DecodeSamples(raw)
		if err != nil {
			return toolwatch.Fingerprint{}, err
		}
	}

	return toolwatch.NewFingerprint(tool, schema, samples, version), nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
