package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/null-create/toolwatch/pkg/store"
	"github.com/null-create/toolwatch/pkg/toolwatch"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// Keep checks local: no shared cache, no alert archive.
	t.Setenv("TOOLWATCH_REDIS_ADDR", "")
	t.Setenv("TOOLWATCH_MONGO_URI", "")
	var out bytes.Buffer
	cmd := NewRoot("test")
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestBaselineCommandStoresFingerprint(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.json", `{"type":"object","properties":{"a":{"type":"string"}}}`)

	out, err := runCLI(t, "baseline", "--tool", "weather", "--schema", schema, "--state-dir", dir)
	require.NoError(t, err)

	var fp toolwatch.Fingerprint
	require.NoError(t, json.Unmarshal([]byte(out), &fp))
	assert.Equal(t, "weather", fp.ToolName)
	assert.Len(t, fp.SchemaHash, 64)

	baselines, err := store.NewStore(dir).LoadBaselines()
	require.NoError(t, err)
	require.Len(t, baselines, 1)
	assert.Equal(t, fp.SchemaHash, baselines[0].SchemaHash)
}

func TestBaselineCommandRejectsNonObjectSchema(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.json", `["not","an","object"]`)

	_, err := runCLI(t, "baseline", "--tool", "weather", "--schema", schema, "--state-dir", dir)
	assert.ErrorIs(t, err, toolwatch.ErrInvalidInput)
}

func TestCheckCommandFirstContact(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.json", `{"type":"object"}`)

	out, err := runCLI(t, "check", "--tool", "weather", "--schema", schema, "--state-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No mutation detected for tool 'weather'.")
}

func TestCheckCommandDetectsSchemaChange(t *testing.T) {
	dir := t.TempDir()
	original := writeFile(t, dir, "schema-v1.json", `{"a":{"type":"string"}}`)
	changed := writeFile(t, dir, "schema-v2.json", `{"a":{"type":"string"},"b":{"type":"integer"}}`)

	_, err := runCLI(t, "baseline", "--tool", "weather", "--schema", original, "--state-dir", dir)
	require.NoError(t, err)

	out, err := runCLI(t, "check", "--tool", "weather", "--schema", changed, "--state-dir", dir)
	require.NoError(t, err)

	var report checkReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, toolwatch.SchemaChange, report.ChangeType)
	assert.Equal(t, toolwatch.SeverityMedium, report.Severity)

	alerts, err := store.NewStore(dir).LoadAlerts()
	require.NoError(t, err)
	assert.Len(t, alerts, 1)
}

func TestCheckCommandDetectsResponseChange(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.json", `{"type":"object"}`)
	samplesV1 := writeFile(t, dir, "samples-v1.json", `[{"x":1}]`)
	samplesV2 := writeFile(t, dir, "samples-v2.json", `[{"x":1,"y":"z"}]`)

	_, err := runCLI(t, "baseline", "--tool", "weather", "--schema", schema,
		"--samples", samplesV1, "--state-dir", dir)
	require.NoError(t, err)

	out, err := runCLI(t, "check", "--tool", "weather", "--schema", schema,
		"--samples", samplesV2, "--state-dir", dir)
	require.NoError(t, err)

	var report checkReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, toolwatch.ResponseChange, report.ChangeType)
}

func TestCheckCommandHonorsWatchConfigFilter(t *testing.T) {
	dir := t.TempDir()
	original := writeFile(t, dir, "schema-v1.json", `{"a":1}`)
	changed := writeFile(t, dir, "schema-v2.json", `{"a":2}`)
	writeFile(t, dir, "watch.json", `{"alert_on":["response_change"]}`)

	_, err := runCLI(t, "baseline", "--tool", "weather", "--schema", original, "--state-dir", dir)
	require.NoError(t, err)

	out, err := runCLI(t, "check", "--tool", "weather", "--schema", changed, "--state-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "suppressed by watch config")

	// The mutation is still recorded; only the display is filtered.
	alerts, err := store.NewStore(dir).LoadAlerts()
	require.NoError(t, err)
	assert.Len(t, alerts, 1)
}

func TestAlertsCommandEmptyHistory(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, "alerts", "--state-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No alerts recorded.")
}

func TestAlertsCommandListsAndFilters(t *testing.T) {
	dir := t.TempDir()
	v1 := writeFile(t, dir, "schema-v1.json", `{"a":1}`)
	v2 := writeFile(t, dir, "schema-v2.json", `{"a":2}`)

	_, err := runCLI(t, "baseline", "--tool", "weather", "--schema", v1, "--state-dir", dir)
	require.NoError(t, err)
	_, err = runCLI(t, "check", "--tool", "weather", "--schema", v2, "--state-dir", dir)
	require.NoError(t, err)

	out, err := runCLI(t, "alerts", "--state-dir", dir)
	require.NoError(t, err)

	var alerts []toolwatch.Alert
	require.NoError(t, json.Unmarshal([]byte(out), &alerts))
	require.Len(t, alerts, 1)
	assert.Equal(t, "weather", alerts[0].ToolName)

	out, err = runCLI(t, "alerts", "--tool", "other", "--state-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No alerts recorded.")
}

func TestTokenCommandRequiresSecret(t *testing.T) {
	t.Setenv("TOOLWATCH_JWT_SECRET", "")
	_, err := runCLI(t, "token", "--user", "auditor")
	assert.Error(t, err)
}
