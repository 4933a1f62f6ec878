package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/null-create/toolwatch/pkg/toolwatch"
)

func testFingerprint(tool, schemaSeed string) toolwatch.Fingerprint {
	return toolwatch.NewFingerprint(tool, map[string]any{"seed": schemaSeed}, nil, "1.0.0")
}

func TestLoadBaselinesMissingFile(t *testing.T) {
	s := NewStore(t.TempDir())
	baselines, err := s.LoadBaselines()
	require.NoError(t, err)
	assert.Empty(t, baselines)
}

func TestSaveAndLoadBaselines(t *testing.T) {
	s := NewStore(t.TempDir())
	want := []toolwatch.Fingerprint{
		testFingerprint("alpha", "a"),
		testFingerprint("beta", "b"),
	}

	require.NoError(t, s.SaveBaselines(want))

	got, err := s.LoadBaselines()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, want[0].SchemaHash, got[0].SchemaHash)
	assert.True(t, want[0].CapturedAt.Equal(got[0].CapturedAt))
}

func TestSaveBaselinesCreatesStateDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	s := NewStore(dir)

	require.NoError(t, s.SaveBaselines([]toolwatch.Fingerprint{testFingerprint("t", "s")}))

	_, err := os.Stat(filepath.Join(dir, "baselines.json"))
	assert.NoError(t, err)
}

func TestAppendAlertsAccumulates(t *testing.T) {
	s := NewStore(t.TempDir())

	old := testFingerprint("t", "s1")
	first := toolwatch.DetectMutation(old, testFingerprint("t", "s2"))
	second := toolwatch.DetectMutation(old, testFingerprint("t", "s3"))
	require.NotNil(t, first)
	require.NotNil(t, second)

	require.NoError(t, s.AppendAlerts([]toolwatch.Alert{*first}))
	require.NoError(t, s.AppendAlerts([]toolwatch.Alert{*second}))

	alerts, err := s.LoadAlerts()
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, first.NewFingerprint.SchemaHash, alerts[0].NewFingerprint.SchemaHash)
	assert.Equal(t, second.NewFingerprint.SchemaHash, alerts[1].NewFingerprint.SchemaHash)
}

func TestAppendAlertsNoopOnEmpty(t *testing.T) {
	s := NewStore(t.TempDir())
	require.NoError(t, s.AppendAlerts(nil))

	_, err := os.Stat(filepath.Join(s.Dir(), "alerts.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestLoadRegistryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	fp := testFingerprint("gamma", "g")
	reg := toolwatch.NewWatchRegistry()
	reg.AddBaseline(fp)
	require.NoError(t, s.SaveRegistry(reg))

	loaded, err := NewStore(dir).LoadRegistry()
	require.NoError(t, err)

	got, ok := loaded.GetBaseline("gamma")
	require.True(t, ok)
	assert.Equal(t, fp.SchemaHash, got.SchemaHash)
	assert.Empty(t, loaded.GetAlerts(), "alert history stays on disk")
}

func TestSaveRegistryPersistsNewAlerts(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	reg := toolwatch.NewWatchRegistry()
	require.Nil(t, reg.Check("t", testFingerprint("t", "s1")))
	require.NotNil(t, reg.Check("t", testFingerprint("t", "s2")))
	require.NoError(t, s.SaveRegistry(reg))

	alerts, err := s.LoadAlerts()
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, toolwatch.SchemaChange, alerts[0].ChangeType)
}

func TestLoadBaselinesCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "baselines.json"), []byte("{not json"), 0644))

	_, err := NewStore(dir).LoadBaselines()
	assert.Error(t, err)
}
