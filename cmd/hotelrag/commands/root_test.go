package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperjump/hotelrag/internal/models"
)

const testCorpus = `[
  {"text": "The overall cancellation rate is 0.37", "metadata": {"category": "cancellations"}},
  {"text": "The average stay is 3.4 nights", "metadata": {"category": "stay"}},
  {"text": "Most reservations are made 30 days ahead", "metadata": {"category": "booking_trends"}}
]`

const testConfig = `corpus:
  path: ./corpus.json
storage:
  index_path: ./data/index.bin
  interaction_log_path: ./data/local_db.json
embedding:
  provider: mock
  dimensions: 16
generation:
  provider: extractive
`

func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "corpus.json"), []byte(testCorpus), 0644))
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(testConfig), 0644))
	return cfgPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()
	assert.Equal(t, "hotelrag", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.Contains(t, cmd.Long, "hotelrag ask")

	for _, name := range []string{"serve", "ask", "index", "search", "history", "status", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}

	flag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, "c", flag.Shorthand)
	assert.Equal(t, defaultConfigPath, flag.DefValue)
}

func TestAskCmd_Flags(t *testing.T) {
	cmd := NewAskCmd()
	out := cmd.Flags().Lookup("output")
	require.NotNil(t, out)
	assert.Equal(t, "text", out.DefValue)
	raw := cmd.Flags().Lookup("raw")
	require.NotNil(t, raw)
	assert.Equal(t, "false", raw.DefValue)
}

func TestJoinArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"single word", []string{"cancellations"}, "cancellations"},
		{"multiple words", []string{"What", "is", "the", "rate?"}, "What is the rate?"},
		{"quoted phrase", []string{"average stay"}, "average stay"},
		{"blank args", []string{"  ", "  "}, ""},
		{"empty", []string{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, joinArgs(tt.args))
		})
	}
}

func TestLoadConfig_missingFileUsesDefaults(t *testing.T) {
	cfg, path, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Contains(t, path, "absent.yaml")
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	assert.Equal(t, "json", cfg.Storage.LogBackend)
}

func TestLoadConfig_resolvesRelativePaths(t *testing.T) {
	cfgPath := writeProject(t)
	cfg, _, err := loadConfig(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(cfgPath), "corpus.json"), cfg.Corpus.Path)
	assert.Equal(t, "mock", cfg.Embedding.Provider)
}

func TestVersionCmd(t *testing.T) {
	SetVersion("1.2.3", "abc123", "2024-05-01")
	t.Cleanup(func() { SetVersion("dev", "none", "unknown") })
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "hotelrag 1.2.3")
	assert.Contains(t, out, "abc123")
}

func TestEndToEnd(t *testing.T) {
	cfgPath := writeProject(t)
	dir := filepath.Dir(cfgPath)

	out, err := run(t, "--config", cfgPath, "index")
	require.NoError(t, err)
	assert.Contains(t, out, "Built index of 3 vectors")

	out, err = run(t, "--config", cfgPath, "index")
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded index of 3 vectors")

	out, err = run(t, "--config", cfgPath, "ask", "What is the cancellation rate?", "--output", "json")
	require.NoError(t, err)
	var res models.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "The overall cancellation rate is 37.00%.", res.Response)
	assert.Equal(t, models.IntentCancellation, res.QueryInfo.DetectedIntent)
	assert.Empty(t, res.RawResponse)
	assert.Len(t, res.RetrievedDocs, 3)

	out, err = run(t, "--config", cfgPath, "ask", "How", "long", "is", "the", "average", "stay?", "--raw")
	require.NoError(t, err)
	assert.Contains(t, out, "The average stay is 3.4 nights.")
	assert.Contains(t, out, "Raw: The average stay is 3.4 nights")

	out, err = run(t, "--config", cfgPath, "history", "list", "--output", "json")
	require.NoError(t, err)
	var records []models.InteractionRecord
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "What is the cancellation rate?", records[0].Query)
	assert.Equal(t, "How long is the average stay?", records[1].Query)
	assert.False(t, records[1].Timestamp.Before(records[0].Timestamp))

	xlsx := filepath.Join(dir, "export.xlsx")
	out, err = run(t, "--config", cfgPath, "history", "export", xlsx)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 2 interactions")
	assert.FileExists(t, xlsx)

	out, err = run(t, "--config", cfgPath, "search", "reservations", "--output", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"position": 2`)

	out, err = run(t, "--config", cfgPath, "status", "--output", "json")
	require.NoError(t, err)
	var status statusReport
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, 3, status.CorpusDocuments)
	assert.Equal(t, 2, status.Interactions)
	require.NotNil(t, status.Index)
	assert.Equal(t, 3, status.Index.CorpusSize)
	assert.False(t, status.IndexStale)
}

func TestAsk_missingCorpusFails(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(testConfig), 0644))
	_, err := run(t, "--config", cfgPath, "ask", "anything?")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load corpus")
}

func TestAsk_invalidOutput(t *testing.T) {
	_, err := run(t, "ask", "question", "--output", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}
