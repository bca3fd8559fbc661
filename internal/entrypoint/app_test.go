package entrypoint

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/transcripts/internal/entities"
	"github.com/mrlokans/transcripts/internal/storage"
)

const tripExport = `[{"uuid":"c1","name":"Trip Plan","chat_messages":[
 {"sender":"human","text":"Hi","created_at":"2024-01-01T10:00:00Z"},
 {"sender":"assistant","text":"Hello","created_at":"2024-01-01T10:00:05Z"}]}]`

func TestBuild_WritesAndRecords(t *testing.T) {
	root := t.TempDir()
	input := filepath.Join(root, "in")
	output := filepath.Join(root, "out")
	require.NoError(t, os.MkdirAll(input, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(input, "export-20240101120000.json"), []byte(tripExport), 0644))

	app, err := Build(Options{
		InputDir:     input,
		OutputDir:    output,
		DatabasePath: filepath.Join(root, "ledger.db"),
		AuditDir:     filepath.Join(root, "audit"),
	})
	require.NoError(t, err)
	defer app.Close()

	report, err := app.Service.Run(context.Background(), entities.SourceChat)
	require.NoError(t, err)
	assert.Equal(t, entities.RunStatusSuccess, report.Status())

	content, err := os.ReadFile(filepath.Join(output, "Trip_Plan.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "# Trip Plan")

	run, err := app.Runs.GetByRunID(report.RunID)
	require.NoError(t, err)
	assert.Equal(t, 1, run.Conversations)

	assert.FileExists(t, filepath.Join(root, "audit", report.RunID+".json"))
}

func TestBuild_DryRun(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "export-20240101120000.json"), []byte(tripExport), 0644))
	output := filepath.Join(root, "never-created")

	app, err := Build(Options{InputDir: root, OutputDir: output, DryRun: true})
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.DB)
	assert.Nil(t, app.Runs)

	_, err = app.Service.Run(context.Background(), entities.SourceChat)
	require.NoError(t, err)

	mem, ok := app.Sink.(*storage.MemoryClient)
	require.True(t, ok)
	assert.Equal(t, []string{"Trip_Plan.txt"}, mem.Paths())
	assert.NoDirExists(t, output)
}
