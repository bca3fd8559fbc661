package audit

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mrlokans/transcripts/internal/database/runs"
	"github.com/mrlokans/transcripts/internal/entities"
)

func setupTestService(t *testing.T, auditor *Auditor) (*Service, *runs.Repository) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.ConversionRun{})
	require.NoError(t, err)

	repo := runs.NewRepository(db)
	return NewService(repo, auditor), repo
}

func sampleReport(runID string) *entities.RunReport {
	return &entities.RunReport{
		RunID:      runID,
		Source:     entities.SourceSMS,
		InputDir:   "data",
		OutputDir:  "output",
		StartedAt:  time.Now().Add(-time.Second),
		FinishedAt: time.Now(),
		Files: []entities.FileOutcome{
			{Name: "a.xml", Status: entities.FileStatusConverted, Conversations: 2, Messages: 5},
			{Name: "b.xml", Status: entities.FileStatusFailed, Error: "bad xml"},
		},
	}
}

func TestService_RecordRun(t *testing.T) {
	auditDir := t.TempDir()
	svc, repo := setupTestService(t, NewAuditor(auditDir))

	svc.RecordRun(context.Background(), sampleReport("run-1"))

	run, err := repo.GetByRunID("run-1")
	require.NoError(t, err)
	assert.Equal(t, entities.RunStatusPartial, run.Status)
	assert.Equal(t, 2, run.FilesTotal)
	assert.Equal(t, 1, run.FilesFailed)
	assert.Equal(t, 2, run.Conversations)
	assert.Equal(t, 5, run.Messages)
	assert.Contains(t, run.Details, "bad xml")

	content, err := os.ReadFile(filepath.Join(auditDir, "run-1.json"))
	require.NoError(t, err)

	var saved entities.RunReport
	require.NoError(t, json.Unmarshal(content, &saved))
	assert.Equal(t, "run-1", saved.RunID)
	assert.Len(t, saved.Files, 2)
}

func TestService_RecordRun_StoreOnly(t *testing.T) {
	svc, repo := setupTestService(t, nil)

	svc.RecordRun(context.Background(), sampleReport("run-2"))
	svc.RecordRun(context.Background(), nil)

	_, total, err := repo.List(10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

type failingStore struct{}

func (failingStore) Save(*entities.ConversionRun) error { return errors.New("db down") }
func (failingStore) DeleteOlderThan(time.Time) (int64, error) {
	return 0, errors.New("db down")
}

func TestService_RecordRun_FailureIsSwallowed(t *testing.T) {
	svc := NewService(failingStore{}, nil)

	assert.NotPanics(t, func() {
		svc.RecordRun(context.Background(), sampleReport("run-3"))
	})
}

func TestService_DeleteOldRuns(t *testing.T) {
	svc, repo := setupTestService(t, nil)

	old := sampleReport("old")
	old.StartedAt = time.Now().Add(-72 * time.Hour)
	svc.RecordRun(context.Background(), old)
	svc.RecordRun(context.Background(), sampleReport("fresh"))

	deleted, err := svc.DeleteOldRuns(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = repo.GetByRunID("fresh")
	assert.NoError(t, err)

	_, err = NewService(nil, nil).DeleteOldRuns(time.Hour)
	assert.Error(t, err)
}
