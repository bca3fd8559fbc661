package runs

import (
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/transcripts/internal/entities"
)

const defaultPageSize = 50

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Save stores a conversion run.
func (r *Repository) Save(run *entities.ConversionRun) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	return r.db.Create(run).Error
}

// List retrieves paginated runs, most recent first.
func (r *Repository) List(limit, offset int) ([]entities.ConversionRun, int64, error) {
	var runs []entities.ConversionRun
	var total int64

	query := r.db.Model(&entities.ConversionRun{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	err := query.Order("started_at DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&runs).Error
	return runs, total, err
}

// ListBySource retrieves paginated runs of one source, most recent first.
func (r *Repository) ListBySource(source entities.SourceKind, limit, offset int) ([]entities.ConversionRun, int64, error) {
	var runs []entities.ConversionRun
	var total int64

	query := r.db.Model(&entities.ConversionRun{}).Where("source = ?", source)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	err := query.Order("started_at DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&runs).Error
	return runs, total, err
}

// GetByRunID retrieves a single run by its UUID.
func (r *Repository) GetByRunID(runID string) (*entities.ConversionRun, error) {
	var run entities.ConversionRun
	err := r.db.Where("run_id = ?", runID).First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// DeleteOlderThan removes runs started before the given time.
// Returns the number of deleted runs.
func (r *Repository) DeleteOlderThan(olderThan time.Time) (int64, error) {
	result := r.db.Where("started_at < ?", olderThan).Delete(&entities.ConversionRun{})
	return result.RowsAffected, result.Error
}
