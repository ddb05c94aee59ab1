package sqlite

import (
	"context"
	"time"

	"github.com/Rudy-Tmc/backupAndRestoreAssetsCloud/internal/domain"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// Journal persists run reporting rows. It is write-mostly: restores never
// read it back, only the runs command does.
type Journal struct {
	db *gorm.DB
}

func Open(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path,
	}, &gorm.Config{})
}

func NewJournal(db *gorm.DB) *Journal {
	return &Journal{db: db}
}

func (j *Journal) StartRun(ctx context.Context, kind, schemaKey string) (domain.Run, error) {
	m := RunModel{
		RunID:     uuid.NewString(),
		Kind:      kind,
		SchemaKey: schemaKey,
		Outcome:   "running",
		StartedAt: time.Now(),
	}
	if err := j.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Run{}, err
	}
	return runFromModel(m), nil
}

func (j *Journal) FinishRun(ctx context.Context, runID, outcome string, created, reused, skipped, failed int) error {
	now := time.Now()
	return j.db.WithContext(ctx).Model(&RunModel{}).Where("run_id = ?", runID).Updates(map[string]any{
		"outcome":     outcome,
		"created":     created,
		"reused":      reused,
		"skipped":     skipped,
		"failed":      failed,
		"finished_at": &now,
	}).Error
}

func (j *Journal) RecordEntity(ctx context.Context, value domain.RunEntity) error {
	m := RunEntityModel{
		RunID:    value.RunID,
		Category: string(value.Category),
		Name:     value.Name,
		OldID:    value.OldID,
		NewID:    value.NewID,
		Outcome:  value.Outcome,
		Detail:   value.Detail,
	}
	return j.db.WithContext(ctx).Create(&m).Error
}

func (j *Journal) ListRuns(ctx context.Context, limit int) ([]domain.Run, error) {
	rows := make([]RunModel, 0)
	if err := j.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Run, 0, len(rows))
	for _, m := range rows {
		result = append(result, runFromModel(m))
	}
	return result, nil
}

func (j *Journal) ListRunEntities(ctx context.Context, runID string) ([]domain.RunEntity, error) {
	rows := make([]RunEntityModel, 0)
	if err := j.db.WithContext(ctx).Where("run_id = ?", runID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.RunEntity, 0, len(rows))
	for _, m := range rows {
		result = append(result, domain.RunEntity{
			ID:       m.ID,
			RunID:    m.RunID,
			Category: domain.Category(m.Category),
			Name:     m.Name,
			OldID:    m.OldID,
			NewID:    m.NewID,
			Outcome:  m.Outcome,
			Detail:   m.Detail,
		})
	}
	return result, nil
}

func runFromModel(m RunModel) domain.Run {
	return domain.Run{
		ID:         m.RunID,
		Kind:       m.Kind,
		SchemaKey:  m.SchemaKey,
		Outcome:    m.Outcome,
		Created:    m.Created,
		Reused:     m.Reused,
		Skipped:    m.Skipped,
		Failed:     m.Failed,
		StartedAt:  m.StartedAt,
		FinishedAt: m.FinishedAt,
	}
}
