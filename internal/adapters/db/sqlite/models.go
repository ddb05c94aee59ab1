package sqlite

import "time"

type RunModel struct {
	ID         uint   `gorm:"primaryKey"`
	RunID      string `gorm:"uniqueIndex;not null"`
	Kind       string `gorm:"not null;index"`
	SchemaKey  string `gorm:"not null;index"`
	Outcome    string `gorm:"not null;default:'running'"`
	Created    int    `gorm:"not null;default:0"`
	Reused     int    `gorm:"not null;default:0"`
	Skipped    int    `gorm:"not null;default:0"`
	Failed     int    `gorm:"not null;default:0"`
	StartedAt  time.Time
	FinishedAt *time.Time
}

func (RunModel) TableName() string { return "runs" }

type RunEntityModel struct {
	ID        uint   `gorm:"primaryKey"`
	RunID     string `gorm:"not null;index"`
	Category  string `gorm:"not null;index"`
	Name      string `gorm:"not null"`
	OldID     string
	NewID     string
	Outcome   string `gorm:"not null"`
	Detail    string
	CreatedAt time.Time
}

func (RunEntityModel) TableName() string { return "run_entities" }
