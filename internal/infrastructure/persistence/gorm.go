package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coown-backend/internal/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SnapshotRecord is one persisted snapshot row.
type SnapshotRecord struct {
	SnapshotKey string         `gorm:"column:snapshot_key;primaryKey" json:"snapshot_key"`
	Payload     datatypes.JSON `gorm:"column:payload;not null" json:"payload"`
	EventCount  int            `gorm:"column:event_count;not null;default:0" json:"event_count"`
	UpdatedAt   time.Time      `gorm:"column:updatedAt" json:"updatedAt"`
}

func (SnapshotRecord) TableName() string {
	return "DemandSnapshots"
}

// GormAdapter keeps the snapshot as a JSON column in Postgres or SQLite.
type GormAdapter struct {
	DB  *gorm.DB
	Key string
}

// NewGormAdapter migrates the snapshot table and returns the adapter.
func NewGormAdapter(db *gorm.DB, key string) (*GormAdapter, error) {
	if key == "" {
		key = DefaultKey
	}
	if err := db.AutoMigrate(&SnapshotRecord{}); err != nil {
		return nil, fmt.Errorf("persistence: migrate: %w", err)
	}
	return &GormAdapter{DB: db, Key: key}, nil
}

func (a *GormAdapter) Name() string { return "database" }

func (a *GormAdapter) Load(ctx context.Context) (domain.Snapshot, bool, error) {
	var rec SnapshotRecord
	err := a.DB.WithContext(ctx).Where("snapshot_key = ?", a.Key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Snapshot{}, false, nil
	}
	if err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("persistence: load %s: %w", a.Key, err)
	}
	return decode(rec.Payload)
}

func (a *GormAdapter) Save(ctx context.Context, snap domain.Snapshot) error {
	b, err := encode(snap)
	if err != nil {
		return err
	}
	rec := SnapshotRecord{
		SnapshotKey: a.Key,
		Payload:     datatypes.JSON(b),
		EventCount:  len(snap.DemandEvents),
		UpdatedAt:   time.Now(),
	}
	err = a.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "snapshot_key"}},
		UpdateAll: true,
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("persistence: save %s: %w", a.Key, err)
	}
	return nil
}

func (a *GormAdapter) Reset(ctx context.Context) error {
	err := a.DB.WithContext(ctx).Where("snapshot_key = ?", a.Key).Delete(&SnapshotRecord{}).Error
	if err != nil {
		return fmt.Errorf("persistence: reset %s: %w", a.Key, err)
	}
	return nil
}
