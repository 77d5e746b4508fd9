package models

import (
	"time"

	"parcel-watch/core/reconcile"
)

// Snapshot is a persisted point-in-time capture of a property payload.
type Snapshot struct {
	ID          string             `gorm:"column:id;primaryKey;size:36"`
	Label       string             `gorm:"column:label;size:255;index"`
	Source      string             `gorm:"column:source;size:512"`
	Provider    string             `gorm:"column:provider;size:32"`
	RecordCount int                `gorm:"column:record_count"`
	Records     reconcile.Snapshot `gorm:"column:records;serializer:json;type:longtext"`
	CapturedAt  time.Time          `gorm:"column:captured_at;index"`
}

// TableName overrides the table name.
func (Snapshot) TableName() string {
	return "snapshots"
}

// Summary drops the records for listings.
func (s Snapshot) Summary() SnapshotSummary {
	return SnapshotSummary{
		ID:          s.ID,
		Label:       s.Label,
		Source:      s.Source,
		Provider:    s.Provider,
		RecordCount: s.RecordCount,
		CapturedAt:  s.CapturedAt,
	}
}

// SnapshotSummary describes a snapshot without its records.
type SnapshotSummary struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Source      string    `json:"source"`
	Provider    string    `json:"provider"`
	RecordCount int       `json:"record_count"`
	CapturedAt  time.Time `json:"captured_at"`
}
