// Package models defines the domain types shared between storage and index.
package models

import "time"

// FileMetadata describes one lineage file in the library directory.
type FileMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Record kinds as stored in the index.
const (
	KindFamily     = "family"
	KindIndividual = "individual"
	KindSource     = "source"
	KindOther      = "other"
)
