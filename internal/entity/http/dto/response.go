// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	"github.com/allisson/tablegate/internal/entity/domain"
)

// QueryResponse lists the records matching a query.
type QueryResponse struct {
	Results []domain.Record `json:"results"`
}

// EntryResponse wraps a single record fetched by key.
type EntryResponse struct {
	Entry domain.Record `json:"entry"`
}

// StageResponse describes a staged payload awaiting publication.
type StageResponse struct {
	StagingID string    `json:"staging_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PublishResponse confirms a published record and where it landed.
type PublishResponse struct {
	Message      string `json:"message"`
	PartitionKey string `json:"partition_key"`
	RowKey       string `json:"row_key"`
}

// DeleteResponse confirms a deleted record.
type DeleteResponse struct {
	Message string `json:"message"`
}
