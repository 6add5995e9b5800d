// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/tablegate/internal/validation"
)

// TableRequest selects the table an operation targets. All fields are
// optional; empty values fall back to the configured defaults.
type TableRequest struct {
	Table            string `json:"table"`
	Driver           string `json:"driver"`
	ConnectionTarget string `json:"connection_target"`
}

// Validate checks the table selection.
func (r *TableRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Driver,
			validation.In("", "postgres", "mysql"),
		),
		validation.Field(&r.Table,
			validation.Length(0, 63),
		),
	)
}

// QueryRequest contains the parameters for querying entity records.
type QueryRequest struct {
	TableRequest
	Filter string   `json:"filter"`
	Fields []string `json:"fields"`
}

// Validate checks if the query request is valid. The filter expression itself
// is validated by the filter parser.
func (r *QueryRequest) Validate() error {
	if err := r.TableRequest.Validate(); err != nil {
		return err
	}
	return validation.ValidateStruct(r,
		validation.Field(&r.Filter,
			validation.Length(0, 4096),
		),
	)
}

// EntryRequest addresses a single record for get and delete operations.
type EntryRequest struct {
	TableRequest
	PartitionKey string `json:"partition_key"`
	RowKey       string `json:"row_key"`
}

// Validate checks if the entry request is valid.
func (r *EntryRequest) Validate() error {
	if err := r.TableRequest.Validate(); err != nil {
		return err
	}
	return validation.ValidateStruct(r,
		validation.Field(&r.RowKey,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.PartitionKey,
			validation.Length(0, 255),
		),
	)
}

// PublishStagedRequest publishes a previously staged payload by handle.
type PublishStagedRequest struct {
	TableRequest
	StagingID string `json:"staging_id"`
}

// Validate checks if the publish-staged request is valid.
func (r *PublishStagedRequest) Validate() error {
	if err := r.TableRequest.Validate(); err != nil {
		return err
	}
	return validation.ValidateStruct(r,
		validation.Field(&r.StagingID,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}
