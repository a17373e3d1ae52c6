package services

import (
	"errors"
	"fmt"
)

// ErrHoldingAreaBusy is returned when another run in this process owns the holding area.
var ErrHoldingAreaBusy = errors.New("network holding area is in use by another import")

// ConversionError: the source could not be located or loaded into the holding area.
type ConversionError struct {
	Err error
}

func (e *ConversionError) Error() string { return fmt.Sprintf("conversion failed: %v", e.Err) }
func (e *ConversionError) Unwrap() error { return e.Err }

// ValidationError: the holding-area validator rejected the load.
type ValidationError struct {
	ErrorCount int
	Errors     []map[string]interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("staging validation failed with %d errors", e.ErrorCount)
}

// RowTypeError: a holding-area row failed the typed row schema.
type RowTypeError struct {
	Index      int
	INetworkID string
	Row        map[string]interface{}
	Err        error
}

func (e *RowTypeError) Error() string {
	return fmt.Sprintf("row validation failed at row index %d (ID: %s): %v", e.Index, e.INetworkID, e.Err)
}
func (e *RowTypeError) Unwrap() error { return e.Err }

// EnrichmentError: reference data or derived attributes could not be resolved.
type EnrichmentError struct {
	INetworkID string
	Err        error
}

func (e *EnrichmentError) Error() string {
	if e.INetworkID == "" {
		return fmt.Sprintf("enrichment failed: %v", e.Err)
	}
	return fmt.Sprintf("enrichment failed for %s: %v", e.INetworkID, e.Err)
}
func (e *EnrichmentError) Unwrap() error { return e.Err }

// CommitError: the publish transaction failed and was rolled back.
type CommitError struct {
	Err error
}

func (e *CommitError) Error() string { return fmt.Sprintf("commit failed: %v", e.Err) }
func (e *CommitError) Unwrap() error { return e.Err }

// ReconciliationError: the pedestrian snapshot could not be reconciled.
type ReconciliationError struct {
	Step string
	Err  error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("reconciliation failed during %s: %v", e.Step, e.Err)
}
func (e *ReconciliationError) Unwrap() error { return e.Err }
