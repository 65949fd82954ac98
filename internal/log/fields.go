// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRunID     = "run_id"
	FieldCommand   = "command"
	FieldRecordID  = "record_id"
	FieldServiceID = "service_id"
	FieldRemoteID  = "remote_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldTarget    = "target"
	FieldAction    = "action"
	FieldPreview   = "preview"

	// Service fields
	FieldTitle    = "title"
	FieldStart    = "start"
	FieldFilename = "filename"

	// Path / URL fields
	FieldPath    = "path"
	FieldBaseURL = "base_url"
)
