package ir

// Version constants for the record schema and engine.
const (
	// SchemaVersion tags every exported record so consumers can pin a layout.
	SchemaVersion = "avrconf/record/v1"

	// EngineVersion is the avrconf engine version.
	EngineVersion = "0.1.0"
)
