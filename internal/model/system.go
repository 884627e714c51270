package model

// VersionInfo reports the running build, the applied schema version and the enabled features.
type VersionInfo struct {
	AppVersion            string          `json:"app_version"`
	DbVersion             string          `json:"db_version"`
	CorporateActionSource string          `json:"corporate_action_source"`
	Features              map[string]bool `json:"features"`
	MigrationNeeded       bool            `json:"migration_needed"`
	MigrationMessage      *string         `json:"migration_message,omitempty"`
}
