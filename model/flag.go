package model

type Flags struct {
	// Run configuration
	Project  string
	Intent   string
	Industry string
	Mode     string
	File     string
	Seed     int64
	Image    string

	// Execution
	ApproveAll bool
	ScriptPath string

	// GCP-specific flags
	Credentials    string
	BillingAccount string
}
