package classifier

import "time"

// Thresholds applied to the 7-day usage signals
const (
	IdleCPUThreshold            = 0.05
	OverProvisionedCPUThreshold = 0.15
	UnderutilizedGPUThreshold   = 0.10
	OrphanedDiskAge             = 48 * time.Hour

	OverProvisionedSavingsFraction  = 0.5
	UnderutilizedGPUSavingsFraction = 0.8
)
