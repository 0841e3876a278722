package pricing

import "github.com/shopspring/decimal"

// Monthly USD rates. Report numbers depend on these exact values.
var (
	customVCPURate  = decimal.RequireFromString("23.61")
	customMemGBRate = decimal.RequireFromString("3.16")

	familyBaseRate           = decimal.RequireFromString("24.45")
	memoryOptimizedRate      = decimal.RequireFromString("46.20")
	acceleratorOptimizedRate = decimal.RequireFromString("263.00")
	defaultComputeMonthly    = decimal.RequireFromString("50.00")

	microMonthly  = decimal.RequireFromString("6.11")
	smallMonthly  = decimal.RequireFromString("12.23")
	mediumMonthly = decimal.RequireFromString("24.46")

	diskStandardGBRate = decimal.RequireFromString("0.04")
	diskBalancedGBRate = decimal.RequireFromString("0.10")
	diskSSDGBRate      = decimal.RequireFromString("0.17")

	dbCustomVCPURate   = decimal.RequireFromString("52.00")
	defaultDBMonthly   = decimal.RequireFromString("51.10")
	serverlessVCPURate = decimal.RequireFromString("46.66")
	serverlessMemRate  = decimal.RequireFromString("5.18")
)

var dbTierMonthly = map[string]decimal.Decimal{
	"db-f1-micro":      decimal.RequireFromString("7.67"),
	"db-g1-small":      decimal.RequireFromString("25.55"),
	"db-n1-standard-1": decimal.RequireFromString("51.10"),
	"db-n1-standard-2": decimal.RequireFromString("102.20"),
	"db-n1-standard-4": decimal.RequireFromString("204.40"),
	"db-n1-standard-8": decimal.RequireFromString("408.80"),
}

// Family prefixes priced above the base rate
var (
	memoryOptimizedFamilies      = []string{"m1", "m2", "m3", "x4"}
	acceleratorOptimizedFamilies = []string{"a2", "a3", "g2"}
)
