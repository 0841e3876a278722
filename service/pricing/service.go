// Package pricing estimates monthly USD cost for GCP resource shapes. Every
// function is pure and rounds its result to cents.
package pricing

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	customShapePattern   = regexp.MustCompile(`^(?:[a-z0-9]+-)?custom-(\d+)-(\d+)(?:-ext)?$`)
	standardShapePattern = regexp.MustCompile(`^([a-z0-9]+)-[a-z]+-(\d+)g?$`)
	customTierPattern    = regexp.MustCompile(`^db-custom-(\d+)-(\d+)$`)
)

// ComputeCost returns the monthly cost of a machine type. Rules are applied
// in order: custom shapes, numbered family shapes, named shared-core shapes,
// then the default.
func ComputeCost(machineType string) float64 {
	shape := strings.ToLower(lastSegment(machineType))

	if m := customShapePattern.FindStringSubmatch(shape); m != nil {
		vcpu, _ := strconv.ParseInt(m[1], 10, 64)
		memMB, _ := strconv.ParseInt(m[2], 10, 64)
		memGB := decimal.NewFromInt(memMB).Div(decimal.NewFromInt(1024))
		cost := decimal.NewFromInt(vcpu).Mul(customVCPURate).Add(memGB.Mul(customMemGBRate))
		return round(cost)
	}

	if m := standardShapePattern.FindStringSubmatch(shape); m != nil {
		vcpu, _ := strconv.ParseInt(m[2], 10, 64)
		return round(decimal.NewFromInt(vcpu).Mul(familyRate(m[1])))
	}

	switch {
	case strings.Contains(shape, "micro"):
		return round(microMonthly)
	case strings.Contains(shape, "small"):
		return round(smallMonthly)
	case strings.Contains(shape, "medium"):
		return round(mediumMonthly)
	}

	return round(defaultComputeMonthly)
}

// VCPUs returns the vCPU count encoded in a machine type, or 0 when the
// shape does not carry one.
func VCPUs(machineType string) int64 {
	shape := strings.ToLower(lastSegment(machineType))
	if m := customShapePattern.FindStringSubmatch(shape); m != nil {
		n, _ := strconv.ParseInt(m[1], 10, 64)
		return n
	}
	if m := standardShapePattern.FindStringSubmatch(shape); m != nil {
		n, _ := strconv.ParseInt(m[2], 10, 64)
		return n
	}
	return 0
}

func familyRate(family string) decimal.Decimal {
	for _, f := range acceleratorOptimizedFamilies {
		if family == f {
			return acceleratorOptimizedRate
		}
	}
	for _, f := range memoryOptimizedFamilies {
		if family == f {
			return memoryOptimizedRate
		}
	}
	return familyBaseRate
}

// DiskClass is the storage class of a persistent disk
type DiskClass string

const (
	DiskStandard DiskClass = "standard"
	DiskBalanced DiskClass = "balanced"
	DiskSSD      DiskClass = "ssd"
)

// ClassifyDisk maps a disk type (name or URL) to its storage class. Unknown
// types are billed as standard.
func ClassifyDisk(diskType string) DiskClass {
	t := strings.ToLower(lastSegment(diskType))
	switch {
	case strings.Contains(t, "ssd"):
		return DiskSSD
	case strings.Contains(t, "balanced"):
		return DiskBalanced
	}
	return DiskStandard
}

// DiskCost returns sizeGB times the per-GB rate of the disk's class
func DiskCost(sizeGB int64, diskType string) float64 {
	var rate decimal.Decimal
	switch ClassifyDisk(diskType) {
	case DiskSSD:
		rate = diskSSDGBRate
	case DiskBalanced:
		rate = diskBalancedGBRate
	case DiskStandard:
		rate = diskStandardGBRate
	}
	return round(decimal.NewFromInt(sizeGB).Mul(rate))
}

// DatabaseCost returns the monthly cost of a Cloud SQL tier. Custom tiers
// are priced per vCPU; unknown tiers use the default.
func DatabaseCost(tier string) float64 {
	t := strings.ToLower(tier)
	if cost, ok := dbTierMonthly[t]; ok {
		return round(cost)
	}
	if m := customTierPattern.FindStringSubmatch(t); m != nil {
		vcpu, _ := strconv.ParseInt(m[1], 10, 64)
		return round(decimal.NewFromInt(vcpu).Mul(dbCustomVCPURate))
	}
	return round(defaultDBMonthly)
}

// ServiceCost approximates an always-allocated Cloud Run service, billing at
// least one instance.
func ServiceCost(minInstances int64, vcpu, memoryGiB float64) float64 {
	if minInstances < 1 {
		minInstances = 1
	}
	perInstance := decimal.NewFromFloat(vcpu).Mul(serverlessVCPURate).
		Add(decimal.NewFromFloat(memoryGiB).Mul(serverlessMemRate))
	return round(perInstance.Mul(decimal.NewFromInt(minInstances)))
}

// Fraction returns cost*fraction rounded to cents
func Fraction(cost, fraction float64) float64 {
	return round(decimal.NewFromFloat(cost).Mul(decimal.NewFromFloat(fraction)))
}

// Round rounds an amount to cents
func Round(amount float64) float64 {
	return round(decimal.NewFromFloat(amount))
}

func round(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// lastSegment extracts the resource name from a GCP resource URL
// e.g., "https://www.googleapis.com/compute/v1/projects/p/zones/z/machineTypes/e2-medium"
// returns "e2-medium"
func lastSegment(resourceURL string) string {
	if i := strings.LastIndex(resourceURL, "/"); i >= 0 {
		return resourceURL[i+1:]
	}
	return resourceURL
}
