package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// InventoryMode selects how the inventory collaborator acquires resources
type InventoryMode string

const (
	InventoryLive      InventoryMode = "live"
	InventoryFile      InventoryMode = "file"
	InventorySimulated InventoryMode = "simulated"
)

// CostItem is one billable unit in the snapshot's cost breakdown
type CostItem struct {
	Kind ResourceKind `json:"kind"`
	Name string       `json:"name"`
	Cost float64      `json:"cost"`
}

// InventorySnapshot is the normalized inventory for a single run. It is
// built once by NewInventorySnapshot and treated as read-only afterwards.
type InventorySnapshot struct {
	AccountID        string              `json:"accountId"`
	CollectedAt      time.Time           `json:"collectedAt"`
	VMs              []VM                `json:"vms"`
	Disks            []Disk              `json:"disks"`
	Databases        []ManagedDatabase   `json:"databases"`
	Services         []ServerlessService `json:"services"`
	CostBreakdown    []CostItem          `json:"costBreakdown"`
	TotalMonthlyBill float64             `json:"totalMonthlyBill"`
}

// NewInventorySnapshot derives the cost breakdown and the total bill from
// the records' already-rounded monthly costs.
func NewInventorySnapshot(accountID string, vms []VM, disks []Disk, dbs []ManagedDatabase, services []ServerlessService) *InventorySnapshot {
	s := &InventorySnapshot{
		AccountID:   accountID,
		CollectedAt: time.Now().UTC(),
		VMs:         vms,
		Disks:       disks,
		Databases:   dbs,
		Services:    services,
	}

	for _, vm := range vms {
		s.CostBreakdown = append(s.CostBreakdown, CostItem{Kind: KindVM, Name: vm.Name, Cost: vm.MonthlyCost})
	}
	for _, d := range disks {
		s.CostBreakdown = append(s.CostBreakdown, CostItem{Kind: KindDisk, Name: d.Name, Cost: d.MonthlyCost})
	}
	for _, db := range dbs {
		s.CostBreakdown = append(s.CostBreakdown, CostItem{Kind: KindManagedDatabase, Name: db.Name, Cost: db.MonthlyCost})
	}
	for _, svc := range services {
		s.CostBreakdown = append(s.CostBreakdown, CostItem{Kind: KindServerlessService, Name: svc.Name, Cost: svc.MonthlyCost})
	}

	s.TotalMonthlyBill = SumCosts(s.CostBreakdown)
	return s
}

// SumCosts adds the per-item costs and rounds the total to cents. Items are
// expected to be rounded already, so the result can drift from rounding the
// unrounded sum once.
func SumCosts(items []CostItem) float64 {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(decimal.NewFromFloat(item.Cost))
	}
	return total.Round(2).InexactFloat64()
}

// ResourceCount returns the number of records across all collections
func (s *InventorySnapshot) ResourceCount() int {
	if s == nil {
		return 0
	}
	return len(s.VMs) + len(s.Disks) + len(s.Databases) + len(s.Services)
}

// InventoryErrorKind classifies inventory acquisition failures
type InventoryErrorKind string

const (
	ErrKindPermissionDenied   InventoryErrorKind = "permission-denied"
	ErrKindNetworkUnreachable InventoryErrorKind = "network-unreachable"
	ErrKindMalformedResponse  InventoryErrorKind = "malformed-response"
)

// InventoryError is returned by inventory collaborators. HintURL is set for
// permission failures caused by a disabled API.
type InventoryError struct {
	Kind    InventoryErrorKind
	Message string
	HintURL string
	Err     error
}

func (e *InventoryError) Error() string {
	msg := fmt.Sprintf("inventory %s: %s", e.Kind, e.Message)
	if e.HintURL != "" {
		msg += fmt.Sprintf(" (enable it at %s)", e.HintURL)
	}
	return msg
}

func (e *InventoryError) Unwrap() error {
	return e.Err
}

// AsInventoryError extracts an *InventoryError from an error chain
func AsInventoryError(err error) (*InventoryError, bool) {
	var invErr *InventoryError
	if errors.As(err, &invErr) {
		return invErr, true
	}
	return nil, false
}
