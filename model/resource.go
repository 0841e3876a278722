package model

import "time"

// AccountInfo represents cloud account/project identity
type AccountInfo struct {
	Provider    string
	AccountID   string
	AccountName string
}

// ConnectionStatus is the outcome of a credential verification call
type ConnectionStatus struct {
	OK      bool
	Message string
}

// ResourceKind tags the closed set of resource records the inventory produces
type ResourceKind string

const (
	KindVM                ResourceKind = "compute-instance"
	KindDisk              ResourceKind = "persistent-disk"
	KindManagedDatabase   ResourceKind = "cloudsql-instance"
	KindServerlessService ResourceKind = "cloudrun-service"
)

// Resource is implemented by every inventory record. The set is closed:
// only the record types in this package satisfy it.
type Resource interface {
	Kind() ResourceKind
	ResourceName() string
	ResourceLocation() string
	Cost() float64
	ResourceLabels() map[string]string
	isResource()
}

// VM represents a compute instance
type VM struct {
	ID           string            `json:"id" yaml:"id"`
	Name         string            `json:"name" yaml:"name"`
	Zone         string            `json:"zone" yaml:"zone"`
	MachineType  string            `json:"machineType" yaml:"machineType"`
	Status       string            `json:"status" yaml:"status"` // RUNNING, TERMINATED, ...
	CPUAverage7d float64           `json:"cpuAverage7d" yaml:"cpuAverage7d"`
	Accelerators int               `json:"accelerators" yaml:"accelerators"`
	Labels       map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
	MonthlyCost  float64           `json:"monthlyCost" yaml:"monthlyCost"`
}

// Disk represents a persistent disk
type Disk struct {
	ID             string            `json:"id" yaml:"id"`
	Name           string            `json:"name" yaml:"name"`
	Zone           string            `json:"zone" yaml:"zone"`
	SizeGB         int64             `json:"sizeGb" yaml:"sizeGb"`
	DiskType       string            `json:"diskType" yaml:"diskType"` // pd-standard, pd-balanced, pd-ssd
	Status         string            `json:"status" yaml:"status"`
	Users          []string          `json:"users,omitempty" yaml:"users,omitempty"`
	LastAttachTime time.Time         `json:"lastAttachTime" yaml:"lastAttachTime"`
	CreatedAt      time.Time         `json:"createdAt" yaml:"createdAt"`
	Labels         map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
	MonthlyCost    float64           `json:"monthlyCost" yaml:"monthlyCost"`
}

// ManagedDatabase represents a Cloud SQL instance
type ManagedDatabase struct {
	ID                   string            `json:"id" yaml:"id"`
	Name                 string            `json:"name" yaml:"name"`
	Region               string            `json:"region" yaml:"region"`
	Tier                 string            `json:"tier" yaml:"tier"`
	DatabaseVersion      string            `json:"databaseVersion" yaml:"databaseVersion"`
	State                string            `json:"state" yaml:"state"` // RUNNABLE, SUSPENDED, ...
	ConnectionsAverage7d float64           `json:"connectionsAverage7d" yaml:"connectionsAverage7d"`
	Labels               map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
	MonthlyCost          float64           `json:"monthlyCost" yaml:"monthlyCost"`
}

// ServerlessService represents a Cloud Run service
type ServerlessService struct {
	ID             string            `json:"id" yaml:"id"`
	Name           string            `json:"name" yaml:"name"`
	Region         string            `json:"region" yaml:"region"`
	Status         string            `json:"status" yaml:"status"`
	URL            string            `json:"url,omitempty" yaml:"url,omitempty"`
	MinInstances   int64             `json:"minInstances" yaml:"minInstances"`
	CPU            float64           `json:"cpu" yaml:"cpu"`
	MemoryGiB      float64           `json:"memoryGib" yaml:"memoryGib"`
	RequestCount7d int64             `json:"requestCount7d" yaml:"requestCount7d"`
	Labels         map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
	MonthlyCost    float64           `json:"monthlyCost" yaml:"monthlyCost"`
}

func (v VM) Kind() ResourceKind                { return KindVM }
func (v VM) ResourceName() string              { return v.Name }
func (v VM) ResourceLocation() string          { return v.Zone }
func (v VM) Cost() float64                     { return v.MonthlyCost }
func (v VM) ResourceLabels() map[string]string { return v.Labels }
func (VM) isResource()                         {}

func (d Disk) Kind() ResourceKind                { return KindDisk }
func (d Disk) ResourceName() string              { return d.Name }
func (d Disk) ResourceLocation() string          { return d.Zone }
func (d Disk) Cost() float64                     { return d.MonthlyCost }
func (d Disk) ResourceLabels() map[string]string { return d.Labels }
func (Disk) isResource()                         {}

func (m ManagedDatabase) Kind() ResourceKind                { return KindManagedDatabase }
func (m ManagedDatabase) ResourceName() string              { return m.Name }
func (m ManagedDatabase) ResourceLocation() string          { return m.Region }
func (m ManagedDatabase) Cost() float64                     { return m.MonthlyCost }
func (m ManagedDatabase) ResourceLabels() map[string]string { return m.Labels }
func (ManagedDatabase) isResource()                         {}

func (s ServerlessService) Kind() ResourceKind                { return KindServerlessService }
func (s ServerlessService) ResourceName() string              { return s.Name }
func (s ServerlessService) ResourceLocation() string          { return s.Region }
func (s ServerlessService) Cost() float64                     { return s.MonthlyCost }
func (s ServerlessService) ResourceLabels() map[string]string { return s.Labels }
func (ServerlessService) isResource()                         {}

// VM lifecycle and resource states used by the classifier
const (
	VMStatusRunning    = "RUNNING"
	VMStatusTerminated = "TERMINATED"
	DBStateRunnable    = "RUNNABLE"
	DiskStatusReady    = "READY"
)

// UnknownUsage marks a 7-day usage signal that could not be collected.
// Records carrying it are never flagged by usage-based rules.
const UnknownUsage = -1
