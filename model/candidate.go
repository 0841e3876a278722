package model

import (
	"encoding/json"
	"fmt"
)

// ReasonCode is the classification reason attached to a candidate
type ReasonCode string

const (
	ReasonIdleCompute      ReasonCode = "IDLE_COMPUTE"
	ReasonOverProvisioned  ReasonCode = "OVER_PROVISIONED"
	ReasonUnderutilizedGPU ReasonCode = "UNDERUTILIZED_GPU"
	ReasonOrphanedAsset    ReasonCode = "ORPHANED_ASSET"
	ReasonIdleDatabase     ReasonCode = "IDLE_DATABASE"
	ReasonZombieService    ReasonCode = "ZOMBIE_SERVICE"
)

// Candidate is a resource flagged as wasteful by the classifier
type Candidate struct {
	Reason           ReasonCode
	Detail           string
	PotentialSavings float64
	Resource         Resource
}

// Name returns the flagged resource's name
func (c Candidate) Name() string {
	if c.Resource == nil {
		return ""
	}
	return c.Resource.ResourceName()
}

// Kind returns the flagged resource's kind
func (c Candidate) Kind() ResourceKind {
	if c.Resource == nil {
		return ""
	}
	return c.Resource.Kind()
}

type candidateJSON struct {
	Reason           ReasonCode      `json:"reason"`
	Detail           string          `json:"detail"`
	PotentialSavings float64         `json:"potentialSavings"`
	ResourceKind     ResourceKind    `json:"resourceKind"`
	Resource         json.RawMessage `json:"resource"`
}

// MarshalJSON tags the embedded resource with its kind so it can be decoded
// back into the concrete record type.
func (c Candidate) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(c.Resource)
	if err != nil {
		return nil, err
	}
	return json.Marshal(candidateJSON{
		Reason:           c.Reason,
		Detail:           c.Detail,
		PotentialSavings: c.PotentialSavings,
		ResourceKind:     c.Kind(),
		Resource:         raw,
	})
}

func (c *Candidate) UnmarshalJSON(data []byte) error {
	var aux candidateJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	c.Reason = aux.Reason
	c.Detail = aux.Detail
	c.PotentialSavings = aux.PotentialSavings

	switch aux.ResourceKind {
	case KindVM:
		var r VM
		if err := json.Unmarshal(aux.Resource, &r); err != nil {
			return err
		}
		c.Resource = r
	case KindDisk:
		var r Disk
		if err := json.Unmarshal(aux.Resource, &r); err != nil {
			return err
		}
		c.Resource = r
	case KindManagedDatabase:
		var r ManagedDatabase
		if err := json.Unmarshal(aux.Resource, &r); err != nil {
			return err
		}
		c.Resource = r
	case KindServerlessService:
		var r ServerlessService
		if err := json.Unmarshal(aux.Resource, &r); err != nil {
			return err
		}
		c.Resource = r
	case "":
		c.Resource = nil
	default:
		return fmt.Errorf("unknown resource kind %q", aux.ResourceKind)
	}
	return nil
}

// ResourceContext is the vendor-neutral projection of a candidate. It is the
// only view of the inventory handed to the reasoning service.
type ResourceContext struct {
	Key      string         `json:"uri"`
	Metadata map[string]any `json:"metadata"`
}
