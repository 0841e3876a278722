// Package projector turns optimization candidates into vendor-neutral
// resource contexts for the reasoning service.
package projector

import (
	"github.com/elC0mpa/cloud-doctor/model"
)

// URIScheme prefixes resource context keys when they are published as MCP
// resources.
const URIScheme = "cloud-doctor://"

// Project maps candidates to resource contexts keyed
// "<resource-type>/<resource-name>". A resource flagged for several reasons
// yields one context: "reason" holds the first reason, "reasons" all of them,
// and "savings" the largest potential saving. Raw records never leave this
// package; only the metadata bag below is exposed.
func Project(candidates []model.Candidate) []model.ResourceContext {
	out := make([]model.ResourceContext, 0, len(candidates))
	index := map[string]int{}
	for _, c := range candidates {
		if c.Resource == nil {
			continue
		}
		key := Key(c.Resource)
		if i, ok := index[key]; ok {
			merge(out[i].Metadata, c)
			continue
		}
		index[key] = len(out)
		out = append(out, model.ResourceContext{
			Key: key,
			Metadata: map[string]any{
				"cost":       c.Resource.Cost(),
				"cpuAverage": cpuAverage(c.Resource),
				"labels":     copyLabels(c.Resource.ResourceLabels()),
				"reason":     string(c.Reason),
				"reasons":    []string{string(c.Reason)},
				"type":       string(c.Resource.Kind()),
				"location":   c.Resource.ResourceLocation(),
				"savings":    c.PotentialSavings,
				"detail":     c.Detail,
			},
		})
	}
	return out
}

func merge(meta map[string]any, c model.Candidate) {
	meta["reasons"] = append(meta["reasons"].([]string), string(c.Reason))
	if c.PotentialSavings > meta["savings"].(float64) {
		meta["savings"] = c.PotentialSavings
	}
	if c.Detail != "" {
		meta["detail"] = meta["detail"].(string) + "; " + c.Detail
	}
}

// Key returns the stable context key of a resource
func Key(r model.Resource) string {
	return string(r.Kind()) + "/" + r.ResourceName()
}

// URI returns the MCP resource URI of a context
func URI(ctx model.ResourceContext) string {
	return URIScheme + ctx.Key
}

func cpuAverage(r model.Resource) float64 {
	switch v := r.(type) {
	case model.VM:
		return v.CPUAverage7d
	case model.Disk, model.ManagedDatabase, model.ServerlessService:
		return 0
	}
	return 0
}

func copyLabels(labels map[string]string) map[string]string {
	out := make(map[string]string, len(labels))
	for k, v := range labels {
		out[k] = v
	}
	return out
}
