package gcprun

import (
	"testing"

	"github.com/stretchr/testify/assert"
	run "google.golang.org/api/run/v2"
)

func TestToService(t *testing.T) {
	svc := toService(&run.GoogleCloudRunV2Service{
		Name: "projects/p/locations/europe-west1/services/legacy-webhook",
		Uri:  "https://legacy-webhook-xyz.a.run.app",
		Template: &run.GoogleCloudRunV2RevisionTemplate{
			Scaling: &run.GoogleCloudRunV2RevisionScaling{MinInstanceCount: 2},
			Containers: []*run.GoogleCloudRunV2Container{{
				Resources: &run.GoogleCloudRunV2ResourceRequirements{Limits: map[string]string{"cpu": "1000m", "memory": "512Mi"}},
			}},
		},
		TerminalCondition: &run.GoogleCloudRunV2Condition{State: "CONDITION_SUCCEEDED"},
	})

	assert.Equal(t, "legacy-webhook", svc.Name)
	assert.Equal(t, "europe-west1", svc.Region)
	assert.Equal(t, int64(2), svc.MinInstances)
	assert.Equal(t, 1.0, svc.CPU)
	assert.Equal(t, 0.5, svc.MemoryGiB)
	assert.Equal(t, 98.5, svc.MonthlyCost)
}

func TestParseQuantities(t *testing.T) {
	cpu, ok := parseCPU("2")
	assert.True(t, ok)
	assert.Equal(t, 2.0, cpu)

	_, ok = parseCPU("")
	assert.False(t, ok)

	mem, ok := parseMemoryGiB("2Gi")
	assert.True(t, ok)
	assert.Equal(t, 2.0, mem)

	_, ok = parseMemoryGiB("lots")
	assert.False(t, ok)
}
