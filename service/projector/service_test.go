package projector

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elC0mpa/cloud-doctor/model"
)

func TestProject(t *testing.T) {
	vm := model.VM{Name: "web-01", Zone: "us-central1-a", CPUAverage7d: 0.03, MonthlyCost: 97.8, Labels: map[string]string{"env": "dev"}}
	disk := model.Disk{Name: "orphan", Zone: "us-central1-b", MonthlyCost: 17}

	got := Project([]model.Candidate{
		{Reason: model.ReasonIdleCompute, PotentialSavings: 97.8, Resource: vm},
		{Reason: model.ReasonOrphanedAsset, PotentialSavings: 17, Resource: disk},
	})

	require.Len(t, got, 2)
	assert.Equal(t, "compute-instance/web-01", got[0].Key)
	assert.Equal(t, 0.03, got[0].Metadata["cpuAverage"])
	assert.Equal(t, 97.8, got[0].Metadata["cost"])
	assert.Equal(t, "IDLE_COMPUTE", got[0].Metadata["reason"])
	assert.Equal(t, map[string]string{"env": "dev"}, got[0].Metadata["labels"])

	assert.Equal(t, "persistent-disk/orphan", got[1].Key)
	assert.Equal(t, 0.0, got[1].Metadata["cpuAverage"])
	assert.Equal(t, "persistent-disk", got[1].Metadata["type"])
	assert.Equal(t, "cloud-doctor://persistent-disk/orphan", URI(got[1]))
}

func TestProjectMergesReasonsPerResource(t *testing.T) {
	vm := model.VM{Name: "gpu-01", Zone: "us-central1-a", Accelerators: 1, CPUAverage7d: 0.04, MonthlyCost: 400}

	got := Project([]model.Candidate{
		{Reason: model.ReasonIdleCompute, Detail: "idle", PotentialSavings: 400, Resource: vm},
		{Reason: model.ReasonUnderutilizedGPU, Detail: "gpu unused", PotentialSavings: 280, Resource: vm},
	})

	require.Len(t, got, 1)
	assert.Equal(t, "compute-instance/gpu-01", got[0].Key)
	assert.Equal(t, "IDLE_COMPUTE", got[0].Metadata["reason"])
	assert.Equal(t, []string{"IDLE_COMPUTE", "UNDERUTILIZED_GPU"}, got[0].Metadata["reasons"])
	assert.Equal(t, 400.0, got[0].Metadata["savings"])
	assert.Equal(t, "idle; gpu unused", got[0].Metadata["detail"])
}

func TestProjectDoesNotShareLabels(t *testing.T) {
	labels := map[string]string{"team": "data"}
	got := Project([]model.Candidate{{Reason: model.ReasonIdleDatabase, Resource: model.ManagedDatabase{Name: "db", Labels: labels}}})

	got[0].Metadata["labels"].(map[string]string)["team"] = "changed"
	assert.Equal(t, "data", labels["team"])
}

func TestProjectedContextHidesRawRecord(t *testing.T) {
	svc := model.ServerlessService{Name: "api", URL: "https://api-xyz.a.run.app", MonthlyCost: 49.25}
	got := Project([]model.Candidate{{Reason: model.ReasonZombieService, Resource: svc}})

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "a.run.app")
	assert.Contains(t, string(raw), `"uri":"cloudrun-service/api"`)
}

func TestProjectEmpty(t *testing.T) {
	assert.Empty(t, Project(nil))
}
