package gcpsql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	sqladmin "google.golang.org/api/sqladmin/v1beta4"

	"github.com/elC0mpa/cloud-doctor/model"
)

func TestToDatabase(t *testing.T) {
	db := toDatabase(&sqladmin.DatabaseInstance{
		Name:            "legacy-db",
		Region:          "us-central1",
		State:           "RUNNABLE",
		DatabaseVersion: "MYSQL_8_0",
		Settings: &sqladmin.Settings{
			Tier:             "db-n1-standard-2",
			UserLabels:       map[string]string{"team": "crm"},
			ActivationPolicy: "ALWAYS",
		},
	})

	assert.Equal(t, model.DBStateRunnable, db.State)
	assert.Equal(t, 102.2, db.MonthlyCost)
	assert.Equal(t, "crm", db.Labels["team"])
	assert.Equal(t, float64(model.UnknownUsage), db.ConnectionsAverage7d)
}

func TestStoppedDatabase(t *testing.T) {
	db := toDatabase(&sqladmin.DatabaseInstance{
		Name:     "paused",
		State:    "RUNNABLE",
		Settings: &sqladmin.Settings{Tier: "db-f1-micro", ActivationPolicy: "NEVER"},
	})
	assert.Equal(t, "STOPPED", db.State)
}
