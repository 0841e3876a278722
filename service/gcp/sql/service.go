package gcpsql

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sqladmin "google.golang.org/api/sqladmin/v1beta4"

	"github.com/elC0mpa/cloud-doctor/model"
	"github.com/elC0mpa/cloud-doctor/service/pricing"
)

func NewService(ctx context.Context, projectID string, opts ...option.ClientOption) (*service, error) {
	opts = append(opts, option.WithScopes(sqladmin.SqlserviceAdminScope))
	client, err := sqladmin.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Cloud SQL client: %w", err)
	}
	return &service{projectID: projectID, client: client}, nil
}

// ListDatabases returns the project's Cloud SQL instances. Connection
// counts are left unknown for the caller to join.
func (s *service) ListDatabases(ctx context.Context) ([]model.ManagedDatabase, error) {
	var dbs []model.ManagedDatabase
	err := s.client.Instances.List(s.projectID).Context(ctx).
		Pages(ctx, func(page *sqladmin.InstancesListResponse) error {
			for _, instance := range page.Items {
				dbs = append(dbs, toDatabase(instance))
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to list Cloud SQL instances: %w", err)
	}
	return dbs, nil
}

func toDatabase(instance *sqladmin.DatabaseInstance) model.ManagedDatabase {
	db := model.ManagedDatabase{
		ID:                   instance.Name,
		Name:                 instance.Name,
		Region:               instance.Region,
		DatabaseVersion:      instance.DatabaseVersion,
		State:                instance.State,
		ConnectionsAverage7d: model.UnknownUsage,
	}
	if instance.Settings != nil {
		db.Tier = instance.Settings.Tier
		db.Labels = instance.Settings.UserLabels
		// Stopped instances have activation policy NEVER and do not bill for compute
		if instance.Settings.ActivationPolicy == "NEVER" {
			db.State = "STOPPED"
		}
	}
	db.MonthlyCost = pricing.DatabaseCost(db.Tier)
	return db
}
