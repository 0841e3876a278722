package gcpbilling

import (
	"context"

	"cloud.google.com/go/bigquery"

	"github.com/elC0mpa/cloud-doctor/model"
)

type service struct {
	projectID      string
	dataset        string
	billingAccount string
	bqClient       *bigquery.Client
}

type BillingService interface {
	GetMonthToDateSpend(ctx context.Context) (*model.BilledSpend, error)
	Close() error
}
