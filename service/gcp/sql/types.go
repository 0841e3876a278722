package gcpsql

import (
	"context"

	sqladmin "google.golang.org/api/sqladmin/v1beta4"

	"github.com/elC0mpa/cloud-doctor/model"
)

type service struct {
	projectID string
	client    *sqladmin.Service
}

type SQLService interface {
	ListDatabases(ctx context.Context) ([]model.ManagedDatabase, error)
}
