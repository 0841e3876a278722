// Package report composes the closing report of a run without calling any
// external service.
package report

import (
	"context"

	"github.com/elC0mpa/cloud-doctor/model"
)

// NoWasteMessage opens the report when the classifier found nothing
const NoWasteMessage = "No waste found: every resource in the inventory is in use."

type reportService struct{}

type ReportService interface {
	GenerateReport(ctx context.Context, in model.ReportInput) string
}
