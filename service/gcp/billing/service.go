package gcpbilling

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/elC0mpa/cloud-doctor/model"
)

// DefaultDataset is the dataset the billing export is expected in
const DefaultDataset = "billing_export"

func NewService(ctx context.Context, projectID, dataset, billingAccount string, opts ...option.ClientOption) (*service, error) {
	bqClient, err := bigquery.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create BigQuery client: %w", err)
	}
	if dataset == "" {
		dataset = DefaultDataset
	}

	return &service{
		projectID:      projectID,
		dataset:        dataset,
		billingAccount: billingAccount,
		bqClient:       bqClient,
	}, nil
}

// Close closes the BigQuery client
func (s *service) Close() error {
	return s.bqClient.Close()
}

// GetMonthToDateSpend sums the billing export for the project from the first
// of the month up to today
func (s *service) GetMonthToDateSpend(ctx context.Context) (*model.BilledSpend, error) {
	now := time.Now().UTC()
	start := firstDayOfMonth(now)
	startStr := start.Format("2006-01-02")
	endStr := now.AddDate(0, 0, 1).Format("2006-01-02")

	q := s.bqClient.Query(monthToDateQuery(s.projectID, s.dataset, s.billingAccount))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "projectID", Value: s.projectID},
		{Name: "startDate", Value: startStr},
		{Name: "endDate", Value: endStr},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to execute BigQuery query: %w", err)
	}

	spend := &model.BilledSpend{
		DateInterval: model.DateInterval{Start: startStr, End: now.Format("2006-01-02")},
		Currency:     "USD",
	}
	for {
		var row struct {
			TotalCost float64 `bigquery:"total_cost"`
			Currency  string  `bigquery:"currency"`
		}
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read BigQuery row: %w", err)
		}
		spend.Amount += row.TotalCost
		if row.Currency != "" {
			spend.Currency = row.Currency
		}
	}

	return spend, nil
}

// monthToDateQuery targets project.dataset.gcp_billing_export_v1_<ACCOUNT>,
// the table name billing export creates.
func monthToDateQuery(projectID, dataset, billingAccount string) string {
	accountID := strings.ReplaceAll(billingAccount, "billingAccounts/", "")
	accountID = strings.ReplaceAll(accountID, "-", "_")

	return fmt.Sprintf(`
		SELECT
			SUM(cost) AS total_cost,
			currency
		FROM `+"`%s.%s.gcp_billing_export_v1_%s`"+`
		WHERE
			project.id = @projectID
			AND DATE(usage_start_time) >= @startDate
			AND DATE(usage_start_time) < @endDate
		GROUP BY currency
	`, projectID, dataset, accountID)
}

func firstDayOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
