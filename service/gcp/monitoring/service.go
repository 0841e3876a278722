package gcpmonitoring

import (
	"context"
	"fmt"
	"strings"
	"time"

	monitoring "google.golang.org/api/monitoring/v3"
	"google.golang.org/api/option"
)

func NewService(ctx context.Context, projectID string, opts ...option.ClientOption) (*service, error) {
	opts = append(opts, option.WithScopes(monitoring.MonitoringReadScope))
	client, err := monitoring.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Monitoring client: %w", err)
	}
	return &service{
		projectID: projectID,
		client:    client,
		now:       time.Now,
	}, nil
}

// CPUAverages returns the 7-day mean CPU utilization (0..1) per instance name
func (s *service) CPUAverages(ctx context.Context) (map[string]float64, error) {
	out := map[string]float64{}
	err := s.query(ctx, cpuUtilizationMetric, "ALIGN_MEAN", func(ts *monitoring.TimeSeries) {
		name := metricLabel(ts, "instance_name")
		if v, ok := doubleValue(ts); ok && name != "" {
			out[name] = v
		}
	})
	return out, err
}

// ConnectionAverages returns the 7-day mean connection count per Cloud SQL
// instance name
func (s *service) ConnectionAverages(ctx context.Context) (map[string]float64, error) {
	out := map[string]float64{}
	err := s.query(ctx, sqlConnectionsMetric, "ALIGN_MEAN", func(ts *monitoring.TimeSeries) {
		// database_id is "<project>:<instance>"
		id := resourceLabel(ts, "database_id")
		name := id[strings.LastIndex(id, ":")+1:]
		if v, ok := doubleValue(ts); ok && name != "" {
			out[name] = v
		}
	})
	return out, err
}

// RequestCounts returns the 7-day request total per Cloud Run service
func (s *service) RequestCounts(ctx context.Context) (map[string]int64, error) {
	out := map[string]int64{}
	err := s.query(ctx, runRequestCount, "ALIGN_SUM", func(ts *monitoring.TimeSeries) {
		name := resourceLabel(ts, "service_name")
		if name == "" {
			return
		}
		for _, p := range ts.Points {
			if p.Value != nil && p.Value.Int64Value != nil {
				out[name] += *p.Value.Int64Value
			}
		}
	})
	return out, err
}

func (s *service) query(ctx context.Context, metricType, aligner string, each func(*monitoring.TimeSeries)) error {
	end := s.now().UTC()
	start := end.Add(-UsageWindow)

	call := s.client.Projects.TimeSeries.List("projects/" + s.projectID).
		Filter(fmt.Sprintf(`metric.type = %q`, metricType)).
		IntervalStartTime(start.Format(time.RFC3339)).
		IntervalEndTime(end.Format(time.RFC3339)).
		AggregationAlignmentPeriod(fmt.Sprintf("%ds", int64(UsageWindow.Seconds()))).
		AggregationPerSeriesAligner(aligner).
		View("FULL").
		Context(ctx)

	err := call.Pages(ctx, func(page *monitoring.ListTimeSeriesResponse) error {
		for _, ts := range page.TimeSeries {
			each(ts)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", metricType, err)
	}
	return nil
}

// doubleValue averages the points of a series; one point is expected with
// a 7-day alignment period
func doubleValue(ts *monitoring.TimeSeries) (float64, bool) {
	var sum float64
	var n int
	for _, p := range ts.Points {
		if p.Value == nil {
			continue
		}
		switch {
		case p.Value.DoubleValue != nil:
			sum += *p.Value.DoubleValue
		case p.Value.Int64Value != nil:
			sum += float64(*p.Value.Int64Value)
		default:
			continue
		}
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func metricLabel(ts *monitoring.TimeSeries, key string) string {
	if ts.Metric == nil {
		return ""
	}
	return ts.Metric.Labels[key]
}

func resourceLabel(ts *monitoring.TimeSeries, key string) string {
	if ts.Resource == nil {
		return ""
	}
	return ts.Resource.Labels[key]
}
