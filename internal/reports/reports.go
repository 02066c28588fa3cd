// Package reports shapes the analytics dashboard for the terminal.
package reports

import (
	"context"
	"sort"

	"dinedesk-pos-service/internal/session"
	"dinedesk-pos-service/internal/upstream"

	"go.uber.org/zap"
)

// Dashboard is the normalized report. Every collection is present, ordered
// and non-nil, and derived values are filled in so the terminal renders it
// without defensive checks.
type Dashboard struct {
	TotalRevenue        float64                        `json:"totalRevenue"`
	TopSellingItemName  string                         `json:"topSellingItemName,omitempty"`
	TopPerformerName    string                         `json:"topPerformerName,omitempty"`
	DailySales          []upstream.DailySale           `json:"dailySales"`
	TopSellingItems     []upstream.TopSellingItem      `json:"topSellingItems"`
	EmployeePerformance []upstream.EmployeePerformance `json:"employeePerformance"`
}

type Service struct {
	client *upstream.Client
	logger *zap.Logger
}

func NewService(client *upstream.Client, logger *zap.Logger) *Service {
	return &Service{client: client, logger: logger}
}

func (s *Service) Dashboard(ctx context.Context, sess *session.Context) (Dashboard, error) {
	raw, err := s.client.DashboardReport(ctx, sess)
	if err != nil {
		return Dashboard{}, err
	}
	return Normalize(raw), nil
}

// Normalize orders the raw aggregates and fills derived fields: daily sales
// chronologically, top sellers by quantity, staff by takings with the average
// order value computed when the aggregation left it out.
func Normalize(raw upstream.DashboardReport) Dashboard {
	dashboard := Dashboard{
		TotalRevenue:        raw.TotalRevenue,
		DailySales:          append([]upstream.DailySale(nil), raw.DailySales...),
		TopSellingItems:     append([]upstream.TopSellingItem(nil), raw.TopSellingItems...),
		EmployeePerformance: append([]upstream.EmployeePerformance(nil), raw.EmployeePerformance...),
	}
	if dashboard.DailySales == nil {
		dashboard.DailySales = []upstream.DailySale{}
	}
	if dashboard.TopSellingItems == nil {
		dashboard.TopSellingItems = []upstream.TopSellingItem{}
	}
	if dashboard.EmployeePerformance == nil {
		dashboard.EmployeePerformance = []upstream.EmployeePerformance{}
	}

	// ISO dates sort correctly as strings.
	sort.SliceStable(dashboard.DailySales, func(i, j int) bool {
		return dashboard.DailySales[i].Date < dashboard.DailySales[j].Date
	})
	sort.SliceStable(dashboard.TopSellingItems, func(i, j int) bool {
		return dashboard.TopSellingItems[i].TotalQuantity > dashboard.TopSellingItems[j].TotalQuantity
	})

	for i := range dashboard.EmployeePerformance {
		emp := &dashboard.EmployeePerformance[i]
		if emp.AOV == 0 && emp.BillsCount > 0 {
			emp.AOV = emp.TotalSales / float64(emp.BillsCount)
		}
	}
	sort.SliceStable(dashboard.EmployeePerformance, func(i, j int) bool {
		return dashboard.EmployeePerformance[i].TotalSales > dashboard.EmployeePerformance[j].TotalSales
	})

	if len(dashboard.TopSellingItems) > 0 {
		dashboard.TopSellingItemName = dashboard.TopSellingItems[0].Name
	}
	if len(dashboard.EmployeePerformance) > 0 {
		dashboard.TopPerformerName = dashboard.EmployeePerformance[0].WorkerName
	}
	return dashboard
}
