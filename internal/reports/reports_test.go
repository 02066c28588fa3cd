package reports

import (
	"testing"

	"dinedesk-pos-service/internal/upstream"
)

func TestNormalizeOrdersAndDerives(t *testing.T) {
	raw := upstream.DashboardReport{
		TotalRevenue: 12480,
		DailySales: []upstream.DailySale{
			{Date: "2026-08-30", TotalSales: 4200},
			{Date: "2026-08-28", TotalSales: 3100},
			{Date: "2026-08-29", TotalSales: 5180},
		},
		TopSellingItems: []upstream.TopSellingItem{
			{Name: "Gulab Jamun", TotalQuantity: 18},
			{Name: "Paneer Tikka", TotalQuantity: 42},
		},
		EmployeePerformance: []upstream.EmployeePerformance{
			{WorkerID: "w-2", WorkerName: "Ravi", BillsCount: 10, TotalSales: 4800},
			{WorkerID: "w-1", WorkerName: "Asha", BillsCount: 16, TotalSales: 7680, AOV: 480},
		},
	}

	dashboard := Normalize(raw)

	for i := 1; i < len(dashboard.DailySales); i++ {
		if dashboard.DailySales[i-1].Date > dashboard.DailySales[i].Date {
			t.Fatalf("daily sales out of order: %s after %s",
				dashboard.DailySales[i].Date, dashboard.DailySales[i-1].Date)
		}
	}

	if dashboard.TopSellingItemName != "Paneer Tikka" {
		t.Fatalf("expected Paneer Tikka on top, got %q", dashboard.TopSellingItemName)
	}
	if dashboard.TopPerformerName != "Asha" {
		t.Fatalf("expected Asha on top, got %q", dashboard.TopPerformerName)
	}

	// Ravi's AOV was absent in the aggregate and must be derived.
	var ravi upstream.EmployeePerformance
	for _, emp := range dashboard.EmployeePerformance {
		if emp.WorkerID == "w-2" {
			ravi = emp
		}
	}
	if ravi.AOV != 480 {
		t.Fatalf("expected derived AOV 480, got %v", ravi.AOV)
	}
}

func TestNormalizeEmptyReport(t *testing.T) {
	dashboard := Normalize(upstream.DashboardReport{})
	if dashboard.DailySales == nil || dashboard.TopSellingItems == nil || dashboard.EmployeePerformance == nil {
		t.Fatal("expected non-nil collections")
	}
	if dashboard.TopSellingItemName != "" || dashboard.TopPerformerName != "" {
		t.Fatal("expected no headline names on an empty report")
	}
}
