package domain

import "fmt"

type Invoice struct {
	Number     string
	PDFPath    string
	GrandTotal float64
}

type RecentInvoice struct {
	ID     string  `json:"id"`
	Client string  `json:"client"`
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
}

// DashboardMetrics mirrors the admin_dashboard_data payload.
type DashboardMetrics struct {
	TotalInvoices  int             `json:"totalInvoices"`
	TotalRevenue   float64         `json:"totalRevenue"`
	ActiveUsers    int             `json:"activeUsers"`
	ProductsSold   int             `json:"productsSold"`
	RevenueData    []float64       `json:"revenueData"`
	Labels         []string        `json:"labels"`
	RecentInvoices []RecentInvoice `json:"recentInvoices"`
}

func FormatAmount(v float64) string {
	return fmt.Sprintf("₹%.2f", v)
}
