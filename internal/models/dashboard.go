package models

// DashboardStats is the per-company roll-up served to the dashboard.
type DashboardStats struct {
	TotalRevenue      float64          `json:"total_revenue"`
	OutstandingAmount float64          `json:"outstanding_amount"`
	DraftCount        int              `json:"draft_count"`
	PendingCount      int              `json:"pending_count"`
	PaidCount         int              `json:"paid_count"`
	OverdueCount      int              `json:"overdue_count"`
	TopClients        []ClientRevenue  `json:"top_clients"`
	MonthlyRevenue    []MonthlyRevenue `json:"monthly_revenue"`
	TeamMembers       int              `json:"team_members"`
	PendingInvites    int              `json:"pending_invites"`
}

// ClientRevenue is the paid revenue attributed to one client.
type ClientRevenue struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

// MonthlyRevenue is the paid revenue booked under one YYYY-MM month.
type MonthlyRevenue struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}
