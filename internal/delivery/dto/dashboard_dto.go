package dto

import "github.com/shopspring/decimal"

type DashboardStatsResponse struct {
	TotalPatients      int64           `json:"total_patients"`
	TodayTokens        int64           `json:"today_tokens"`
	ActiveTokens       int64           `json:"active_tokens"`
	TotalPrescriptions int64           `json:"total_prescriptions"`
	PendingBills       int64           `json:"pending_bills"`
	TodayRevenue       decimal.Decimal `json:"today_revenue"`
}
