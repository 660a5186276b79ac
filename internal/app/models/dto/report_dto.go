package dto

import "time"

// FunnelStage is one step of the lead conversion funnel
type FunnelStage struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// FunnelReport summarizes lead progression for a period
type FunnelReport struct {
	From           time.Time     `json:"from"`
	To             time.Time     `json:"to"`
	Stages         []FunnelStage `json:"stages"`
	ConversionRate float64       `json:"conversionRate"`
	BySource       map[string]int64 `json:"bySource"`
}

// RevenueRow is revenue for one center within a period
type RevenueRow struct {
	CenterID    int64  `json:"centerId"`
	CenterName  string `json:"centerName"`
	AmountPaise int64  `json:"amountPaise"`
	Payments    int64  `json:"payments"`
}

// RevenueReport summarizes verified payments for a period
type RevenueReport struct {
	From       time.Time    `json:"from"`
	To         time.Time    `json:"to"`
	TotalPaise int64        `json:"totalPaise"`
	ByCenter   []RevenueRow `json:"byCenter"`
	ByPlan     map[string]int64 `json:"byPlan"`
}

// AttendanceRow is attendance aggregates for one batch
type AttendanceRow struct {
	BatchID   int64   `json:"batchId"`
	BatchName string  `json:"batchName"`
	Present   int64   `json:"present"`
	Absent    int64   `json:"absent"`
	Late      int64   `json:"late"`
	Rate      float64 `json:"rate"`
}

// AttendanceReport summarizes roll calls for a period
type AttendanceReport struct {
	From    time.Time       `json:"from"`
	To      time.Time       `json:"to"`
	ByBatch []AttendanceRow `json:"byBatch"`
}

// ReportPeriod carries the parsed from/to query range
type ReportPeriod struct {
	From     time.Time
	To       time.Time
	CenterID int64
}

// ActivityItem is one entry in the command center feed
type ActivityItem struct {
	Kind    string    `json:"kind" example:"LEAD_CREATED"`
	At      time.Time `json:"at"`
	Summary string    `json:"summary"`
	LeadID  *int64    `json:"leadId,omitempty"`
	UserID  *int64    `json:"userId,omitempty"`
}

// HeatmapDay is one calendar day of the trial load heatmap
type HeatmapDay struct {
	Date   time.Time `json:"date"`
	Trials int64     `json:"trials"`
}

// CommandCenterResponse is the consolidated operations dashboard payload
type CommandCenterResponse struct {
	Feed            []ActivityItem `json:"feed"`
	TrialHeatmap    []HeatmapDay   `json:"trialHeatmap"`
	OverdueFollowups int64         `json:"overdueFollowups"`
	ExpiringSoon    int64          `json:"expiringSoon"`
	PendingStaging  int64          `json:"pendingStaging"`
	PendingPayments int64          `json:"pendingPayments"`
}
