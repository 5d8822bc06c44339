package dto

import "github.com/fieldworks/parts-order-api/internal/models"

// PeriodStats buckets the requests whose submission date falls inside the
// requested window. InProgress sums ordering plus both completed states;
// Delayed counts orders completed without a confirmed delivery date.
type PeriodStats struct {
	New        int `json:"new"`
	Requested  int `json:"requested"`
	InProgress int `json:"inProgress"`
	Delayed    int `json:"delayed"`
	Completed  int `json:"completed"`
	Total      int `json:"total"`
}

// DashboardStats carries lifetime totals by status plus the period buckets.
type DashboardStats struct {
	Total     int         `json:"total"`
	Requested int         `json:"requested"`
	Ordering  int         `json:"ordering"`
	Completed int         `json:"completed"`
	Finished  int         `json:"finished"`
	Cancelled int         `json:"cancelled"`
	Period    PeriodStats `json:"period"`
}

// DelayedRequest annotates a stuck order with how many whole days it has
// been waiting since the order date.
type DelayedRequest struct {
	models.Request
	DelayDays int `json:"delayDays"`
}

// DashboardResponse is the composed dashboard payload.
type DashboardResponse struct {
	Stats         DashboardStats    `json:"stats"`
	Recent        []models.Request  `json:"recent"`
	Urgent        []models.Request  `json:"urgent"`
	Delayed       []DelayedRequest  `json:"delayed"`
	Notifications []models.Request  `json:"notifications"`
	Requests      []models.Request  `json:"requests"`
}
