package sequencer

import "coldcommand/models"

// CapacityEstimate projects how long the campaign needs to reach every lead.
// It is computed on each read and never stored.
type CapacityEstimate struct {
	LeadCount          int `json:"lead_count"`
	ActiveAccountCount int `json:"active_account_count"`
	DailyCapacity      int `json:"daily_capacity"`
	DaysToComplete     int `json:"days_to_complete"`
}

// EstimateCapacity sums daily limits of active accounts. DaysToComplete is 0
// when there is no capacity or nothing to send.
func EstimateCapacity(leadCount int, accounts []models.EmailAccount) CapacityEstimate {
	est := CapacityEstimate{LeadCount: leadCount}
	for _, a := range accounts {
		if !a.IsActive() {
			continue
		}
		est.ActiveAccountCount++
		if a.DailyLimit > 0 {
			est.DailyCapacity += a.DailyLimit
		}
	}
	if est.DailyCapacity > 0 && leadCount > 0 {
		est.DaysToComplete = (leadCount + est.DailyCapacity - 1) / est.DailyCapacity
	}
	return est
}
