package billing

// QuotaStatus is the per-resource allowance snapshot.
type QuotaStatus struct {
	Allowed   int `json:"allowed"`
	Used      int `json:"used"`
	Remaining int `json:"remaining"`
}

// PeriodInfo describes the current usage-counting window. FREE plans
// have a lifetime window, so all timestamps are null.
type PeriodInfo struct {
	Type     string  `json:"type"`
	StartAt  *string `json:"start_at"`
	EndAt    *string `json:"end_at"`
	ResetsAt *string `json:"resets_at"`
}

// Entitlements is the full plan snapshot returned to the client.
type Entitlements struct {
	Plan   string                 `json:"plan"`
	Period PeriodInfo             `json:"period"`
	Quotas map[string]QuotaStatus `json:"quotas"`
}
