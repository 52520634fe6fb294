package domain

import "time"

// Status is the terminal state of one probe.
type Status string

const (
	StatusOnline  Status = "Online"
	StatusOffline Status = "Offline"
)

// NotAvailable is the response time shown for hosts that never connected.
const NotAvailable = "N/A"

// CheckResult is the external record for one probed host.
type CheckResult struct {
	Server       string `json:"server"`
	Status       Status `json:"status"`
	ResponseTime string `json:"response_time"` // duration string, or "N/A" when offline
	Details      string `json:"details"`
	Reason       string `json:"reason,omitempty"` // timeout|refused|dns|unreachable|error
}

// Report is the external record for one batch.
type Report struct {
	ID        string        `json:"id"`
	Port      uint16        `json:"port"`
	TimeoutMS int64         `json:"timeout_ms"`
	StartedAt time.Time     `json:"started_at"`
	ElapsedMS float64       `json:"elapsed_ms"`
	Online    int           `json:"online"`
	Offline   int           `json:"offline"`
	Results   []CheckResult `json:"results"`
}
