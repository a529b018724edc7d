package universe

import "time"

// Entry is one curated ticker on the radar. Exposure is the 1-10
// conviction rating that also sizes the ladder core.
type Entry struct {
	Ticker         string    `json:"ticker"`
	Name           string    `json:"name"`
	Category       string    `json:"category,omitempty"`
	Exposure       *int      `json:"exposure,omitempty"`
	WKN            string    `json:"wkn,omitempty"`
	ReferencePrice *float64  `json:"reference_price,omitempty"`
	AddedAt        time.Time `json:"added_at"`
}

// Snapshot is one scored radar entry persisted by a universe scan.
type Snapshot struct {
	ScanID     string    `json:"scan_id"`
	Ticker     string    `json:"ticker"`
	STS        float64   `json:"sts"`
	LAS        float64   `json:"las"`
	Bucket     string    `json:"bucket"`
	IsReversal bool      `json:"is_reversal"`
	CreatedAt  time.Time `json:"created_at"`
}
