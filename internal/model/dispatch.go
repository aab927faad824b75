// internal/model/dispatch.go
package model

import "time"

// Failure kinds recorded in a batch summary. FailureKindMark means the
// message was delivered but the store update failed, so the lead is still
// eligible and may be sent again on the next run.
const (
    FailureKindSend = "send"
    FailureKindMark = "mark"
)

type SendFailure struct {
    LeadID int    `json:"lead_id"`
    Email  string `json:"email"`
    Kind   string `json:"kind"`
    Reason string `json:"reason"`
}

// BatchSummary is the result of one dispatch run.
type BatchSummary struct {
    BatchID    string        `json:"batch_id"`
    Attempted  int           `json:"attempted"`
    Sent       int           `json:"sent"`
    Failed     int           `json:"failed"`
    MarkFailed int           `json:"mark_failed"`
    StartedAt  time.Time     `json:"started_at"`
    FinishedAt time.Time     `json:"finished_at"`
    Failures   []SendFailure `json:"failures,omitempty"`
}
