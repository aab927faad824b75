// internal/service/notifier.go
package service

import (
    "bytes"
    "encoding/json"
    "fmt"
    "log"
    "net/http"
    "time"

    "github.com/webasthetic/leadmailer-backend/internal/model"
)

// CallbackNotifier reports batch completion to an orchestrator webhook
// (n8n style). Fire-and-forget: failures are logged, never propagated.
type CallbackNotifier struct {
    Client *http.Client
}

func NewCallbackNotifier() *CallbackNotifier {
    return &CallbackNotifier{
        Client: &http.Client{Timeout: 15 * time.Second},
    }
}

type callbackPayload struct {
    Status      string `json:"status"`
    Message     string `json:"message"`
    BatchID     string `json:"batch_id,omitempty"`
    SentCount   int    `json:"sent_count"`
    FailedCount int    `json:"failed_count"`
}

// NotifyComplete posts the run summary to callbackURL. A runErr turns the
// status into "error" but the counts still reflect what happened before
// the abort.
func (n *CallbackNotifier) NotifyComplete(callbackURL string, summary *model.BatchSummary, runErr error) {
    if callbackURL == "" {
        return
    }

    payload := callbackPayload{
        Status:      "success",
        Message:     fmt.Sprintf("Email dispatch complete. Sent %d, Failed %d", summary.Sent, summary.Failed),
        BatchID:     summary.BatchID,
        SentCount:   summary.Sent,
        FailedCount: summary.Failed,
    }
    if runErr != nil {
        payload.Status = "error"
        payload.Message = runErr.Error()
    }

    body, err := json.Marshal(payload)
    if err != nil {
        log.Println("❌ Callback payload marshal failed:", err)
        return
    }

    log.Println("📞 Calling back orchestrator at:", callbackURL)
    resp, err := n.Client.Post(callbackURL, "application/json", bytes.NewReader(body))
    if err != nil {
        log.Println("❌ Callback failed:", err)
        return
    }
    defer resp.Body.Close()
    log.Println("✅ Callback sent. Status:", resp.StatusCode)
}
