// internal/controller/dispatch_controller.go
package controller

import (
    "context"
    "encoding/json"
    "log"
    "net/http"

    "github.com/webasthetic/leadmailer-backend/internal/model"
    "github.com/webasthetic/leadmailer-backend/internal/queue"
)

// BatchRunner is what the controller needs from the dispatcher.
type BatchRunner interface {
    RunBatch(ctx context.Context) (*model.BatchSummary, error)
}

type DispatchController struct {
    Dispatcher BatchRunner
    Queue      queue.Queue
}

// StartDispatch triggers one batch in the background and returns
// immediately. Completion is reported to the optional callback_url, the
// way the orchestrator resumes its workflow.
func (c *DispatchController) StartDispatch(w http.ResponseWriter, r *http.Request) {
    var body struct {
        CallbackURL string `json:"callback_url"`
    }
    if r.Body != nil && r.ContentLength != 0 {
        if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
            http.Error(w, "invalid body", http.StatusBadRequest)
            return
        }
    }

    if err := c.Queue.Publish("email_dispatch", queue.DispatchJob{CallbackURL: body.CallbackURL}); err != nil {
        log.Println("⚠️ Failed to enqueue dispatch trigger:", err)
        http.Error(w, "failed to start dispatch", http.StatusInternalServerError)
        return
    }

    json.NewEncoder(w).Encode(map[string]interface{}{
        "status":  "started",
        "message": "Dispatcher started. Will callback when done.",
    })
}

// RunDispatch runs one batch inline and returns the summary. Cancelling
// the request stops the loop before the next send.
func (c *DispatchController) RunDispatch(w http.ResponseWriter, r *http.Request) {
    summary, err := c.Dispatcher.RunBatch(r.Context())
    w.Header().Set("Content-Type", "application/json")
    if err != nil {
        w.WriteHeader(http.StatusBadGateway)
        json.NewEncoder(w).Encode(map[string]interface{}{
            "status":  "error",
            "error":   err.Error(),
            "summary": summary,
        })
        return
    }
    json.NewEncoder(w).Encode(summary)
}
