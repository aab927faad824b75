// internal/service/dispatcher.go
package service

import (
    "context"
    "log"
    "time"

    "github.com/google/uuid"

    "github.com/webasthetic/leadmailer-backend/internal/config"
    appErrors "github.com/webasthetic/leadmailer-backend/internal/errors"
    "github.com/webasthetic/leadmailer-backend/internal/mailer"
    "github.com/webasthetic/leadmailer-backend/internal/model"
    "github.com/webasthetic/leadmailer-backend/internal/repository"
)

// Dispatcher runs the send-and-mark loop: pick up to BatchSize pending
// leads, send each over SMTP one at a time, mark success immediately and
// pause Delay between messages.
type Dispatcher struct {
    Leads  repository.LeadRepositoryInterface
    Mailer mailer.Transport
    Config config.Dispatch

    // Swapped out in tests
    Now   func() time.Time
    Sleep func(ctx context.Context, d time.Duration)
}

func NewDispatcher(leads repository.LeadRepositoryInterface, m mailer.Transport, cfg config.Dispatch) *Dispatcher {
    return &Dispatcher{
        Leads:  leads,
        Mailer: m,
        Config: cfg,
        Now:    time.Now,
        Sleep:  sleepCtx,
    }
}

// RunBatch processes one batch. A per-recipient failure never aborts the
// run; an authentication failure does, since no further sends are possible
// on that connection. Cancellation via ctx stops before the next send,
// never mid-send, and the partial summary is still returned.
func (d *Dispatcher) RunBatch(ctx context.Context) (*model.BatchSummary, error) {
    summary := &model.BatchSummary{
        BatchID:   uuid.NewString(),
        StartedAt: d.Now(),
    }
    defer func() { summary.FinishedAt = d.Now() }()

    log.Printf("📨 Starting email dispatch (batch %s, size %d)...", summary.BatchID, d.Config.BatchSize)

    if d.Config.BatchSize <= 0 {
        log.Println("✨ Batch size is 0, nothing to do.")
        return summary, nil
    }

    leads, err := d.Leads.ListPending(d.Config.BatchSize)
    if err != nil {
        return summary, err
    }
    if len(leads) == 0 {
        log.Println("✨ No pending emails to send.")
        return summary, nil
    }
    log.Printf("📧 Found %d leads ready to send", len(leads))

    if err := d.Mailer.Open(); err != nil {
        // zero sends occurred, the whole backlog stays eligible
        log.Println("❌ SMTP connection failed before any send:", err)
        return summary, err
    }
    defer d.Mailer.Close()

    for i, lead := range leads {
        if ctx.Err() != nil {
            log.Printf("🛑 Dispatch cancelled after %d of %d leads", i, len(leads))
            return summary, ctx.Err()
        }

        log.Printf("[%d/%d] Sending to: %s...", i+1, len(leads), lead.Email)
        summary.Attempted++

        if err := d.Mailer.Send(lead.Email, lead.GeneratedSubject, lead.GeneratedBody); err != nil {
            summary.Failed++
            summary.Failures = append(summary.Failures, model.SendFailure{
                LeadID: lead.ID,
                Email:  lead.Email,
                Kind:   model.FailureKindSend,
                Reason: err.Error(),
            })
            if appErrors.IsAuth(err) {
                log.Println("❌ SMTP auth failed mid-batch, aborting remaining sends:", err)
                return summary, err
            }
            log.Printf("❌ Send to %s failed: %v", lead.Email, err)
            if markErr := d.Leads.MarkFailed(lead.ID, err.Error(), d.Now()); markErr != nil {
                log.Println("⚠️ Could not record failure for lead", lead.ID, ":", markErr)
            }
        } else if err := d.Leads.MarkSent(lead.ID, d.Now()); err != nil {
            // Delivered but not marked: the lead is still eligible, so the
            // next run may send a duplicate. Loud on purpose.
            summary.MarkFailed++
            summary.Failures = append(summary.Failures, model.SendFailure{
                LeadID: lead.ID,
                Email:  lead.Email,
                Kind:   model.FailureKindMark,
                Reason: err.Error(),
            })
            log.Printf("🚨 Lead %d (%s) was SENT but could not be marked sent: %v — duplicate send possible on retry", lead.ID, lead.Email, err)
        } else {
            summary.Sent++
            log.Println("✅ Sent to", lead.Email)
        }

        // Rate limiting delay (except for last email)
        if i < len(leads)-1 && d.Config.Delay > 0 {
            d.Sleep(ctx, d.Config.Delay)
        }
    }

    log.Printf("📨 Email Dispatch Complete! ✅ Sent: %d ❌ Failed: %d", summary.Sent, summary.Failed)
    return summary, nil
}

func sleepCtx(ctx context.Context, d time.Duration) {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
    case <-t.C:
    }
}
