package repository

import (
    "database/sql"
    "time"

    appErrors "github.com/webasthetic/leadmailer-backend/internal/errors"
    "github.com/webasthetic/leadmailer-backend/internal/model"
)

// LeadRepositoryInterface defines the store port used by the dispatcher
type LeadRepositoryInterface interface {
    // ListPending returns up to limit leads that have generated content and
    // have not been sent yet, oldest first.
    ListPending(limit int) ([]*model.Lead, error)
    MarkSent(id int, at time.Time) error
    MarkFailed(id int, reason string, at time.Time) error
    GetByID(id int) (*model.Lead, error)
    Create(lead *model.Lead) error
    Stats() (map[string]int, error)
}

type LeadRepository struct {
    DB *sql.DB
}

const leadColumns = `id, email, generated_subject, generated_body, email_sent, email_sent_at, email_failed_at, last_error, created_at, updated_at`

// ====================== Selection ======================

// ListPending keeps insertion order (serial id) so repeated runs walk the
// backlog in a stable order.
func (r *LeadRepository) ListPending(limit int) ([]*model.Lead, error) {
    query := `
        SELECT ` + leadColumns + `
        FROM master_leads
        WHERE email_sent = FALSE
          AND generated_subject <> ''
          AND generated_body <> ''
        ORDER BY id
        LIMIT $1
    `
    rows, err := r.DB.Query(query, limit)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    leads := []*model.Lead{}
    for rows.Next() {
        l := &model.Lead{}
        if err := scanLead(rows, l); err != nil {
            return nil, err
        }
        leads = append(leads, l)
    }
    return leads, rows.Err()
}

func (r *LeadRepository) GetByID(id int) (*model.Lead, error) {
    query := `SELECT ` + leadColumns + ` FROM master_leads WHERE id=$1`
    var l model.Lead
    err := scanLead(r.DB.QueryRow(query, id), &l)
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, appErrors.NewLeadNotFound(id)
        }
        return nil, err
    }
    return &l, nil
}

// ====================== Mutation ======================

// MarkSent is the single write performed for a successfully sent lead.
// email_sent and email_sent_at are set together so one implies the other.
func (r *LeadRepository) MarkSent(id int, at time.Time) error {
    query := `
        UPDATE master_leads
        SET email_sent=TRUE, email_sent_at=$1, last_error='', updated_at=NOW()
        WHERE id=$2
    `
    res, err := r.DB.Exec(query, at, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return appErrors.NewLeadNotFound(id)
    }
    return nil
}

// MarkFailed records the reason for retry tracking. The lead stays
// eligible: eligibility only excludes email_sent=TRUE.
func (r *LeadRepository) MarkFailed(id int, reason string, at time.Time) error {
    query := `
        UPDATE master_leads
        SET email_failed_at=$1, last_error=$2, updated_at=NOW()
        WHERE id=$3
    `
    _, err := r.DB.Exec(query, at, reason, id)
    return err
}

func (r *LeadRepository) Create(lead *model.Lead) error {
    lead.CreatedAt = time.Now()
    query := `
        INSERT INTO master_leads (email, generated_subject, generated_body, email_sent, created_at)
        VALUES ($1, $2, $3, FALSE, $4)
        RETURNING id
    `
    return r.DB.QueryRow(query, lead.Email, lead.GeneratedSubject, lead.GeneratedBody, lead.CreatedAt).Scan(&lead.ID)
}

// ====================== Stats ======================

func (r *LeadRepository) Stats() (map[string]int, error) {
    query := `
        SELECT
            COUNT(*),
            COUNT(*) FILTER (WHERE email_sent),
            COUNT(*) FILTER (WHERE NOT email_sent AND email_failed_at IS NOT NULL),
            COUNT(*) FILTER (WHERE NOT email_sent AND generated_subject <> '' AND generated_body <> '')
        FROM master_leads
    `
    stats := map[string]int{"total": 0, "sent": 0, "failed": 0, "pending": 0}
    var total, sent, failed, pending int
    if err := r.DB.QueryRow(query).Scan(&total, &sent, &failed, &pending); err != nil {
        return nil, err
    }
    stats["total"] = total
    stats["sent"] = sent
    stats["failed"] = failed
    stats["pending"] = pending
    return stats, nil
}

type rowScanner interface {
    Scan(dest ...interface{}) error
}

func scanLead(row rowScanner, l *model.Lead) error {
    var lastError sql.NullString
    err := row.Scan(
        &l.ID, &l.Email, &l.GeneratedSubject, &l.GeneratedBody,
        &l.EmailSent, &l.EmailSentAt, &l.EmailFailedAt,
        &lastError, &l.CreatedAt, &l.UpdatedAt,
    )
    if err != nil {
        return err
    }
    l.LastError = lastError.String
    return nil
}

var _ LeadRepositoryInterface = (*LeadRepository)(nil)
