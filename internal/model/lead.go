// internal/model/lead.go
package model

import "time"

// Lead is one row of the master_leads table. Subject and body are rendered
// by the upstream generation step; the dispatcher only reads them.
type Lead struct {
    ID               int        `db:"id" json:"id"`
    Email            string     `db:"email" json:"email"`
    GeneratedSubject string     `db:"generated_subject" json:"generated_subject"`
    GeneratedBody    string     `db:"generated_body" json:"generated_body"`
    EmailSent        bool       `db:"email_sent" json:"email_sent"`
    EmailSentAt      *time.Time `db:"email_sent_at" json:"email_sent_at,omitempty"`
    EmailFailedAt    *time.Time `db:"email_failed_at" json:"email_failed_at,omitempty"`
    LastError        string     `db:"last_error,omitempty" json:"last_error,omitempty"`
    CreatedAt        time.Time  `db:"created_at" json:"created_at"`
    UpdatedAt        *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
