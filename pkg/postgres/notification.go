package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/smartagri/seat-allocator/pkg/db"
)

// InsertNotification inserts an in-app notification
func (d *DB) InsertNotification(ctx context.Context, n *db.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}

	err := d.pool.QueryRow(ctx, `
		INSERT INTO notification (id, applicant_id, message, is_read)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, n.ID, n.ApplicantID, n.Message, n.IsRead).Scan(&n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

// InsertSMSLog inserts an SMS log entry
func (d *DB) InsertSMSLog(ctx context.Context, log *db.SMSLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}

	err := d.pool.QueryRow(ctx, `
		INSERT INTO sms_log (id, phone_number, message, delivered)
		VALUES ($1, $2, $3, $4)
		RETURNING sent_at
	`, log.ID, log.PhoneNumber, log.Message, log.Delivered).Scan(&log.SentAt)
	if err != nil {
		return fmt.Errorf("failed to insert sms log: %w", err)
	}
	return nil
}

// ListSMSLogs retrieves all SMS log entries, newest first
func (d *DB) ListSMSLogs(ctx context.Context) ([]db.SMSLog, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, phone_number, message, delivered, sent_at
		FROM sms_log
		ORDER BY sent_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sms logs: %w", err)
	}
	defer rows.Close()

	var logs []db.SMSLog
	for rows.Next() {
		var l db.SMSLog
		if err := rows.Scan(&l.ID, &l.PhoneNumber, &l.Message, &l.Delivered, &l.SentAt); err != nil {
			return nil, fmt.Errorf("failed to scan sms log: %w", err)
		}
		logs = append(logs, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sms logs: %w", err)
	}

	return logs, nil
}
