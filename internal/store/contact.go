// Copyright (c) 2026 ProComm Media SRL <hello@procomm.media>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"procomm/internal/models"
)

const contactColumns = `id, name, email, phone, subject, message, status,
       reply, replied_by, replied_at, created_at, updated_at`

// ContactStore handles all contact-message database operations.
type ContactStore struct {
	db *sql.DB
}

// NewContactStore creates a new ContactStore with the given database connection.
func NewContactStore(db *sql.DB) *ContactStore {
	return &ContactStore{db: db}
}

func scanContact(row interface{ Scan(...any) error }) (*models.ContactMessage, error) {
	m := &models.ContactMessage{}
	err := row.Scan(
		&m.ID, &m.Name, &m.Email, &m.Phone, &m.Subject, &m.Message,
		&m.Status, &m.Reply, &m.RepliedBy, &m.RepliedAt,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// List returns one page of contact messages, newest first, optionally
// filtered by lifecycle status.
func (s *ContactStore) List(status models.ContactStatus, limit, offset int) ([]models.ContactMessage, int, error) {
	where := "TRUE"
	args := []any{}
	if status != "" {
		args = append(args, status)
		where = fmt.Sprintf("status = $%d", len(args))
	}

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM contact_messages WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count contact messages: %w", err)
	}

	listArgs := append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT %s FROM contact_messages
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, contactColumns, where, len(args)+1, len(args)+2)

	rows, err := s.db.Query(query, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list contact messages: %w", err)
	}
	defer rows.Close()

	var messages []models.ContactMessage
	for rows.Next() {
		m, err := scanContact(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan contact message: %w", err)
		}
		messages = append(messages, *m)
	}
	return messages, total, rows.Err()
}

// FindByID retrieves a contact message by its UUID. Returns nil if not found.
func (s *ContactStore) FindByID(id uuid.UUID) (*models.ContactMessage, error) {
	m, err := scanContact(s.db.QueryRow(
		"SELECT "+contactColumns+" FROM contact_messages WHERE id = $1", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find contact message by id: %w", err)
	}
	return m, nil
}

// Create inserts a new contact message and returns it with the
// generated ID and timestamps. Status always starts at "new".
func (s *ContactStore) Create(m *models.ContactMessage) (*models.ContactMessage, error) {
	created, err := scanContact(s.db.QueryRow(`
		INSERT INTO contact_messages (name, email, phone, subject, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+contactColumns,
		m.Name, m.Email, m.Phone, m.Subject, m.Message,
	))
	if err != nil {
		return nil, fmt.Errorf("create contact message: %w", err)
	}
	return created, nil
}

// Update rewrites a contact message's status and reply columns. The
// visitor-supplied fields are immutable after creation.
func (s *ContactStore) Update(m *models.ContactMessage) error {
	_, err := s.db.Exec(`
		UPDATE contact_messages SET
			status = $1, reply = $2, replied_by = $3, replied_at = $4,
			updated_at = NOW()
		WHERE id = $5
	`, m.Status, m.Reply, m.RepliedBy, m.RepliedAt, m.ID)
	if err != nil {
		return fmt.Errorf("update contact message: %w", err)
	}
	return nil
}

// Delete removes a contact message by ID.
func (s *ContactStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec("DELETE FROM contact_messages WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete contact message: %w", err)
	}
	return nil
}

// CountByStatus returns how many messages sit in the given status.
func (s *ContactStore) CountByStatus(status models.ContactStatus) (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM contact_messages WHERE status = $1", status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count contact messages: %w", err)
	}
	return count, nil
}

// Count returns the total number of contact messages.
func (s *ContactStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM contact_messages").Scan(&count); err != nil {
		return 0, fmt.Errorf("count contact messages: %w", err)
	}
	return count, nil
}
