// Copyright (c) 2026 ProComm Media SRL <hello@procomm.media>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ContactStatus is the lifecycle state of an inbound contact message.
type ContactStatus string

const (
	ContactStatusNew      ContactStatus = "new"
	ContactStatusRead     ContactStatus = "read"
	ContactStatusReplied  ContactStatus = "replied"
	ContactStatusArchived ContactStatus = "archived"
)

// contactTransitions lists the allowed forward moves. Messages never go
// back to an earlier state.
var contactTransitions = map[ContactStatus][]ContactStatus{
	ContactStatusNew:     {ContactStatusRead, ContactStatusReplied, ContactStatusArchived},
	ContactStatusRead:    {ContactStatusReplied, ContactStatusArchived},
	ContactStatusReplied: {ContactStatusArchived},
}

// ContactMessage is a visitor submission from the public contact form.
// Visitors create it; only administrators mutate it afterwards.
type ContactMessage struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Phone     *string       `json:"phone,omitempty"`
	Subject   string        `json:"subject"`
	Message   string        `json:"message"`
	Status    ContactStatus `json:"status"`
	Reply     *string       `json:"reply,omitempty"`
	RepliedBy *string       `json:"replied_by,omitempty"`
	RepliedAt *time.Time    `json:"replied_at,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// AdvanceStatus moves the message to the target status, rejecting
// backwards or unknown transitions.
func (m *ContactMessage) AdvanceStatus(target ContactStatus) error {
	if target == m.Status {
		return nil
	}
	for _, allowed := range contactTransitions[m.Status] {
		if target == allowed {
			m.Status = target
			return nil
		}
	}
	return fmt.Errorf("invalid status transition %s → %s", m.Status, target)
}

// AttachReply records an administrator's reply and marks the message
// replied. Replying is allowed from any non-archived state.
func (m *ContactMessage) AttachReply(reply, repliedBy string, now time.Time) error {
	if m.Status == ContactStatusArchived {
		return fmt.Errorf("cannot reply to an archived message")
	}
	m.Reply = &reply
	m.RepliedBy = &repliedBy
	t := now
	m.RepliedAt = &t
	m.Status = ContactStatusReplied
	return nil
}
