// Copyright (c) 2026 ProComm Media SRL <hello@procomm.media>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"procomm/internal/middleware"
	"procomm/internal/models"
	"procomm/internal/store"
)

// ContactsList returns one page of contact messages, newest first,
// optionally filtered by ?status=.
func (a *Admin) ContactsList(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePageLimit(r)

	status := models.ContactStatus(r.URL.Query().Get("status"))
	if status != "" && !validContactStatus(status) {
		writeError(w, http.StatusBadRequest, "unknown status")
		return
	}

	messages, total, err := a.contactStore.List(status, limit, (page-1)*limit)
	if err != nil {
		slog.Error("list contact messages failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if messages == nil {
		messages = []models.ContactMessage{}
	}

	writeJSON(w, http.StatusOK, listEnvelope{
		Data:       messages,
		Pagination: store.NewPagination(page, limit, total),
	})
}

// ContactGet returns one contact message. Opening a new message marks
// it read.
func (a *Admin) ContactGet(w http.ResponseWriter, r *http.Request) {
	msg, ok := a.findContact(w, r)
	if !ok {
		return
	}

	if msg.Status == models.ContactStatusNew {
		if err := msg.AdvanceStatus(models.ContactStatusRead); err == nil {
			if err := a.contactStore.Update(msg); err != nil {
				slog.Warn("mark contact message read failed", "id", msg.ID, "error", err)
			}
		}
	}

	writeJSON(w, http.StatusOK, msg)
}

// ContactUpdateStatus moves a message to a new lifecycle status.
// Backwards transitions are rejected.
func (a *Admin) ContactUpdateStatus(w http.ResponseWriter, r *http.Request) {
	msg, ok := a.findContact(w, r)
	if !ok {
		return
	}

	var input struct {
		Status models.ContactStatus `json:"status"`
	}
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !validContactStatus(input.Status) {
		writeError(w, http.StatusBadRequest, "unknown status")
		return
	}

	if err := msg.AdvanceStatus(input.Status); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.contactStore.Update(msg); err != nil {
		slog.Error("update contact message failed", "id", msg.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, msg)
}

// ContactReply records a reply on the message and emails it to the
// visitor. The sender is the logged-in administrator.
func (a *Admin) ContactReply(w http.ResponseWriter, r *http.Request) {
	msg, ok := a.findContact(w, r)
	if !ok {
		return
	}

	var input struct {
		Reply string `json:"reply"`
	}
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(input.Reply) == "" {
		writeError(w, http.StatusBadRequest, "reply must not be empty")
		return
	}

	repliedBy := "admin"
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil {
		repliedBy = sess.Email
	}

	if err := msg.AttachReply(input.Reply, repliedBy, time.Now()); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	if err := a.contactStore.Update(msg); err != nil {
		slog.Error("save contact reply failed", "id", msg.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	go func(m models.ContactMessage, reply string) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		a.mail.SendReply(ctx, &m, reply)
	}(*msg, input.Reply)

	writeJSON(w, http.StatusOK, msg)
}

// ContactDelete removes a contact message.
func (a *Admin) ContactDelete(w http.ResponseWriter, r *http.Request) {
	msg, ok := a.findContact(w, r)
	if !ok {
		return
	}

	if err := a.contactStore.Delete(msg.ID); err != nil {
		slog.Error("delete contact message failed", "id", msg.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func validContactStatus(s models.ContactStatus) bool {
	switch s {
	case models.ContactStatusNew, models.ContactStatusRead,
		models.ContactStatusReplied, models.ContactStatusArchived:
		return true
	}
	return false
}

func (a *Admin) findContact(w http.ResponseWriter, r *http.Request) (*models.ContactMessage, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil, false
	}

	msg, err := a.contactStore.FindByID(id)
	if err != nil {
		slog.Error("find contact message failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return nil, false
	}
	if msg == nil {
		writeError(w, http.StatusNotFound, "contact message not found")
		return nil, false
	}
	return msg, true
}
