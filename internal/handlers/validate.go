// Copyright (c) 2026 ProComm Media SRL <hello@procomm.media>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance for request structs.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Validation limits for content fields.
const (
	maxTitleLen   = 300
	maxBodyLen    = 100_000
	maxExcerptLen = 1_000
	maxTagLen     = 50
	maxTags       = 20
)

// validatePostInput checks post fields shared by create and update.
// Returns the first problem found, or "".
func validatePostInput(title, content, excerpt string, tags []string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "title is required"
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "title is too long (max 300 characters)"
	}
	if strings.TrimSpace(content) == "" {
		return "content is required"
	}
	if utf8.RuneCountInString(content) > maxBodyLen {
		return "content is too long (max 100,000 characters)"
	}
	if strings.TrimSpace(excerpt) == "" {
		return "excerpt is required"
	}
	if utf8.RuneCountInString(excerpt) > maxExcerptLen {
		return "excerpt is too long (max 1,000 characters)"
	}
	return validateTags(tags)
}

// validateTags checks the tag list shared by posts and gallery images.
func validateTags(tags []string) string {
	if len(tags) > maxTags {
		return "too many tags (max 20)"
	}
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			return "tags must not be empty"
		}
		if utf8.RuneCountInString(tag) > maxTagLen {
			return "tag is too long (max 50 characters)"
		}
	}
	return ""
}

// contactInput is the public contact form payload. Validation mirrors
// the frontend form rules so rejected submissions carry field errors.
type contactInput struct {
	Name    string  `json:"name" validate:"required,min=2,max=100"`
	Email   string  `json:"email" validate:"required,email,max=200"`
	Phone   *string `json:"phone" validate:"omitempty,max=30"`
	Subject string  `json:"subject" validate:"required,min=2,max=200"`
	Message string  `json:"message" validate:"required,min=10,max=5000"`
}

// contactFieldErrors converts validator errors into a field→message map.
func contactFieldErrors(err error) map[string]string {
	fields := map[string]string{}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		fields["_"] = "invalid input"
		return fields
	}
	for _, fe := range verrs {
		name := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			fields[name] = name + " is required"
		case "email":
			fields[name] = "must be a valid email address"
		case "min":
			fields[name] = name + " is too short"
		case "max":
			fields[name] = name + " is too long"
		default:
			fields[name] = "invalid " + name
		}
	}
	return fields
}
