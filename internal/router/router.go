// Copyright (c) 2026 ProComm Media SRL <hello@procomm.media>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// ProComm backend. It organizes routes into public and admin groups
// with appropriate middleware stacks.
package router

import (
	"github.com/go-chi/chi/v5"

	"procomm/internal/handlers"
	"procomm/internal/middleware"
	"procomm/internal/session"
)

// Options carries router construction knobs beyond the handler groups.
type Options struct {
	// Secure controls the Secure flag on the CSRF cookie.
	Secure bool

	// ContactLimiter rate-limits the public contact form. Optional.
	ContactLimiter *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, public *handlers.Public, auth *handlers.Auth, admin *handlers.Admin, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth, no CSRF.
	r.Get("/health", public.Health)

	// Public content API.
	r.Route("/api", func(r chi.Router) {
		r.Get("/blog", public.BlogList)
		r.Get("/blog/{slug}", public.BlogDetail)
		r.Get("/gallery", public.GalleryList)

		r.Group(func(r chi.Router) {
			if opts.ContactLimiter != nil {
				r.Use(opts.ContactLimiter.Middleware)
			}
			r.Post("/contact", public.ContactSubmit)
		})

		// Auth — login sets the session cookie; 2FA setup/verify need a
		// session but NOT completed 2FA.
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", auth.Login)
			r.Post("/logout", auth.Logout)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Get("/me", auth.Me)
				r.Post("/2fa/setup", auth.TwoFASetup)
				r.Post("/2fa/verify", auth.TwoFAVerify)
			})
		})

		// Authenticated + 2FA-verified admin area, admins only.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)
			r.Use(middleware.RequireAdmin)
			r.Use(middleware.NewCSRF(opts.Secure))

			r.Get("/dashboard", admin.Dashboard)
			r.Post("/cache/purge", admin.CachePurge)

			r.Route("/blogs", func(r chi.Router) {
				r.Get("/", admin.BlogsList)
				r.Post("/", admin.BlogCreate)
				r.Get("/{id}", admin.BlogGet)
				r.Patch("/{id}", admin.BlogUpdate)
				r.Delete("/{id}", admin.BlogDelete)
			})

			r.Route("/gallery", func(r chi.Router) {
				r.Get("/", admin.GalleryList)
				r.Post("/", admin.GalleryCreate)
				r.Post("/upload", admin.GalleryUpload)
				r.Get("/{id}", admin.GalleryGet)
				r.Patch("/{id}", admin.GalleryUpdate)
				r.Delete("/{id}", admin.GalleryDelete)
			})

			r.Route("/contacts", func(r chi.Router) {
				r.Get("/", admin.ContactsList)
				r.Get("/{id}", admin.ContactGet)
				r.Patch("/{id}/status", admin.ContactUpdateStatus)
				r.Post("/{id}/reply", admin.ContactReply)
				r.Delete("/{id}", admin.ContactDelete)
			})
		})
	})

	return r
}
