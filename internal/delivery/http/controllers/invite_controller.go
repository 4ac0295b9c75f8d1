package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"arztpraxis/internal/domain"
)

// InviteController serves stored invites as downloadable .ics files.
type InviteController struct {
	Logger *slog.Logger
	Store  domain.InviteStore
}

// NewInviteController creates an InviteController reading from store.
func NewInviteController(logger *slog.Logger, store domain.InviteStore) *InviteController {
	return &InviteController{
		Logger: logger,
		Store:  store,
	}
}

// Download godoc
// @Summary Download a stored invite
// @Description Returns the iCalendar file written for an appointment request.
// @Tags appointments
// @Produce text/calendar
// @Param file path string true "<key>.ics"
// @Success 200 {string} string "iCalendar text"
// @Failure 404 {string} string "not found"
// @Router /termine/{file} [get]
func (c *InviteController) Download(w http.ResponseWriter, r *http.Request) {
	key, ok := strings.CutSuffix(r.PathValue("file"), ".ics")
	if !ok || !domain.ValidInviteKey(key) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	inv, err := c.Store.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", inv.Filename()))
	w.Header().Set("Cache-Control", "private, no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(inv.ICS))
}
