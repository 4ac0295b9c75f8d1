package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"arztpraxis/internal/calendar"
	"arztpraxis/internal/delivery/http/helpers"
	"arztpraxis/internal/domain"
)

// AdminLoginRequest is the request body for POST /admin/login.
type AdminLoginRequest struct {
	Password string `json:"password"`
}

// Validate implements Validator.
func (l AdminLoginRequest) Validate() []string {
	if l.Password == "" {
		return []string{"password is required"}
	}
	return nil
}

// AdminLoginResponse is the response body for POST /admin/login.
type AdminLoginResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int64  `json:"expires_in"`
}

// DecisionRequest is the request body for POST /admin/decisions.
type DecisionRequest struct {
	InviteKey string `json:"invite_key"`
	Status    string `json:"status"`
}

// Validate implements Validator.
func (d DecisionRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(d.InviteKey) == "" {
		errs = append(errs, "invite_key is required")
	}
	if !domain.DecisionStatus(d.Status).Valid() {
		errs = append(errs, `status must be "approved" or "declined"`)
	}
	return errs
}

// ListInvitesResponse is the data payload for GET /admin/invites.
type ListInvitesResponse struct {
	Items      []*domain.InviteSummary `json:"items"`
	Pagination helpers.PaginationMeta  `json:"pagination"`
}

// InviteDetailResponse is the data payload for GET /admin/invites/{key}.
type InviteDetailResponse struct {
	Summary *domain.InviteSummary `json:"summary"`
	ICS     string                `json:"ics"`
}

// AdminLoginSuccessResponse is the success response envelope for POST /admin/login (200).
type AdminLoginSuccessResponse struct {
	Data  AdminLoginResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// ListInvitesSuccessResponse is the success response envelope for GET /admin/invites (200).
type ListInvitesSuccessResponse struct {
	Data  ListInvitesResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// InviteDetailSuccessResponse is the success response envelope for GET /admin/invites/{key} (200).
type InviteDetailSuccessResponse struct {
	Data  InviteDetailResponse `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// DecisionSuccessResponse is the success response envelope for POST /admin/decisions (200).
type DecisionSuccessResponse struct {
	Data  *domain.DecisionResult `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// AdminController handles the practice staff endpoints.
type AdminController struct {
	Logger      *slog.Logger
	Service     domain.AdminService
	TokenExpiry time.Duration
}

// NewAdminController creates an AdminController with the given logger and service.
func NewAdminController(logger *slog.Logger, svc domain.AdminService, tokenExpiry time.Duration) *AdminController {
	return &AdminController{
		Logger:      logger,
		Service:     svc,
		TokenExpiry: tokenExpiry,
	}
}

// Login godoc
// @Summary Admin login
// @Description Exchanges the shared practice password for a Bearer token.
// @Tags admin
// @Accept json
// @Produce json
// @Param body body AdminLoginRequest true "Admin password"
// @Success 200 {object} controllers.AdminLoginSuccessResponse "data contains token and token_type"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 429 {object} helpers.APIResponse "error.code: too_many_requests"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/login [post]
func (c *AdminController) Login(w http.ResponseWriter, r *http.Request) {
	var req AdminLoginRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	token, err := c.Service.Login(r.Context(), req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "invalid credentials")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, AdminLoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(c.TokenExpiry.Seconds()),
	})
}

// ListInvites godoc
// @Summary List stored invites
// @Description Returns stored appointment invites, newest first, decoded into summaries.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size (max 100)" default(20)
// @Success 200 {object} controllers.ListInvitesSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/invites [get]
func (c *AdminController) ListInvites(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	list, total, err := c.Service.ListInvites(r.Context(), params)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
		return
	}
	if list == nil {
		list = []*domain.InviteSummary{}
	}
	meta := helpers.NewPaginationMeta(params.Page, params.PageSize, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, ListInvitesResponse{Items: list, Pagination: meta})
}

// GetInvite godoc
// @Summary Get one stored invite
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param key path string true "Invite key"
// @Success 200 {object} controllers.InviteDetailSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/invites/{key} [get]
func (c *AdminController) GetInvite(w http.ResponseWriter, r *http.Request) {
	inv, err := c.Service.GetInvite(r.Context(), r.PathValue("key"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "invite not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
		return
	}
	sum, err := calendar.Summarize(inv)
	if err != nil {
		c.Logger.WarnContext(r.Context(), "stored invite not decodable", "key", inv.Key, "err", err)
		sum = &domain.InviteSummary{Key: inv.Key, CreatedAt: inv.CreatedAt}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, InviteDetailResponse{Summary: sum, ICS: inv.ICS})
}

// SendDecision godoc
// @Summary Approve or decline a request
// @Description Emails the patient behind a stored invite that the requested appointment was approved or declined.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body DecisionRequest true "Decision"
// @Success 200 {object} controllers.DecisionSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 502 {object} helpers.APIResponse "error.code: bad_gateway"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/decisions [post]
func (c *AdminController) SendDecision(w http.ResponseWriter, r *http.Request) {
	var req DecisionRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	res, err := c.Service.SendDecision(r.Context(), &domain.AppointmentDecision{
		InviteKey: strings.TrimSpace(req.InviteKey),
		Status:    domain.DecisionStatus(req.Status),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "invite not found")
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		case errors.Is(err, domain.ErrSendFailed):
			c.Logger.ErrorContext(r.Context(), "decision email not delivered", "path", r.URL.Path, "err", err)
			helpers.WriteJSONError(w, http.StatusBadGateway, helpers.ErrCodeBadGateway, "email could not be sent")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, res)
}

// LoginTooManyRequests answers a rate-limited admin login.
func (c *AdminController) LoginTooManyRequests(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONError(w, http.StatusTooManyRequests, helpers.ErrCodeTooManyRequests, "too many login attempts")
}
