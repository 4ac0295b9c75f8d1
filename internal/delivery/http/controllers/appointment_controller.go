package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"arztpraxis/internal/delivery/http/helpers"
	"arztpraxis/internal/domain"
)

// Messages returned to the appointment form.
const (
	MsgInvalidRequest = "Ungültige Anfrage."
	MsgSubmitted      = "Vielen Dank! Ihre Terminanfrage wurde erfolgreich gesendet. " +
		"Wir haben Ihnen eine Bestätigung per E-Mail geschickt und melden uns in Kürze bei Ihnen."
	MsgSubmittedWithoutConfirmation = "Vielen Dank! Ihre Terminanfrage wurde erfolgreich gesendet. " +
		"Die Bestätigung per E-Mail konnte leider nicht zugestellt werden, wir melden uns in Kürze bei Ihnen."
	MsgTooManyRequests = "Zu viele Anfragen. Bitte versuchen Sie es in einigen Minuten erneut."
	msgSendFailed      = "Es ist ein Fehler beim Versenden aufgetreten. " +
		"Bitte versuchen Sie es später erneut oder kontaktieren Sie uns telefonisch unter %s."
)

// maxFormBytes caps the appointment form body.
const maxFormBytes = 64 << 10

// AppointmentController handles the public appointment form.
type AppointmentController struct {
	Logger   *slog.Logger
	Service  domain.AppointmentService
	Practice domain.Practice
}

// NewAppointmentController creates an AppointmentController with the given logger, service and practice identity.
func NewAppointmentController(logger *slog.Logger, svc domain.AppointmentService, practice domain.Practice) *AppointmentController {
	return &AppointmentController{
		Logger:   logger,
		Service:  svc,
		Practice: practice,
	}
}

// SendFailedMessage is the generic failure text, naming the practice phone.
func (c *AppointmentController) SendFailedMessage() string {
	return fmt.Sprintf(msgSendFailed, c.Practice.Phone)
}

// Submit godoc
// @Summary Submit an appointment request
// @Description Validates the form, stores the generated calendar invite and emails the practice and the patient. Validation and delivery failures are reported with success=false and HTTP 200 so the form script can show the message.
// @Tags appointments
// @Accept x-www-form-urlencoded
// @Accept mpfd
// @Produce json
// @Param firstName formData string true "First name"
// @Param lastName formData string true "Last name"
// @Param birthdate formData string true "Birthdate (YYYY-MM-DD)"
// @Param insurance formData string true "gesetzlich, privat or selbstzahler"
// @Param email formData string true "Email address"
// @Param phone formData string true "Phone number"
// @Param appointmentDate formData string true "Requested date (YYYY-MM-DD), at least tomorrow"
// @Param appointmentTime formData string false "Requested time (HH:MM)"
// @Param reason formData string true "Reason code"
// @Param message formData string false "Free text"
// @Param privacy formData string true "Privacy checkbox, any value"
// @Success 200 {object} helpers.FormResult
// @Failure 400 {object} helpers.FormResult
// @Failure 405 {object} helpers.FormResult
// @Failure 429 {object} helpers.FormResult
// @Failure 500 {object} helpers.FormResult
// @Router /appointments [post]
func (c *AppointmentController) Submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		helpers.WriteFormResult(w, http.StatusMethodNotAllowed, helpers.FormResult{Message: MsgInvalidRequest})
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseMultipartForm(maxFormBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		helpers.WriteFormResult(w, http.StatusBadRequest, helpers.FormResult{Message: MsgInvalidRequest})
		return
	}
	fields := make(domain.FormFields, len(r.PostForm))
	for k, v := range r.PostForm {
		if len(v) > 0 {
			fields[k] = v[0]
		}
	}

	res, err := c.Service.Submit(r.Context(), fields)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			helpers.WriteFormResult(w, http.StatusOK, helpers.FormResult{Message: verr.Error()})
			return
		}
		if errors.Is(err, domain.ErrSendFailed) {
			c.Logger.ErrorContext(r.Context(), "appointment request not delivered", "path", r.URL.Path, "err", err)
			helpers.WriteFormResult(w, http.StatusOK, helpers.FormResult{Message: c.SendFailedMessage()})
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteFormResult(w, http.StatusInternalServerError, helpers.FormResult{Message: c.SendFailedMessage()})
		return
	}

	out := helpers.FormResult{
		Success:          true,
		Message:          MsgSubmitted,
		ConfirmationSent: res.ConfirmationSent,
	}
	if !res.ConfirmationSent {
		out.Message = MsgSubmittedWithoutConfirmation
	}
	if res.Stored {
		out.InviteID = res.InviteKey
	}
	helpers.WriteFormResult(w, http.StatusOK, out)
}

// TooManyRequests answers a rate-limited form submission.
func (c *AppointmentController) TooManyRequests(w http.ResponseWriter, r *http.Request) {
	helpers.WriteFormResult(w, http.StatusTooManyRequests, helpers.FormResult{Message: MsgTooManyRequests})
}
