package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"arztpraxis/internal/adapters/email"
	"arztpraxis/internal/adapters/storage"
	"arztpraxis/internal/calendar"
	"arztpraxis/internal/delivery/http/helpers"
	"arztpraxis/internal/domain"
	"arztpraxis/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// recordingMailer records every message and fails for configured recipients.
type recordingMailer struct {
	mu     sync.Mutex
	sent   []*domain.Message
	failTo map[string]error
}

func (m *recordingMailer) Send(_ context.Context, msg *domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.failTo[msg.To]
}

// failingStore rejects every write.
type failingStore struct {
	domain.InviteStore
}

func (failingStore) Save(context.Context, *domain.Invite) error {
	return errors.New("disk full")
}

type pipeline struct {
	ctrl   *AppointmentController
	mailer *recordingMailer
	store  domain.InviteStore
}

func newPipeline(t *testing.T, store domain.InviteStore) *pipeline {
	t.Helper()
	loc, err := calendar.Location()
	require.NoError(t, err)
	now := func() time.Time { return time.Date(2026, 10, 19, 10, 30, 0, 0, loc) }
	practice := domain.DefaultPractice()
	if store == nil {
		store = storage.NewFileStore(filepath.Join(t.TempDir(), "termine"))
	}
	mailer := &recordingMailer{failTo: map[string]error{}}
	notifier := services.NewEmailService(mailer, email.NewTemplateRenderer(), practice, loc, time.Second, testLogger)
	svc := services.NewAppointmentService(calendar.NewBuilder(practice, loc, now), store, notifier, loc, now, testLogger)
	return &pipeline{
		ctrl:   NewAppointmentController(testLogger, svc, practice),
		mailer: mailer,
		store:  store,
	}
}

func annaForm() url.Values {
	return url.Values{
		"firstName":       {"Anna"},
		"lastName":        {"Muster"},
		"birthdate":       {"1980-02-01"},
		"insurance":       {"gesetzlich"},
		"email":           {"a@b.de"},
		"phone":           {"0123456"},
		"appointmentDate": {"2026-10-20"},
		"reason":          {"erstbesuch"},
		"privacy":         {"on"},
	}
}

func postForm(t *testing.T, ctrl *AppointmentController, form url.Values) (*httptest.ResponseRecorder, helpers.FormResult) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "http://test/appointments", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	ctrl.Submit(rr, req)
	var res helpers.FormResult
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	return rr, res
}

func TestAppointmentController_Submit_success(t *testing.T) {
	p := newPipeline(t, nil)

	rr, res := postForm(t, p.ctrl, annaForm())

	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, res.Success)
	assert.Equal(t, MsgSubmitted, res.Message)
	assert.True(t, res.ConfirmationSent)
	require.Regexp(t, `^termin-20261019-[0-9a-f]{16}$`, res.InviteID)

	inv, err := p.store.Get(context.Background(), res.InviteID)
	require.NoError(t, err)
	assert.Contains(t, inv.ICS, "SUMMARY:Arzttermin - Erstbesuch\r\n")
	assert.Contains(t, inv.ICS, "DTSTART;TZID=Europe/Berlin:20261020T090000\r\n")

	require.Len(t, p.mailer.sent, 2)
	practiceMsg, patientMsg := p.mailer.sent[0], p.mailer.sent[1]
	assert.Equal(t, "praxis@beispiel.de", practiceMsg.To)
	assert.Equal(t, "Neue Terminanfrage: Anna Muster", practiceMsg.Subject)
	assert.Equal(t, "a@b.de", practiceMsg.ReplyTo)
	assert.Equal(t, "a@b.de", patientMsg.To)
	assert.Equal(t, "Bestätigung Ihrer Terminanfrage", patientMsg.Subject)
	require.Len(t, patientMsg.Attachments, 1)
	assert.Equal(t, inv.ICS, string(patientMsg.Attachments[0].Data))
}

func TestAppointmentController_Submit_multipart(t *testing.T) {
	p := newPipeline(t, nil)

	var body strings.Builder
	boundary := "formboundary"
	for k, v := range annaForm() {
		body.WriteString("--" + boundary + "\r\n")
		body.WriteString(`Content-Disposition: form-data; name="` + k + "\"\r\n\r\n")
		body.WriteString(v[0] + "\r\n")
	}
	body.WriteString("--" + boundary + "--\r\n")
	req := httptest.NewRequest(http.MethodPost, "http://test/php/appointment.php", strings.NewReader(body.String()))
	req.Header.Set("Content-Type", "multipart/form-data; boundary="+boundary)
	rr := httptest.NewRecorder()

	p.ctrl.Submit(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var res helpers.FormResult
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	assert.True(t, res.Success)
}

func TestAppointmentController_Submit_validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(url.Values)
		wantMsg string
	}{
		{"invalid email", func(f url.Values) { f.Set("email", "not-an-email") }, services.MsgEmailInvalid},
		{"date in the past", func(f url.Values) { f.Set("appointmentDate", "2026-10-18") }, services.MsgDateInPast},
		{"date today", func(f url.Values) { f.Set("appointmentDate", "2026-10-19") }, services.MsgDateToday},
		{"phone with four digits", func(f url.Values) { f.Set("phone", "123") }, services.MsgPhoneInvalid},
		{"privacy not accepted", func(f url.Values) { f.Del("privacy") }, services.MsgPrivacyRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPipeline(t, nil)
			form := annaForm()
			tt.mutate(form)

			rr, res := postForm(t, p.ctrl, form)

			require.Equal(t, http.StatusOK, rr.Code)
			assert.False(t, res.Success)
			assert.Contains(t, res.Message, tt.wantMsg)
			assert.Empty(t, res.InviteID)
			assert.Empty(t, p.mailer.sent, "no email for rejected input")
			_, total, err := p.store.List(context.Background(), domain.PaginationParams{})
			require.NoError(t, err)
			assert.Zero(t, total, "no invite for rejected input")
		})
	}
}

func TestAppointmentController_Submit_practice_send_fails(t *testing.T) {
	p := newPipeline(t, nil)
	p.mailer.failTo["praxis@beispiel.de"] = errors.New("smtp down")

	rr, res := postForm(t, p.ctrl, annaForm())

	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, res.Success)
	assert.Equal(t, p.ctrl.SendFailedMessage(), res.Message)
	assert.Contains(t, res.Message, "+49 123 456 7890")
	require.Len(t, p.mailer.sent, 1, "patient send must not be attempted")
	assert.Equal(t, "praxis@beispiel.de", p.mailer.sent[0].To)
}

func TestAppointmentController_Submit_patient_send_fails(t *testing.T) {
	p := newPipeline(t, nil)
	p.mailer.failTo["a@b.de"] = errors.New("mailbox unavailable")

	rr, res := postForm(t, p.ctrl, annaForm())

	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, res.Success)
	assert.False(t, res.ConfirmationSent)
	assert.Equal(t, MsgSubmittedWithoutConfirmation, res.Message)
	assert.Len(t, p.mailer.sent, 2)
}

func TestAppointmentController_Submit_store_fails(t *testing.T) {
	p := newPipeline(t, failingStore{})

	rr, res := postForm(t, p.ctrl, annaForm())

	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, res.Success)
	assert.Empty(t, res.InviteID)
	require.Len(t, p.mailer.sent, 2)
	assert.Contains(t, string(p.mailer.sent[0].Attachments[0].Data), "SUMMARY:Arzttermin - Erstbesuch")
}

func TestAppointmentController_Submit_wrong_method(t *testing.T) {
	p := newPipeline(t, nil)
	req := httptest.NewRequest(http.MethodGet, "http://test/appointments", nil)
	rr := httptest.NewRecorder()

	p.ctrl.Submit(rr, req)

	require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, http.MethodPost, rr.Header().Get("Allow"))
	var res helpers.FormResult
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	assert.False(t, res.Success)
	assert.Equal(t, MsgInvalidRequest, res.Message)
}

// fakeAppointmentService returns a fixed result for error mapping tests.
type fakeAppointmentService struct {
	res *domain.SubmissionResult
	err error
}

func (f *fakeAppointmentService) Submit(context.Context, domain.FormFields) (*domain.SubmissionResult, error) {
	return f.res, f.err
}

func TestAppointmentController_Submit_unexpected_error(t *testing.T) {
	ctrl := NewAppointmentController(testLogger, &fakeAppointmentService{err: errors.New("boom")}, domain.DefaultPractice())

	rr, res := postForm(t, ctrl, annaForm())

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.False(t, res.Success)
	assert.Equal(t, ctrl.SendFailedMessage(), res.Message)
	assert.NotContains(t, res.Message, "boom")
}

func TestAppointmentController_TooManyRequests(t *testing.T) {
	ctrl := NewAppointmentController(testLogger, &fakeAppointmentService{}, domain.DefaultPractice())
	rr := httptest.NewRecorder()
	ctrl.TooManyRequests(rr, httptest.NewRequest(http.MethodPost, "/appointments", nil))

	require.Equal(t, http.StatusTooManyRequests, rr.Code)
	var res helpers.FormResult
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	assert.False(t, res.Success)
	assert.Equal(t, MsgTooManyRequests, res.Message)
}
