package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"arztpraxis/internal/delivery/http/controllers"
	"arztpraxis/internal/delivery/http/middleware"
	"arztpraxis/internal/domain"
)

// RouterDeps holds everything NewRouter wires into routes.
type RouterDeps struct {
	Appointments *controllers.AppointmentController
	Invites      *controllers.InviteController
	Admin        *controllers.AdminController
	Verifier     domain.TokenVerifier
	FormLimiter  *middleware.RateLimiter
	LoginLimiter *middleware.RateLimiter
}

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(d RouterDeps) *http.ServeMux {
	mux := http.NewServeMux()
	requireAdmin := middleware.RequireAdmin(d.Verifier, d.Admin.Logger)
	limitForm := middleware.RateLimit(d.FormLimiter, d.Appointments.TooManyRequests)
	limitLogin := middleware.RateLimit(d.LoginLimiter, d.Admin.LoginTooManyRequests)

	// Appointment form. Registered without a method so other methods get the JSON 405.
	submit := limitForm(d.Appointments.Submit)
	mux.HandleFunc("/appointments", submit)
	mux.HandleFunc("/php/appointment.php", submit)

	mux.HandleFunc("GET /termine/{file}", d.Invites.Download)

	// Admin
	mux.HandleFunc("POST /admin/login", limitLogin(d.Admin.Login))
	mux.HandleFunc("GET /admin/invites", requireAdmin(d.Admin.ListInvites))
	mux.HandleFunc("GET /admin/invites/{key}", requireAdmin(d.Admin.GetInvite))
	mux.HandleFunc("POST /admin/decisions", requireAdmin(d.Admin.SendDecision))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
