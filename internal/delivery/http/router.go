// Package http wires the controllers into the route table.
package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"personafeedback/internal/delivery/http/controllers"
	"personafeedback/internal/delivery/http/middleware"
	"personafeedback/internal/domain"
)

// Controllers groups everything the router mounts.
type Controllers struct {
	Auth       *controllers.AuthController
	Tests      *controllers.TestController
	Invitation *controllers.InvitationController
	Feedback   *controllers.FeedbackController
	Admin      *controllers.AdminController
}

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(c Controllers, verifier domain.TokenVerifier) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier)

	// Auth
	mux.HandleFunc("POST /auth/signup", c.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)
	mux.HandleFunc("POST /auth/code", c.Auth.RequestLoginCode)
	mux.HandleFunc("POST /auth/code/verify", c.Auth.VerifyLoginCode)
	mux.HandleFunc("GET /users/me", auth(c.Auth.GetMe))
	mux.HandleFunc("PATCH /users/me", auth(c.Auth.UpdateMe))

	// Tests and the caller's own results
	mux.HandleFunc("GET /tests", c.Tests.ListTests)
	mux.HandleFunc("GET /tests/{testID}", c.Tests.GetTest)
	mux.HandleFunc("POST /tests/{testID}/submit", auth(c.Tests.SubmitTest))
	mux.HandleFunc("GET /results", auth(c.Tests.ListResults))
	mux.HandleFunc("GET /results/{resultID}", auth(c.Tests.GetResult))

	// Invitations and received feedback (owner side)
	mux.HandleFunc("POST /results/{resultID}/invitations", auth(c.Invitation.Issue))
	mux.HandleFunc("GET /results/{resultID}/invitations", auth(c.Invitation.List))
	mux.HandleFunc("GET /results/{resultID}/feedback", auth(c.Feedback.List))

	// Anonymous feedback surface
	mux.HandleFunc("POST /feedback/validate", c.Feedback.ValidateInvite)
	mux.HandleFunc("POST /feedback", c.Feedback.Submit)

	// Admin
	mux.HandleFunc("PUT /admin/messages", auth(c.Admin.UpsertMessage))
	mux.HandleFunc("GET /admin/messages", c.Admin.ListMessages)
	mux.HandleFunc("DELETE /admin/messages/{locale}/{key}", auth(c.Admin.DeleteMessage))
	mux.HandleFunc("PUT /admin/languages", auth(c.Admin.UpsertLanguage))
	mux.HandleFunc("GET /admin/languages", c.Admin.ListLanguages)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
