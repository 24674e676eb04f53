// Copyright (c) 2026 Gatekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/gatekeep/internal/platform/request"
	"github.com/taibuivan/gatekeep/internal/platform/respond"
)

// Plain-text acknowledgements returned by the public endpoints.
const (
	msgRegistered = "User registered successfully"
	msgLoggedOut  = "Logged out successfully"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// Every route is public at the router level. /me decides on its own whether
// the request carries an identity.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register : Creates a new account.
//   - POST /login    : Authenticates and returns a JWT.
//   - GET  /me       : Returns the account behind the bearer token.
//   - POST /logout   : Acknowledges a client-side logout.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Get("/me", handler.me)
	router.Post("/logout", handler.logout)

	return router
}

// # Request Payloads

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// # Response Payloads

type loginResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
}

type meResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

/*
Register handles the creation of a new user account.

POST /api/auth/register

Request:
  - Body: registerRequest (Username, Email, Password)

Response:
  - 200: text/plain "User registered successfully"
  - 400: USERNAME_TAKEN, EMAIL_TAKEN or VALIDATION_ERROR
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	_, err := handler.authService.Register(request.Context(), RegisterInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Text(writer, http.StatusOK, msgRegistered)
}

/*
Login authenticates credentials and returns an access token.

POST /api/auth/login

Request:
  - Body: loginRequest (Username, Password)

Response:
  - 200: loginResponse
  - 401: Invalid username or password
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Login(request.Context(), LoginInput{
		Username: input.Username,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, loginResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
	})
}

/*
Me returns the authenticated account.

GET /api/auth/me

Response:
  - 200: meResponse
  - 401: User not authenticated
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.authService.CurrentUser(request.Context(), requestutil.Identity(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, meResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

/*
Logout acknowledges a logout. No server-side state exists to clear.

POST /api/auth/logout

Response:
  - 200: text/plain "Logged out successfully"
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	handler.authService.Logout(request.Context(), requestutil.Identity(request))
	respond.Text(writer, http.StatusOK, msgLoggedOut)
}
