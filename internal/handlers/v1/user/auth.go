package user

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/expense-server/internal/handlers/apierr"
	"github.com/carson-networks/expense-server/internal/logging"
	"github.com/carson-networks/expense-server/internal/service"
)

type RegisterBody struct {
	Name     string `json:"name" minLength:"2" maxLength:"100"`
	Email    string `json:"email" format:"email" maxLength:"254"`
	Password string `json:"password" minLength:"6" maxLength:"72" doc:"At least 6 characters and at most 72 bytes"`
}

type RegisterInput struct {
	Body RegisterBody
}

type LoginBody struct {
	Email    string `json:"email" format:"email" maxLength:"254"`
	Password string `json:"password" minLength:"6" maxLength:"72"`
}

type LoginInput struct {
	Body LoginBody
}

// SessionBody carries the bearer token for subsequent requests.
type SessionBody struct {
	Token string `json:"token" doc:"Bearer token"`
	User  User   `json:"user"`
}

type SessionOutput struct {
	Body SessionBody
}

type authenticator interface {
	Register(ctx context.Context, name, email, password string) (*service.Session, error)
	Login(ctx context.Context, email, password string) (*service.Session, error)
}

// AuthHandler handles POST /v1/auth/register and POST /v1/auth/login.
type AuthHandler struct {
	UserService authenticator
}

func NewAuthHandler(svc authenticator) *AuthHandler {
	return &AuthHandler{UserService: svc}
}

func (h *AuthHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "register",
		Method:      http.MethodPost,
		Path:        "/v1/auth/register",
		Summary:     "Register",
		Description: "Creates an account and returns a bearer token for it.",
		Tags:        []string{"Auth"},
	}, h.register)

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/v1/auth/login",
		Summary:     "Log in",
		Tags:        []string{"Auth"},
	}, h.login)
}

func (h *AuthHandler) register(ctx context.Context, input *RegisterInput) (*SessionOutput, error) {
	session, err := h.UserService.Register(ctx, input.Body.Name, input.Body.Email, input.Body.Password)
	if err != nil {
		return nil, apierr.FromService(err, "failed to register")
	}
	return sessionOutput(ctx, session), nil
}

func (h *AuthHandler) login(ctx context.Context, input *LoginInput) (*SessionOutput, error) {
	session, err := h.UserService.Login(ctx, input.Body.Email, input.Body.Password)
	if err != nil {
		return nil, apierr.FromService(err, "failed to log in")
	}
	return sessionOutput(ctx, session), nil
}

func sessionOutput(ctx context.Context, session *service.Session) *SessionOutput {
	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("userId", session.User.ID.String())
	}
	return &SessionOutput{Body: SessionBody{
		Token: session.Token,
		User:  fromService(&session.User),
	}}
}
