package user

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/expense-server/internal/auth"
	"github.com/carson-networks/expense-server/internal/handlers/apierr"
	"github.com/carson-networks/expense-server/internal/service"
)

type UserIDInput struct {
	ID string `path:"id" format:"uuid" doc:"User UUID"`
}

type UpdateProfileBody struct {
	Name      string  `json:"name,omitempty" minLength:"2" maxLength:"100" doc:"Omit to keep the current name"`
	AvatarURL *string `json:"avatarUrl,omitempty" doc:"http(s) or image data URL; empty string clears it"`
}

type UpdateProfileInput struct {
	ID   string `path:"id" format:"uuid" doc:"User UUID"`
	Body UpdateProfileBody
}

type UserOutput struct {
	Body User
}

type profileService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*service.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, update service.ProfileUpdate) (*service.User, error)
}

// ProfileHandler handles GET and PUT /v1/user/{id}. Users may only see and change their own
// profile.
type ProfileHandler struct {
	UserService profileService
}

func NewProfileHandler(svc profileService) *ProfileHandler {
	return &ProfileHandler{UserService: svc}
}

func (h *ProfileHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-user",
		Method:      http.MethodGet,
		Path:        "/v1/user/{id}",
		Summary:     "Get profile",
		Tags:        []string{"Users"},
		Security:    auth.Security,
	}, h.get)

	huma.Register(api, huma.Operation{
		OperationID: "update-user",
		Method:      http.MethodPut,
		Path:        "/v1/user/{id}",
		Summary:     "Update profile",
		Tags:        []string{"Users"},
		Security:    auth.Security,
	}, h.update)
}

// self checks that the path id is the caller.
func self(ctx context.Context, rawID string) (uuid.UUID, error) {
	ownerID, err := auth.RequireOwner(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.FromString(rawID)
	if err != nil {
		return uuid.Nil, huma.NewError(http.StatusBadRequest, "invalid id", err)
	}
	if id != ownerID {
		return uuid.Nil, huma.Error403Forbidden("forbidden")
	}
	return id, nil
}

func (h *ProfileHandler) get(ctx context.Context, input *UserIDInput) (*UserOutput, error) {
	id, err := self(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	found, err := h.UserService.GetUser(ctx, id)
	if err != nil {
		return nil, apierr.FromService(err, "failed to get user")
	}
	return &UserOutput{Body: fromService(found)}, nil
}

func (h *ProfileHandler) update(ctx context.Context, input *UpdateProfileInput) (*UserOutput, error) {
	id, err := self(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	updated, err := h.UserService.UpdateUser(ctx, id, service.ProfileUpdate{
		Name:      input.Body.Name,
		AvatarURL: input.Body.AvatarURL,
	})
	if err != nil {
		return nil, apierr.FromService(err, "failed to update user")
	}
	return &UserOutput{Body: fromService(updated)}, nil
}
