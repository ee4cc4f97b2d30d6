package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/proposaldesk/docstore/internal/api/rest/middleware"
	"github.com/proposaldesk/docstore/internal/apperr"
	"github.com/proposaldesk/docstore/internal/logger"
	"github.com/proposaldesk/docstore/internal/model"
	"github.com/proposaldesk/docstore/internal/service"
)

// User handles account endpoints.
type User struct {
	users  *service.User
	logger *logger.Logger
}

// NewUser creates a new User handler instance.
func NewUser(users *service.User, logger *logger.Logger) *User {
	return &User{users: users, logger: logger}
}

type registerRequest struct {
	Login     string `json:"login"`
	Password  string `json:"password"`
	Privilege string `json:"privilege"`
	UUID      string `json:"uuid"`
}

type registerResponse struct {
	UserID      int64  `json:"user_id"`
	UserUUID    string `json:"user_uuid"`
	Login       string `json:"login"`
	Privilege   string `json:"privilege"`
	Token       string `json:"token"`
	UserDirUUID string `json:"user_dir_uuid"`
	S3Login     string `json:"s3_login"`
}

// Register creates a new tenant account. Admin-only.
func (h *User) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	desc, err := h.users.Create(c.Request().Context(), middleware.Principal(c), service.CreateUserParams{
		Login:        req.Login,
		Password:     req.Password,
		Privilege:    model.Privilege(req.Privilege),
		AssignedUUID: req.UUID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{
		UserID:      desc.UserID,
		UserUUID:    desc.UserUUID,
		Login:       desc.Login,
		Privilege:   string(desc.Privilege),
		Token:       desc.Token,
		UserDirUUID: desc.RootDirUUID,
		S3Login:     desc.S3Login,
	})
}

type authRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type authResponse struct {
	Token       string `json:"token"`
	UserID      int64  `json:"user_id"`
	UserUUID    string `json:"user_uuid"`
	UserDirUUID string `json:"user_dir_uuid"`
	Privilege   string `json:"privilege"`
}

// AuthV2 exchanges credentials for the account's bearer token.
func (h *User) AuthV2(c echo.Context) error {
	var req authRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	result, err := h.users.Authenticate(c.Request().Context(), req.Login, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{
		Token:       result.Token,
		UserID:      result.UserID,
		UserUUID:    result.UserUUID,
		UserDirUUID: result.RootDirUUID,
		Privilege:   string(result.Privilege),
	})
}

type userInfo struct {
	ID        int64   `json:"id"`
	UUID      string  `json:"uuid"`
	Login     string  `json:"login"`
	Privilege string  `json:"privilege"`
	Active    bool    `json:"active"`
	LastAuth  *string `json:"last_auth"`
	CreatedAt string  `json:"created_at"`
}

// GetInfo lists accounts through the shared query engine.
func (h *User) GetInfo(c echo.Context) error {
	query := parseListQuery(c)

	accounts, total, err := h.users.List(c.Request().Context(), middleware.Principal(c), query)
	if err != nil {
		return err
	}

	loc := callerLocation(c)
	infos := make([]userInfo, 0, len(accounts))
	for _, a := range accounts {
		infos = append(infos, userInfo{
			ID:        a.ID,
			UUID:      a.UUID,
			Login:     a.Login,
			Privilege: string(a.Privilege),
			Active:    a.Active,
			LastAuth:  formatTimePtr(a.LastAuth, loc),
			CreatedAt: formatTime(a.CreatedAt, loc),
		})
	}

	return c.JSON(http.StatusOK, paged(infos, total, query.Page.Size))
}

type updateUserRequest struct {
	UUID        string  `json:"uuid"`
	Login       string  `json:"login"`
	NewLogin    *string `json:"new_login"`
	NewPassword *string `json:"new_password"`
	NewUUID     *string `json:"new_uuid"`
}

// UpdateInfo changes account credentials. Admin-only.
func (h *User) UpdateInfo(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	account, err := h.users.Update(c.Request().Context(), middleware.Principal(c), service.UpdateUserParams{
		TargetUUID:  req.UUID,
		TargetLogin: req.Login,
		NewLogin:    req.NewLogin,
		NewPassword: req.NewPassword,
		NewUUID:     req.NewUUID,
	})
	if err != nil {
		return err
	}

	loc := callerLocation(c)
	return c.JSON(http.StatusOK, userInfo{
		ID:        account.ID,
		UUID:      account.UUID,
		Login:     account.Login,
		Privilege: string(account.Privilege),
		Active:    account.Active,
		LastAuth:  formatTimePtr(account.LastAuth, loc),
		CreatedAt: formatTime(account.CreatedAt, loc),
	})
}

type deleteUsersRequest struct {
	Tokens        []string `json:"tokens"`
	UUIDs         []string `json:"uuids"`
	WithDocuments bool     `json:"with_documents"`
}

// Delete tears down accounts. Admin-only.
func (h *User) Delete(c echo.Context) error {
	var req deleteUsersRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	err := h.users.Delete(c.Request().Context(), middleware.Principal(c), req.Tokens, req.UUIDs, req.WithDocuments)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Msg: "ok"})
}

type clientStateResponse struct {
	State string `json:"state"`
	TTL   int64  `json:"ttl"`
}

// GetClientState reads the caller's opaque state blob. Admins may pass
// target_user_uuid to read another account's blob.
func (h *User) GetClientState(c echo.Context) error {
	value, ttl, err := h.users.GetClientState(c.Request().Context(), middleware.Principal(c), c.QueryParam("target_user_uuid"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, clientStateResponse{State: string(value), TTL: ttl})
}

type recordClientStateRequest struct {
	State          string `json:"state"`
	TargetUserUUID string `json:"target_user_uuid"`
	TTL            int64  `json:"ttl"`
}

// RecordClientState writes the caller's opaque state blob with an optional
// TTL in seconds.
func (h *User) RecordClientState(c echo.Context) error {
	var req recordClientStateRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	err := h.users.RecordClientState(c.Request().Context(), middleware.Principal(c), req.TargetUserUUID, []byte(req.State), req.TTL)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Msg: "ok"})
}
