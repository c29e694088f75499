package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// UserHandler serves accounts, avatars and subscriptions
type UserHandler struct {
	auth          service.IAuthService
	users         service.IUserService
	subscriptions service.ISubscriptionService
	pageSize      int
}

func NewUserHandler(auth service.IAuthService, users service.IUserService, subscriptions service.ISubscriptionService, pageSize int) *UserHandler {
	return &UserHandler{auth: auth, users: users, subscriptions: subscriptions, pageSize: pageSize}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.UserCreatedResponse{
		Email:     user.Email,
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
}

func (h *UserHandler) List(c *gin.Context) {
	p, ok := parsePage(c, h.pageSize)
	if !ok {
		return
	}
	views, total, err := h.users.List(c.Request.Context(), middleware.CurrentUserID(c), p.Offset(), p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	writePage(c, p, total, toUserResponses(views))
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := h.users.Get(c.Request.Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(view.User, view.IsSubscribed))
}

func (h *UserHandler) Me(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	view, err := h.users.Get(c.Request.Context(), userID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(view.User, view.IsSubscribed))
}

func (h *UserHandler) SetPassword(c *gin.Context) {
	var req types.SetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.auth.SetPassword(c.Request.Context(), middleware.CurrentUserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	var req types.AvatarRequest
	if !bindJSON(c, &req) {
		return
	}
	url, err := h.users.UpdateAvatar(c.Request.Context(), middleware.CurrentUserID(c), req.Avatar)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.AvatarResponse{Avatar: url})
}

func (h *UserHandler) DeleteAvatar(c *gin.Context) {
	if err := h.users.DeleteAvatar(c.Request.Context(), middleware.CurrentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Subscriptions lists the authors the current user follows
func (h *UserHandler) Subscriptions(c *gin.Context) {
	p, ok := parsePage(c, h.pageSize)
	if !ok {
		return
	}
	views, total, err := h.subscriptions.List(c.Request.Context(), middleware.CurrentUserID(c),
		p.Offset(), p.Limit, positiveQuery(c, "recipes_limit"))
	if err != nil {
		respondError(c, err)
		return
	}
	writePage(c, p, total, toSubscriptionResponses(views))
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	authorID, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := h.subscriptions.Subscribe(c.Request.Context(), middleware.CurrentUserID(c), authorID,
		positiveQuery(c, "recipes_limit"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toSubscriptionResponse(*view))
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	authorID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.subscriptions.Unsubscribe(c.Request.Context(), middleware.CurrentUserID(c), authorID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
