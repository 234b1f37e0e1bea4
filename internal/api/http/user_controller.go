package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/immxrtalbeast/hotpot_room/internal/service"
)

type UserController struct {
	users service.UserInteractor
}

func NewUserController(users service.UserInteractor) *UserController {
	return &UserController{users: users}
}

func (c *UserController) CreateUser(ctx *gin.Context) {
	type request struct {
		Email       string `json:"email" binding:"required,email"`
		Preferences string `json:"preferences"`
		Gender      string `json:"gender"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	user, err := c.users.CreateUser(ctx.Request.Context(), req.Email, req.Preferences, req.Gender)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"user": user})
}

func (c *UserController) GetUser(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("userID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	user, err := c.users.GetUser(ctx.Request.Context(), id)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": user})
}

func (c *UserController) UpdatePreferences(ctx *gin.Context) {
	type request struct {
		Preferences string `json:"preferences"`
	}

	id, err := uuid.Parse(ctx.Param("userID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	user, err := c.users.UpdatePreferences(ctx.Request.Context(), id, req.Preferences)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": user})
}
