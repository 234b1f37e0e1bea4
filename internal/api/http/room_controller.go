package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/immxrtalbeast/hotpot_room/internal/api/http/converter"
	"github.com/immxrtalbeast/hotpot_room/internal/service"
)

type RoomController struct {
	rooms service.RoomInteractor
}

func NewRoomController(rooms service.RoomInteractor) *RoomController {
	return &RoomController{rooms: rooms}
}

type membershipRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

func bindUserID(ctx *gin.Context) (uuid.UUID, bool) {
	var req membershipRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.UserID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return uuid.Nil, false
	}
	return id, true
}

func parseRoomID(ctx *gin.Context) (uuid.UUID, bool) {
	roomID, err := uuid.Parse(ctx.Param("roomID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return uuid.Nil, false
	}
	return roomID, true
}

func (c *RoomController) CreateRoom(ctx *gin.Context) {
	userID, ok := bindUserID(ctx)
	if !ok {
		return
	}

	room, err := c.rooms.CreateRoom(ctx.Request.Context(), userID)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"room": converter.RoomToApi(room)})
}

func (c *RoomController) GetRoom(ctx *gin.Context) {
	roomID, ok := parseRoomID(ctx)
	if !ok {
		return
	}

	room, err := c.rooms.GetRoom(ctx.Request.Context(), roomID)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"room": converter.RoomToApi(room)})
}

func (c *RoomController) ListMembers(ctx *gin.Context) {
	roomID, ok := parseRoomID(ctx)
	if !ok {
		return
	}

	users, err := c.rooms.ListMembers(ctx.Request.Context(), roomID)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"members": converter.MembersToApi(users)})
}

func (c *RoomController) JoinRoom(ctx *gin.Context) {
	roomID, ok := parseRoomID(ctx)
	if !ok {
		return
	}
	userID, ok := bindUserID(ctx)
	if !ok {
		return
	}

	room, err := c.rooms.JoinRoom(ctx.Request.Context(), userID, roomID)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"room": converter.RoomToApi(room)})
}

func (c *RoomController) LeaveRoom(ctx *gin.Context) {
	userID, ok := bindUserID(ctx)
	if !ok {
		return
	}

	if err := c.rooms.LeaveRoom(ctx.Request.Context(), userID); err != nil {
		writeError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
