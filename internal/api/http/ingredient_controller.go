package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/immxrtalbeast/hotpot_room/internal/api/http/converter"
	"github.com/immxrtalbeast/hotpot_room/internal/service"
)

type IngredientController struct {
	ingredients service.IngredientInteractor
}

func NewIngredientController(ingredients service.IngredientInteractor) *IngredientController {
	return &IngredientController{ingredients: ingredients}
}

func (c *IngredientController) List(ctx *gin.Context) {
	roomID, ok := parseRoomID(ctx)
	if !ok {
		return
	}

	list, err := c.ingredients.List(ctx.Request.Context(), roomID)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ingredients": list})
}

func (c *IngredientController) Add(ctx *gin.Context) {
	roomID, ok := parseRoomID(ctx)
	if !ok {
		return
	}

	var req converter.IngredientRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	room, err := c.ingredients.Add(ctx.Request.Context(), roomID, converter.IngredientFromApi(req))
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"room": converter.RoomToApi(room)})
}

func (c *IngredientController) Update(ctx *gin.Context) {
	roomID, ok := parseRoomID(ctx)
	if !ok {
		return
	}

	var req converter.IngredientRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	room, err := c.ingredients.Update(ctx.Request.Context(), roomID, ctx.Param("name"), converter.IngredientFromApi(req))
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"room": converter.RoomToApi(room)})
}

func (c *IngredientController) Delete(ctx *gin.Context) {
	roomID, ok := parseRoomID(ctx)
	if !ok {
		return
	}

	room, err := c.ingredients.Delete(ctx.Request.Context(), roomID, ctx.Param("name"))
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"room": converter.RoomToApi(room)})
}
