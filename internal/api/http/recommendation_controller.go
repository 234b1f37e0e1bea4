package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/immxrtalbeast/hotpot_room/internal/service"
)

type RecommendationController struct {
	recommendations service.RecommendationInteractor
}

func NewRecommendationController(recommendations service.RecommendationInteractor) *RecommendationController {
	return &RecommendationController{recommendations: recommendations}
}

// Generate runs the full pipeline for the room. The call blocks until the
// merged list is written or the pipeline deadline passes.
func (c *RecommendationController) Generate(ctx *gin.Context) {
	roomID, ok := parseRoomID(ctx)
	if !ok {
		return
	}

	result, err := c.recommendations.Generate(ctx.Request.Context(), roomID)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"result": result})
}

func (c *RecommendationController) Lucky(ctx *gin.Context) {
	type request struct {
		Item string `json:"item" binding:"required"`
	}

	roomID, ok := parseRoomID(ctx)
	if !ok {
		return
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	result, err := c.recommendations.Lucky(ctx.Request.Context(), roomID, req.Item)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"result": result})
}
