package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/immxrtalbeast/hotpot_room/internal/domain"
	"github.com/immxrtalbeast/hotpot_room/internal/repository"
	"github.com/immxrtalbeast/hotpot_room/internal/service"
)

func statusFor(err error) int {
	var invalid *domain.InvalidModelResponseError
	var netErr *domain.NetworkError

	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, service.ErrIngredientNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyInRoom),
		errors.Is(err, domain.ErrNotInRoom),
		errors.Is(err, repository.ErrUserEmailExists),
		errors.Is(err, service.ErrConcurrentUpdate):
		return http.StatusConflict
	case errors.Is(err, service.ErrEmailRequired), errors.Is(err, service.ErrInvalidIngredient):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &invalid), errors.As(err, &netErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(ctx *gin.Context, err error) {
	ctx.JSON(statusFor(err), gin.H{"error": err.Error()})
}
