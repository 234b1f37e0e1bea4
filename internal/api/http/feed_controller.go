package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/immxrtalbeast/hotpot_room/internal/domain"
	"github.com/immxrtalbeast/hotpot_room/lib/logger/sl"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

type IngredientNotifier interface {
	Subscribe(ctx context.Context, roomID uuid.UUID, onUpdate func([]domain.Ingredient)) (func(), error)
}

// FeedController streams a room's ingredient list over a websocket.
type FeedController struct {
	notifier IngredientNotifier
	upgrader websocket.Upgrader
	log      *slog.Logger
}

func NewFeedController(notifier IngredientNotifier, log *slog.Logger) *FeedController {
	if log == nil {
		log = slog.Default()
	}
	return &FeedController{
		notifier: notifier,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log: log,
	}
}

func (c *FeedController) Subscribe(ctx *gin.Context) {
	const op = "api.feed.subscribe"

	roomID, ok := parseRoomID(ctx)
	if !ok {
		return
	}
	log := c.log.With(slog.String("op", op), slog.String("room_id", roomID.String()))

	// The request context is not canceled when a hijacked connection drops,
	// so the reader below cancels this one instead.
	streamCtx, cancel := context.WithCancel(ctx.Request.Context())
	defer cancel()

	updates := make(chan []domain.Ingredient, 1)
	unsubscribe, err := c.notifier.Subscribe(streamCtx, roomID, func(list []domain.Ingredient) {
		latest(updates, list)
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	defer unsubscribe()

	conn, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Info("websocket upgrade failed", sl.Err(err))
		return
	}
	defer conn.Close()

	go func() {
		defer cancel()
		conn.SetReadLimit(4096)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	log.Debug("feed connected")
	for {
		select {
		case <-streamCtx.Done():
			log.Debug("feed disconnected")
			return
		case list := <-updates:
			frame, err := json.Marshal(domain.FeedMessage{
				Type:        domain.FeedMessageIngredients,
				Room:        roomID.String(),
				Ingredients: list,
			})
			if err != nil {
				log.Error("failed to encode frame", sl.Err(err))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				log.Debug("feed write failed", sl.Err(err))
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// latest puts list on ch, replacing a value the writer has not taken yet.
func latest(ch chan []domain.Ingredient, list []domain.Ingredient) {
	for {
		select {
		case ch <- list:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
