package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/immxrtalbeast/hotpot_room/internal/domain"
	"github.com/immxrtalbeast/hotpot_room/internal/realtime"
	"github.com/immxrtalbeast/hotpot_room/internal/repository"
	"github.com/immxrtalbeast/hotpot_room/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRecommendations struct {
	mock.Mock
}

func (m *MockRecommendations) Generate(ctx context.Context, roomID uuid.UUID) (*service.PipelineResult, error) {
	args := m.Called(ctx, roomID)
	result, _ := args.Get(0).(*service.PipelineResult)
	return result, args.Error(1)
}

func (m *MockRecommendations) Lucky(ctx context.Context, roomID uuid.UUID, item string) (*service.PipelineResult, error) {
	args := m.Called(ctx, roomID, item)
	result, _ := args.Get(0).(*service.PipelineResult)
	return result, args.Error(1)
}

type testAPI struct {
	router          *gin.Engine
	rooms           repository.RoomRepository
	recommendations *MockRecommendations
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	broker := realtime.NewBroker()
	rooms := realtime.NewNotifyingRoomRepository(repository.NewInMemoryRoomRepository(), broker, nil)
	users := repository.NewInMemoryUserRepository()
	recommendations := new(MockRecommendations)

	router := SetupRouter([]string{"http://localhost:3000"}, Controllers{
		Rooms:           NewRoomController(service.NewRoomService(rooms, users, nil)),
		Users:           NewUserController(service.NewUserService(users, nil)),
		Ingredients:     NewIngredientController(service.NewIngredientService(rooms, nil)),
		Recommendations: NewRecommendationController(recommendations),
		Feed:            NewFeedController(realtime.NewNotifier(rooms, broker, nil), nil),
	})

	return &testAPI{router: router, rooms: rooms, recommendations: recommendations}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type userEnvelope struct {
	User domain.User `json:"user"`
}

type roomEnvelope struct {
	Room struct {
		ID          uuid.UUID           `json:"id"`
		IsActive    bool                `json:"is_active"`
		Members     []uuid.UUID         `json:"members"`
		Ingredients []domain.Ingredient `json:"ingredients"`
	} `json:"room"`
}

func (a *testAPI) createUser(t *testing.T, email, prefs string) uuid.UUID {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/users/create", gin.H{"email": email, "preferences": prefs})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[userEnvelope](t, w).User.ID
}

func (a *testAPI) createRoom(t *testing.T, userID uuid.UUID) uuid.UUID {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/rooms/create", gin.H{"user_id": userID.String()})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[roomEnvelope](t, w).Room.ID
}

func TestAPI_Healthz(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPI_UserLifecycle(t *testing.T) {
	api := newTestAPI(t)
	id := api.createUser(t, "cook@example.com", "likes beef")

	w := api.do(t, http.MethodGet, "/api/users/"+id.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "likes beef", decode[userEnvelope](t, w).User.Preferences)

	w = api.do(t, http.MethodPut, "/api/users/"+id.String()+"/preferences", gin.H{"preferences": "no pork"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no pork", decode[userEnvelope](t, w).User.Preferences)

	w = api.do(t, http.MethodPost, "/api/users/create", gin.H{"email": "cook@example.com"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(t, http.MethodPost, "/api/users/create", gin.H{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodGet, "/api/users/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodGet, "/api/users/nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPI_RoomMembership(t *testing.T) {
	api := newTestAPI(t)
	host := api.createUser(t, "host@example.com", "")
	guest := api.createUser(t, "guest@example.com", "")
	roomID := api.createRoom(t, host)

	w := api.do(t, http.MethodPost, "/api/rooms/create", gin.H{"user_id": host.String()})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(t, http.MethodPost, "/api/rooms/"+roomID.String()+"/join", gin.H{"user_id": guest.String()})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []uuid.UUID{host, guest}, decode[roomEnvelope](t, w).Room.Members)

	w = api.do(t, http.MethodGet, "/api/rooms/"+roomID.String()+"/members", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[struct {
		Members []map[string]any `json:"members"`
	}](t, w).Members, 2)

	w = api.do(t, http.MethodPost, "/api/rooms/leave", gin.H{"user_id": guest.String()})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = api.do(t, http.MethodPost, "/api/rooms/leave", gin.H{"user_id": guest.String()})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(t, http.MethodPost, "/api/rooms/"+uuid.NewString()+"/join", gin.H{"user_id": guest.String()})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodPost, "/api/rooms/create", gin.H{"user_id": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPI_IngredientEditing(t *testing.T) {
	api := newTestAPI(t)
	host := api.createUser(t, "host@example.com", "")
	roomID := api.createRoom(t, host)
	base := "/api/rooms/" + roomID.String() + "/ingredients"

	w := api.do(t, http.MethodPost, base, gin.H{"name": "Tofu", "price": 2.5, "cook_seconds": 120})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(t, http.MethodPut, base+"/Tofu", gin.H{"name": "Silken Tofu", "price": 3})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Ingredients []domain.Ingredient `json:"ingredients"`
	}](t, w).Ingredients
	require.Len(t, list, 1)
	assert.Equal(t, "Silken Tofu", list[0].Name)
	assert.Equal(t, 3.0, list[0].Price)
	assert.Nil(t, list[0].CookSeconds)

	w = api.do(t, http.MethodDelete, base+"/Tofu", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodDelete, base+"/Silken%20Tofu", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodPost, base, gin.H{"name": "Corn", "price": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPI_RecommendationErrorMapping(t *testing.T) {
	api := newTestAPI(t)
	roomID := uuid.New()
	path := "/api/rooms/" + roomID.String() + "/recommendations"

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "invalid model reply", err: &domain.InvalidModelResponseError{Reason: "prose"}, want: http.StatusBadGateway},
		{name: "network", err: &domain.NetworkError{Op: "llm.complete", StatusCode: 500}, want: http.StatusBadGateway},
		{name: "deadline", err: context.DeadlineExceeded, want: http.StatusGatewayTimeout},
		{name: "missing room", err: repository.ErrRoomNotFound, want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call := api.recommendations.On("Generate", mock.Anything, roomID).Return(nil, tt.err).Once()
			defer call.Unset()

			w := api.do(t, http.MethodPost, path, nil)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestAPI_Lucky(t *testing.T) {
	api := newTestAPI(t)
	roomID := uuid.New()
	api.recommendations.On("Lucky", mock.Anything, roomID, "wagyu").
		Return(&service.PipelineResult{Appended: 1}, nil).Once()

	w := api.do(t, http.MethodPost, "/api/rooms/"+roomID.String()+"/lucky", gin.H{"item": "wagyu"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"appended":1`)

	w = api.do(t, http.MethodPost, "/api/rooms/"+roomID.String()+"/lucky", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	api.recommendations.AssertExpectations(t)
}

func TestAPI_FeedStreamsIngredients(t *testing.T) {
	api := newTestAPI(t)
	host := api.createUser(t, "host@example.com", "")
	roomID := api.createRoom(t, host)

	srv := httptest.NewServer(api.router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/rooms/" + roomID.String() + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() domain.FeedMessage {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var msg domain.FeedMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	}

	first := read()
	assert.Equal(t, domain.FeedMessageIngredients, first.Type)
	assert.Empty(t, first.Ingredients)

	w := api.do(t, http.MethodPost, "/api/rooms/"+roomID.String()+"/ingredients", gin.H{"name": "Fish Balls", "price": 3.2})
	require.Equal(t, http.StatusCreated, w.Code)

	next := read()
	require.Len(t, next.Ingredients, 1)
	assert.Equal(t, "Fish Balls", next.Ingredients[0].Name)
	assert.Equal(t, 3.2, next.Ingredients[0].Price)
}

func TestAPI_FeedUnknownRoom(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(t, http.MethodGet, "/api/rooms/"+uuid.NewString()+"/ws", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
