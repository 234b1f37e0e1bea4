package domain

const (
	FeedMessageIngredients = "ingredients"
	FeedMessageError       = "error"
)

// FeedMessage is one frame pushed to a room's websocket subscribers.
type FeedMessage struct {
	Type        string       `json:"type"` // "ingredients", "error"
	Room        string       `json:"room,omitempty"`
	Ingredients []Ingredient `json:"ingredients"`
	Error       string       `json:"error,omitempty"`
}
