package recommend

import (
	"errors"
	"testing"

	"github.com/immxrtalbeast/hotpot_room/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCandidates(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []domain.Candidate
	}{
		{
			name: "plain array",
			raw:  `[["Beef Slices", 20], ["Enoki Mushroom", 60]]`,
			want: []domain.Candidate{{Name: "Beef Slices", CookSeconds: 20}, {Name: "Enoki Mushroom", CookSeconds: 60}},
		},
		{
			name: "stray whitespace and quotes",
			raw:  "\n  '[[\"Tofu\", 120]]'\n",
			want: []domain.Candidate{{Name: "Tofu", CookSeconds: 120}},
		},
		{
			name: "code fence",
			raw:  "```json\n[[\"Fish Balls\", 90]]\n```",
			want: []domain.Candidate{{Name: "Fish Balls", CookSeconds: 90}},
		},
		{
			name: "numeric string seconds",
			raw:  `[["Prawns", "45"], ["Lamb", "30s"]]`,
			want: []domain.Candidate{{Name: "Prawns", CookSeconds: 45}, {Name: "Lamb", CookSeconds: 30}},
		},
		{
			name: "clamped into range",
			raw:  `[["Lettuce", 1], ["Corn", 900], ["Egg", 12.6]]`,
			want: []domain.Candidate{{Name: "Lettuce", CookSeconds: 5}, {Name: "Corn", CookSeconds: 300}, {Name: "Egg", CookSeconds: 13}},
		},
		{
			name: "missing cook time",
			raw:  `[["Cabbage"]]`,
			want: []domain.Candidate{{Name: "Cabbage", CookSeconds: 5}},
		},
		{
			name: "empty array",
			raw:  `[]`,
			want: []domain.Candidate{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeCandidates(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeCandidates_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "prose", raw: "Sure! Here are some items: beef, tofu"},
		{name: "object", raw: `{"items": [["Beef", 20]]}`},
		{name: "flat array", raw: `["Beef", "Tofu"]`},
		{name: "empty pair", raw: `[[]]`},
		{name: "extra fields", raw: `[["Beef", 20, "Tofu"]]`},
		{name: "numeric name", raw: `[[42, 20]]`},
		{name: "blank name", raw: `[["  ", 20]]`},
		{name: "emoji instead of seconds", raw: `[["Beef", "🥩"]]`},
		{name: "empty", raw: "  \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeCandidates(tt.raw)
			assert.Nil(t, got)

			var invalid *domain.InvalidModelResponseError
			require.True(t, errors.As(err, &invalid), "got %v", err)
			assert.Equal(t, tt.raw, invalid.Raw)
		})
	}
}
