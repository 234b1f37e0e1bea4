package domain

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Ingredient is the public shape of one priced, purchasable item in a room.
type Ingredient struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Weight      string  `json:"weight"`
	ImageURL    string  `json:"img_url"`
	StoreURL    string  `json:"store_url"`
	CookSeconds *int    `json:"cook_seconds"`
}

// FoodDetails is the stored value of a food entry. Every field is kept as a
// string, matching the room document layout.
type FoodDetails struct {
	Price    string `json:"price"`
	Weight   string `json:"weight"`
	ImgURL   string `json:"imgURL"`
	StoreURL string `json:"storeURL"`
	Time     string `json:"time,omitempty"`
}

// FoodEntry is the stored form of an ingredient: a single-key object mapping
// the item name to its details.
type FoodEntry map[string]FoodDetails

// NewFoodEntry builds the stored representation of a scraped product.
func NewFoodEntry(record ProductRecord) FoodEntry {
	details := FoodDetails{
		Price:    FormatPrice(record.Price),
		Weight:   record.Weight,
		ImgURL:   record.ImageURL,
		StoreURL: record.Link,
	}
	if record.CookSeconds > 0 {
		details.Time = strconv.Itoa(record.CookSeconds)
	}
	return FoodEntry{record.Title: details}
}

// FoodEntryFromIngredient is the inverse of FoodEntry.Ingredient.
func FoodEntryFromIngredient(ing Ingredient) FoodEntry {
	details := FoodDetails{
		Price:    FormatPrice(ing.Price),
		Weight:   ing.Weight,
		ImgURL:   ing.ImageURL,
		StoreURL: ing.StoreURL,
	}
	if ing.CookSeconds != nil {
		details.Time = strconv.Itoa(*ing.CookSeconds)
	}
	return FoodEntry{ing.Name: details}
}

// Name returns the item name. Entries are expected to carry exactly one key;
// if a malformed entry has several, the lexically smallest wins.
func (e FoodEntry) Name() string {
	if len(e) == 0 {
		return ""
	}
	keys := slices.Sorted(maps.Keys(e))
	return keys[0]
}

// Ingredient maps the stored entry to the public shape. Missing or unparsable
// optional fields fall back to zero values; ok is false for an empty entry.
func (e FoodEntry) Ingredient() (Ingredient, bool) {
	name := e.Name()
	if name == "" {
		return Ingredient{}, false
	}
	details := e[name]
	ing := Ingredient{
		Name:     name,
		Price:    ParsePrice(details.Price),
		Weight:   details.Weight,
		ImageURL: details.ImgURL,
		StoreURL: details.StoreURL,
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(details.Time)); err == nil {
		ing.CookSeconds = &secs
	}
	return ing, true
}

func (e FoodEntry) Clone() FoodEntry {
	return maps.Clone(e)
}

// FormatPrice renders a price in its shortest decimal form ("5", "9.99").
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

// ParsePrice is lenient: a leading "$" is ignored and garbage yields 0.
func ParsePrice(s string) float64 {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
