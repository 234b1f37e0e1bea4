package scraper

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchPage = `<html><body>
<div class="sc-1 product-container grid">
  <a href="/product/beef-slices-200g">
    <img title="Beef Slices" src="/images/beef.png">
    <span>$12.50</span>
    <span>$9.99 (discount)</span>
    <span>200 g</span>
    <span>Halal Certified</span>
  </a>
  <a href="/product/no-price">
    <img title="Mystery Box" src="https://cdn.example.com/box.png">
    <span>Out of stock</span>
  </a>
</div>
<div class="product-container">
  <a href="https://www.example.com/product/pork-belly">
    <img src="https://cdn.example.com/pork.png">
    <span>$6.00</span>
    <span>per pack</span>
  </a>
</div>
</body></html>`

func testParser(t *testing.T) Parser {
	t.Helper()
	origin, err := url.Parse("https://www.example.com")
	require.NoError(t, err)
	return Parser{Origin: origin, CurrencySymbol: "$", Supermarket: "ntuc"}
}

func TestParser_Parse(t *testing.T) {
	records, err := testParser(t).Parse(strings.NewReader(searchPage))
	require.NoError(t, err)
	require.Len(t, records, 2, "anchor without a price must be skipped")

	first := records[0]
	assert.Equal(t, "Beef Slices", first.Title)
	assert.Equal(t, 9.99, first.Price)
	assert.Equal(t, "200 g", first.Weight)
	assert.Equal(t, "https://www.example.com/images/beef.png", first.ImageURL)
	assert.Equal(t, "https://www.example.com/product/beef-slices-200g", first.Link)
	assert.Equal(t, "ntuc", first.Supermarket)

	second := records[1]
	assert.Equal(t, "Unknown", second.Title)
	assert.Equal(t, 6.0, second.Price)
	assert.Equal(t, "per pack", second.Weight)
	assert.Equal(t, "https://cdn.example.com/pork.png", second.ImageURL)
	assert.Equal(t, "https://www.example.com/product/pork-belly", second.Link)
}

func TestParser_ParseEmptyPage(t *testing.T) {
	records, err := testParser(t).Parse(strings.NewReader(`<html><body><p>No results</p></body></html>`))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParser_OnlyDirectAnchorsCount(t *testing.T) {
	page := `<div class="product-container"><div><a href="/nested"><img title="Nested"><span>$1.00</span></a></div></div>`
	records, err := testParser(t).Parse(strings.NewReader(page))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestExtractPrice(t *testing.T) {
	tests := []struct {
		name  string
		spans []string
		want  float64
		ok    bool
	}{
		{name: "discount wins", spans: []string{"$12.50", "$9.99 (discount)"}, want: 9.99, ok: true},
		{name: "thousands separator", spans: []string{"$1,299.00"}, want: 1299, ok: true},
		{name: "ignores text without symbol", spans: []string{"12.50", "$3"}, want: 3, ok: true},
		{name: "symbol without number", spans: []string{"$ off", "Save"}, ok: false},
		{name: "no spans", spans: nil, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractPrice(tt.spans, "$")
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestExtractWeight(t *testing.T) {
	tests := []struct {
		name  string
		spans []string
		want  string
	}{
		{name: "halal badge excluded", spans: []string{"200 g", "Halal Certified"}, want: "200 g"},
		{name: "halal excluded even with unit", spans: []string{"1kg", "HALAL 1kg"}, want: "1kg"},
		{name: "last match wins", spans: []string{"500 ml", "2 x 250 ml"}, want: "2 x 250 ml"},
		{name: "too long is ignored", spans: []string{"300 g", "Great value family pack 2kg"}, want: "300 g"},
		{name: "per unit marker", spans: []string{"$4.50", "5 per box"}, want: "5 per box"},
		{name: "nothing qualifies", spans: []string{"$4.50", "New"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractWeight(tt.spans))
		})
	}
}
