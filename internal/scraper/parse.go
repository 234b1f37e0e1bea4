package scraper

import (
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/immxrtalbeast/hotpot_room/internal/domain"
)

const (
	containerSelector = `div[class*="product-container"]`
	unknownTitle      = "Unknown"
	maxWeightLength   = 15
)

// unitTokens mark a span as a weight/quantity label. "per" covers
// "per pack" style labels.
var unitTokens = []string{"kg", "KG", "g", "G", "ml", "ML", "l", "L", "per"}

var leadingNumber = regexp.MustCompile(`^(\d[\d,]*(?:\.\d+)?|\.\d+)`)

// Parser extracts product records from a retailer search results page.
type Parser struct {
	Origin         *url.URL
	CurrencySymbol string
	Supermarket    string
}

// Parse returns every product found, in document order. Anchors without a
// price are skipped.
func (p Parser) Parse(r io.Reader) ([]domain.ProductRecord, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse search page: %w", err)
	}

	records := make([]domain.ProductRecord, 0)
	doc.Find(containerSelector).Each(func(_ int, container *goquery.Selection) {
		container.ChildrenFiltered("a").Each(func(_ int, anchor *goquery.Selection) {
			if record, ok := p.parseAnchor(anchor); ok {
				records = append(records, record)
			}
		})
	})

	return records, nil
}

func (p Parser) parseAnchor(anchor *goquery.Selection) (domain.ProductRecord, bool) {
	spans := make([]string, 0)
	anchor.Find("span").Each(func(_ int, span *goquery.Selection) {
		spans = append(spans, strings.TrimSpace(span.Text()))
	})

	price, ok := extractPrice(spans, p.currencySymbol())
	if !ok {
		return domain.ProductRecord{}, false
	}

	img := anchor.Find("img").First()
	title := strings.TrimSpace(img.AttrOr("title", ""))
	if title == "" {
		title = unknownTitle
	}

	imageURL := strings.TrimSpace(img.AttrOr("src", ""))
	if imageURL != "" && !strings.HasPrefix(imageURL, "http") {
		imageURL = p.resolve(imageURL)
	}

	link := ""
	if href, exists := anchor.Attr("href"); exists {
		link = p.resolve(strings.TrimSpace(href))
	}

	return domain.ProductRecord{
		Title:       title,
		Price:       price,
		Weight:      extractWeight(spans),
		ImageURL:    imageURL,
		Link:        link,
		Supermarket: p.Supermarket,
	}, true
}

func (p Parser) currencySymbol() string {
	if p.CurrencySymbol == "" {
		return "$"
	}
	return p.CurrencySymbol
}

func (p Parser) resolve(ref string) string {
	if p.Origin == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return p.Origin.String() + ref
	}
	return p.Origin.ResolveReference(u).String()
}

// extractPrice returns the smallest price among spans starting with the
// currency symbol. Pages show discounted and original prices side by side.
func extractPrice(spans []string, symbol string) (float64, bool) {
	found := false
	lowest := 0.0
	for _, text := range spans {
		if !strings.HasPrefix(text, symbol) {
			continue
		}
		match := leadingNumber.FindString(strings.TrimSpace(strings.TrimPrefix(text, symbol)))
		if match == "" {
			continue
		}
		value, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
		if err != nil {
			continue
		}
		if !found || value < lowest {
			lowest = value
			found = true
		}
	}
	return lowest, found
}

// extractWeight returns the last short span that carries a unit token.
// Spans mentioning "halal" are ignored: the certification badge is short
// and contains unit letters.
func extractWeight(spans []string) string {
	weight := ""
	for _, text := range spans {
		if utf8.RuneCountInString(text) > maxWeightLength {
			continue
		}
		if strings.Contains(strings.ToLower(text), "halal") {
			continue
		}
		if containsUnit(text) {
			weight = text
		}
	}
	return weight
}

func containsUnit(text string) bool {
	for _, unit := range unitTokens {
		if strings.Contains(text, unit) {
			return true
		}
	}
	return false
}
