package recommend

import (
	"bytes"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/immxrtalbeast/hotpot_room/internal/domain"
)

const (
	MinCookSeconds = 5
	MaxCookSeconds = 300
)

var fenceRe = regexp.MustCompile("^```[A-Za-z]*")

const strayChars = " \t\r\n\"'`"

// DecodeCandidates parses a model reply of the form
// [["item", seconds], ...]. Any deviation from that shape fails the whole
// reply; cook times outside the allowed range are clamped.
func DecodeCandidates(raw string) ([]domain.Candidate, error) {
	text := fenceRe.ReplaceAllString(strings.TrimSpace(raw), "")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	text = strings.Trim(text, strayChars)

	if text == "" {
		return nil, invalid("empty reply", raw, nil)
	}

	var rows []json.RawMessage
	if err := json.Unmarshal([]byte(text), &rows); err != nil {
		return nil, invalid("top-level value is not a JSON array", raw, err)
	}

	candidates := make([]domain.Candidate, 0, len(rows))
	for i, row := range rows {
		var pair []json.RawMessage
		if err := json.Unmarshal(row, &pair); err != nil {
			return nil, invalid(fmt.Sprintf("element %d is not an array", i), raw, err)
		}
		if len(pair) == 0 {
			return nil, invalid(fmt.Sprintf("element %d is empty", i), raw, nil)
		}
		if len(pair) > 2 {
			return nil, invalid(fmt.Sprintf("element %d has %d fields", i, len(pair)), raw, nil)
		}

		var name string
		if err := json.Unmarshal(pair[0], &name); err != nil {
			return nil, invalid(fmt.Sprintf("element %d has a non-string name", i), raw, err)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, invalid(fmt.Sprintf("element %d has an empty name", i), raw, nil)
		}

		seconds := MinCookSeconds
		if len(pair) > 1 {
			v, err := parseSeconds(pair[1])
			if err != nil {
				return nil, invalid(fmt.Sprintf("element %d has an invalid cook time", i), raw, err)
			}
			seconds = clamp(v)
		}

		candidates = append(candidates, domain.Candidate{Name: name, CookSeconds: seconds})
	}

	return candidates, nil
}

func parseSeconds(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "s"))
		return strconv.ParseFloat(s, 64)
	}

	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, err
	}
	return v, nil
}

func clamp(v float64) int {
	if math.IsNaN(v) {
		return MinCookSeconds
	}
	v = math.Round(v)
	switch {
	case v < MinCookSeconds:
		return MinCookSeconds
	case v > MaxCookSeconds:
		return MaxCookSeconds
	default:
		return int(v)
	}
}

func invalid(reason, raw string, err error) error {
	return &domain.InvalidModelResponseError{Reason: reason, Raw: raw, Err: err}
}
