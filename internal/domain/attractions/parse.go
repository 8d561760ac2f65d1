package attractions

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type suggestionWire struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	EstimatedPrice string   `json:"estimatedPrice"`
}

type completionWire struct {
	Attractions []suggestionWire `json:"attractions"`
}

// parseCompletion decodes the model's free-text output into validated
// suggestions. It fails closed: any structural or field-level mismatch is an
// error, never a truncation or a guessed value.
func parseCompletion(raw string, count int) ([]Suggestion, error) {
	payload, err := extractJSONObject(raw)
	if err != nil {
		return nil, err
	}

	var wire completionWire
	if err := json.Unmarshal([]byte(payload), &wire); err != nil {
		return nil, fmt.Errorf("decode attractions payload: %w", err)
	}
	if wire.Attractions == nil {
		return nil, errors.New("attractions field missing or not a list")
	}
	if len(wire.Attractions) != count {
		return nil, fmt.Errorf("expected %d attractions, got %d", count, len(wire.Attractions))
	}

	out := make([]Suggestion, 0, count)
	for i, item := range wire.Attractions {
		if err := validateWire(item); err != nil {
			return nil, fmt.Errorf("attraction %d: %w", i, err)
		}
		out = append(out, Suggestion{
			Name:           strings.TrimSpace(item.Name),
			Description:    strings.TrimSpace(item.Description),
			Latitude:       *item.Latitude,
			Longitude:      *item.Longitude,
			EstimatedPrice: strings.TrimSpace(item.EstimatedPrice),
		})
	}
	return out, nil
}

func validateWire(item suggestionWire) error {
	if strings.TrimSpace(item.Name) == "" {
		return errors.New("name is empty")
	}
	if strings.TrimSpace(item.Description) == "" {
		return errors.New("description is empty")
	}
	if item.Latitude == nil || item.Longitude == nil {
		return errors.New("coordinates missing or non-numeric")
	}
	if *item.Latitude < -90 || *item.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range", *item.Latitude)
	}
	if *item.Longitude < -180 || *item.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range", *item.Longitude)
	}
	if strings.TrimSpace(item.EstimatedPrice) == "" {
		return errors.New("estimatedPrice is empty")
	}
	return nil
}

// extractJSONObject returns the first balanced JSON object found in raw.
// Models wrap their payload in prose or markdown fences often enough that a
// plain Unmarshal of the whole text is not reliable.
func extractJSONObject(raw string) (string, error) {
	start := strings.IndexByte(raw, '{')
	if start == -1 {
		return "", errors.New("no JSON object in model output")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		ch := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], nil
			}
		}
	}
	return "", errors.New("unbalanced JSON object in model output")
}
