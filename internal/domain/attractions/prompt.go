package attractions

import (
	"fmt"
	"strings"
)

// buildPrompt produces the structured instruction for the model. It forbids
// invented places and invented coordinates and pins the exact output shape.
func buildPrompt(name, description string, count int, excludeNames []string) string {
	excludeContext := ""
	if len(excludeNames) > 0 {
		excludeContext = "\nPlease exclude these attractions that have already been suggested: " + strings.Join(excludeNames, ", ")
	}

	return fmt.Sprintf(`Generate %d unique tourist attraction suggestions based on the travel note:
Title: %s
Description: %s

Return the response in the following JSON format:
{
  "attractions": [
    {
      "name": "Attraction name in English",
      "description": "Detailed description in English (minimum 4-5 sentences)",
      "latitude": 52.2297,
      "longitude": 21.0122,
      "estimatedPrice": "Price range in USD"
    }
  ]
}

Requirements for each attraction:
1. name: specific name of an EXISTING attraction in English
2. description: detailed description in English containing:
   - What makes the place unique (2-3 sentences)
   - Practical visiting information (visiting time, best hours, if reservation needed)
   - Ticket information (regular/reduced prices, free entry e.g. for children up to certain age)
   - Additional attractions or amenities (restaurants, souvenir shops, accessibility)
3. estimated price range: exact price range in format:
   - "Regular ticket: $X, reduced: $Y"
   - "Free entry"
   - "Free entry for children under X years"
4. coordinates: REAL geographic coordinates of this attraction (DO NOT MAKE THEM UP)

Focus on:
- Only existing, real attractions (don't make up places)
- Exact geographic coordinates for each attraction
- Unique and interesting places matching the note's theme
- Mix of popular and lesser-known attractions
- Price diversity and types of attractions
- Geographically diverse locations in the given area%s

IMPORTANT:
- Use ONLY real, existing attractions
- Provide REAL geographic coordinates for each attraction
- Make sure all descriptions are detailed and in English
- All fields are required
- Coordinates must be numbers (not strings)
- Return exactly %d attractions`, count, name, description, excludeContext, count)
}

// firstToken returns the leading whitespace-delimited word of a note name,
// used to probe the attraction store for reusable records.
func firstToken(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
