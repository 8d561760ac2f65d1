package attractions

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCompletionStripsSurroundingProse(t *testing.T) {
	raw := "Here you go:\n```json\n" + completionPayload(2) + "\n```\nEnjoy your trip!"

	suggestions, err := parseCompletion(raw, 2)
	require.NoError(t, err)
	require.Len(t, suggestions, 2)
	require.Equal(t, "Attraction 1", suggestions[0].Name)
	require.Equal(t, 50.01, suggestions[0].Latitude)
	require.Equal(t, 19.91, suggestions[0].Longitude)
	require.Equal(t, "Regular ticket: $10, reduced: $5", suggestions[0].EstimatedPrice)
}

func TestParseCompletionBracesInsideStrings(t *testing.T) {
	raw := `{"attractions":[{"name":"Brama {Floriańska}","description":"Gate with a \"{\" in its nickname.","latitude":50.06,"longitude":19.94,"estimatedPrice":"Free entry"}]}`

	suggestions, err := parseCompletion(raw, 1)
	require.NoError(t, err)
	require.Equal(t, "Brama {Floriańska}", suggestions[0].Name)
}

func TestParseCompletionMissingAttractionsField(t *testing.T) {
	_, err := parseCompletion(`{"items":[]}`, 1)
	require.Error(t, err)
	require.Contains(t, err.Error(), "attractions")
}

func TestParseCompletionWrongCount(t *testing.T) {
	_, err := parseCompletion(completionPayload(2), 3)
	require.Error(t, err)
	require.Contains(t, err.Error(), "expected 3 attractions")
}

func TestParseCompletionNoJSON(t *testing.T) {
	_, err := parseCompletion("I cannot produce attractions for this note.", 1)
	require.Error(t, err)
}

func TestParseCompletionUnbalancedJSON(t *testing.T) {
	_, err := parseCompletion(`{"attractions":[{"name":"Wawel"`, 1)
	require.Error(t, err)
}

func TestParseCompletionFieldValidation(t *testing.T) {
	cases := map[string]string{
		"empty name":         `{"attractions":[{"name":" ","description":"d","latitude":50,"longitude":19,"estimatedPrice":"Free entry"}]}`,
		"empty description":  `{"attractions":[{"name":"Wawel","description":"","latitude":50,"longitude":19,"estimatedPrice":"Free entry"}]}`,
		"missing latitude":   `{"attractions":[{"name":"Wawel","description":"d","longitude":19,"estimatedPrice":"Free entry"}]}`,
		"string coordinates": `{"attractions":[{"name":"Wawel","description":"d","latitude":"50.05","longitude":"19.93","estimatedPrice":"Free entry"}]}`,
		"latitude too big":   `{"attractions":[{"name":"Wawel","description":"d","latitude":90.5,"longitude":19,"estimatedPrice":"Free entry"}]}`,
		"longitude too low":  `{"attractions":[{"name":"Wawel","description":"d","latitude":50,"longitude":-180.5,"estimatedPrice":"Free entry"}]}`,
		"empty price":        `{"attractions":[{"name":"Wawel","description":"d","latitude":50,"longitude":19,"estimatedPrice":""}]}`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseCompletion(raw, 1)
			require.Error(t, err)
		})
	}
}

func TestParseCompletionAcceptsBoundaryCoordinates(t *testing.T) {
	raw := `{"attractions":[{"name":"South Pole Marker","description":"The geographic pole itself.","latitude":-90,"longitude":180,"estimatedPrice":"Free entry"}]}`

	suggestions, err := parseCompletion(raw, 1)
	require.NoError(t, err)
	require.Equal(t, -90.0, suggestions[0].Latitude)
	require.Equal(t, 180.0, suggestions[0].Longitude)
}

func TestBuildPromptExclusions(t *testing.T) {
	prompt := buildPrompt("Krakow", "Weekend trip", 8, []string{"Wawel Castle", "Main Square"})
	require.Contains(t, prompt, "Generate 8 unique tourist attraction suggestions")
	require.Contains(t, prompt, "exclude these attractions that have already been suggested: Wawel Castle, Main Square")
	require.Contains(t, prompt, "Return exactly 8 attractions")

	plain := buildPrompt("Krakow", "Weekend trip", 8, nil)
	require.NotContains(t, plain, "exclude these attractions")
}

func TestFirstToken(t *testing.T) {
	require.Equal(t, "Wawel", firstToken("  Wawel weekend trip"))
	require.Equal(t, "", firstToken("   "))
}
