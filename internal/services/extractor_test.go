package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmfund/grant-matcher/internal/models"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain JSON object",
			input:    `{"attributes": {"state": "CA"}}`,
			expected: `{"attributes": {"state": "CA"}}`,
		},
		{
			name:     "JSON in markdown fence",
			input:    "```json\n{\"attributes\": {}}\n```",
			expected: `{"attributes": {}}`,
		},
		{
			name:     "JSON with surrounding prose",
			input:    `Here is the extracted profile: {"confidence": 0.9} as requested.`,
			expected: `{"confidence": 0.9}`,
		},
		{
			name:     "no JSON at all",
			input:    "no structured output",
			expected: "no structured output",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractJSON(tt.input))
		})
	}
}

func TestParseJSONResponse_ExtractionResult(t *testing.T) {
	response := "```json\n" + `{
		"attributes": {
			"state": "CA",
			"county": "Fresno",
			"farm_type": "orchard",
			"acres_band": "50_100",
			"goals": ["equipment", "irrigation"]
		},
		"confidence": 0.85
	}` + "\n```"

	var result extractionResult
	require.NoError(t, parseJSONResponse(response, &result))

	assert.Equal(t, "CA", result.Attributes["state"])
	assert.Equal(t, "orchard", result.Attributes["farm_type"])
	require.NotNil(t, result.Confidence)
	assert.InDelta(t, 0.85, *result.Confidence, 0.001)

	// The attributes round-trip into a valid profile.
	profile := models.ProfileFromAttributes(uuid.New(), result.Attributes)
	assert.Equal(t, models.FarmTypeOrchard, profile.FarmType)
	assert.Equal(t, models.Acres50To100, profile.AcresBand)
	assert.Len(t, profile.Goals, 2)
}

func TestParseJSONResponse_RejectsGarbage(t *testing.T) {
	var result extractionResult
	err := parseJSONResponse("the model refused to answer", &result)
	assert.Error(t, err)
}
