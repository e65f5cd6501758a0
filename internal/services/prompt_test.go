package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildExtractionPrompt(t *testing.T) {
	pb := NewPromptBuilder()

	prompt := pb.BuildExtractionPrompt("tax_schedule", "Schedule F for Jordan Farms, Fresno County, CA. 82 acres of almonds.")

	assert.Contains(t, prompt, "DOCUMENT TYPE: tax_schedule")
	assert.Contains(t, prompt, "Fresno County")

	// The closed vocabularies the attribute bag normalizer expects.
	for _, vocab := range []string{
		"crop, livestock, dairy, orchard, vineyard, poultry, mixed",
		"under_10, 10_50, 50_100, 100_500, over_500",
		"individual, partnership, llc, cooperative, nonprofit, corporation",
		"equipment, irrigation, expansion, conservation, organic_certification, marketing, energy, infrastructure",
	} {
		assert.Contains(t, prompt, vocab)
	}

	assert.Contains(t, prompt, `"confidence"`)
}
