package services

import "fmt"

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildExtractionPrompt asks the model to pull structured farm attributes
// out of an uploaded document. The output feeds the profile attribute bag,
// which is re-normalized before it ever reaches matching.
func (pb *PromptBuilder) BuildExtractionPrompt(docType, docText string) string {
	return fmt.Sprintf(`You are an assistant that extracts structured farm operation data from documents.

DOCUMENT TYPE: %s

DOCUMENT TEXT:
%s

Extract the following fields where the document supports them. Omit any field the document does not clearly establish. Use these closed vocabularies:
- farm_type: crop, livestock, dairy, orchard, vineyard, poultry, mixed
- acres_band: under_10, 10_50, 50_100, 100_500, over_500
- operator_type: individual, partnership, llc, cooperative, nonprofit, corporation
- goals: equipment, irrigation, expansion, conservation, organic_certification, marketing, energy, infrastructure
- state: two-letter US state code, uppercase

Return your response in the following JSON format:
{
  "attributes": {
    "state": "<state code>",
    "county": "<county name>",
    "farm_type": "<farm type>",
    "acres_band": "<acres band>",
    "operator_type": "<operator type>",
    "employee_count": <integer>,
    "goals": ["<goal>", ...]
  },
  "confidence": <0.0-1.0 overall confidence>
}

Only include attributes the document actually evidences. Do not guess.`,
		docType, docText)
}
