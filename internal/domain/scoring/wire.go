package scoring

// Request and reply shapes of the generateContent endpoint. Only the fields
// used here are declared.

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type schema struct {
	Type       string            `json:"type"`
	Properties map[string]schema `json:"properties,omitempty"`
	Required   []string          `json:"required,omitempty"`
}

type generationConfig struct {
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
	ResponseSchema   *schema `json:"responseSchema,omitempty"`
}

type generateRequest struct {
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	Contents          []content         `json:"contents"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// verdictSchema constrains the model to {score: number, comment: string}.
var verdictSchema = &schema{ //nolint:gochecknoglobals // immutable request schema
	Type: "OBJECT",
	Properties: map[string]schema{
		"score":   {Type: "NUMBER"},
		"comment": {Type: "STRING"},
	},
	Required: []string{"score", "comment"},
}
