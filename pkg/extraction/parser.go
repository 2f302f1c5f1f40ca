package extraction

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/atsuyamaru/wine-ec-email-composer/pkg/models"
	"github.com/atsuyamaru/wine-ec-email-composer/pkg/tracing"
)

// Parser turns extracted wine list text into structured records.
type Parser interface {
	ParseWineList(ctx context.Context, text string) ([]models.WineRecord, error)
}

const systemInstructions = `You are a wine expert specializing in parsing Japanese wine lists. Extract ONLY wine information from the provided text.

CRITICAL RULES:
1. Extract ONLY actual wines. Ignore store information, addresses, contact details, and promotional text.
2. Each wine must be treated as a SEPARATE entity. Do NOT mix information between different wines.
3. WINE NAME PRIORITY: if both Japanese (katakana/hiragana) and English/French names exist for the same wine, ALWAYS use the Japanese name as the primary wine name. If you see both "CASA DE FONTE PEQUENA BONITURA NV" and "ボニトゥラ NV" for the same wine, use "ボニトゥラ NV".
4. Only assign producer or other details to a wine if they appear DIRECTLY associated with that specific wine. When in doubt about any field, leave it empty rather than guess.

Return a JSON array. If no wines can be identified, return an empty array.`

// GeminiParser parses wine lists with the Gemini API using a structured
// JSON response schema.
type GeminiParser struct {
	client    *genai.Client
	modelName string
	logger    ectologger.Logger
}

// NewGeminiParser creates a Gemini-backed wine list parser.
func NewGeminiParser(ctx context.Context, apiKey, modelName string, logger ectologger.Logger) (*GeminiParser, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiParser{
		client:    client,
		modelName: modelName,
		logger:    logger,
	}, nil
}

// Close releases the underlying API client.
func (p *GeminiParser) Close() error {
	return p.client.Close()
}

// ParseWineList extracts structured wine records from wine list text.
// Japanese names take priority over Latin names so that records from
// different documents deduplicate against each other.
func (p *GeminiParser) ParseWineList(ctx context.Context, text string) ([]models.WineRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "extraction.GeminiParser.ParseWineList")
	defer span.End()

	model := p.client.GenerativeModel(p.modelName)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = wineListSchema()
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemInstructions)},
	}

	prompt := fmt.Sprintf(`Analyze this text and extract wine information. PRIORITIZE JAPANESE WINE NAMES over English/French names.

%s

Rules for extraction:
1. ALWAYS prefer Japanese wine names (katakana/hiragana) over English/French names.
2. Only include producer if it is clearly stated for that specific wine.
3. Do NOT assume producer information from other parts of the text.
4. If multiple wines appear, keep their information completely separate.
5. When in doubt about any field, leave it empty rather than guess.`, text)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		p.logger.WithContext(ctx).WithError(err).Error("Failed to generate wine list parse")
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from model")
	}

	var raw string
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			raw = string(t)
			break
		}
	}
	if raw == "" {
		return nil, fmt.Errorf("no text part in model response")
	}

	var records []models.WineRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wine list: %w", err)
	}

	// Entries without a name are parse noise, not wines.
	out := records[:0]
	for _, r := range records {
		if r.Name != "" {
			out = append(out, r)
		}
	}

	p.logger.WithContext(ctx).WithFields(map[string]any{
		"parsed_count": len(out),
	}).Info("Parsed wine list")

	return out, nil
}

func wineListSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"name": {
					Type:        genai.TypeString,
					Description: "Wine name, Japanese name preferred when both exist",
				},
				"producer": {
					Type:        genai.TypeString,
					Description: "Producer, only when explicitly linked to this wine",
				},
				"country": {
					Type:        genai.TypeString,
					Description: "Country of origin",
				},
				"region": {
					Type:        genai.TypeString,
					Description: "Region or appellation",
				},
				"grape_variety": {
					Type:        genai.TypeString,
					Description: "Grape variety or blend",
				},
				"vintage": {
					Type:        genai.TypeString,
					Description: "Vintage year or NV",
				},
				"price": {
					Type:        genai.TypeString,
					Description: "Price as written in the source",
				},
				"alcohol_content": {
					Type:        genai.TypeString,
					Description: "Alcohol percentage",
				},
				"description": {
					Type:        genai.TypeString,
					Description: "Tasting notes or description",
				},
			},
			Required: []string{"name"},
		},
	}
}
