package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Jayeshfarkunde27/To-let/internal/platform/logger"
	"github.com/Jayeshfarkunde27/To-let/internal/property/domain"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	// SearchFallbackText is returned whenever the remote model cannot be
	// reached or its reply cannot be parsed. The gateway never surfaces an
	// error to its callers.
	SearchFallbackText = "I'm having trouble connecting right now. Please browse the listings manually."

	// DescriptionFallback is the generic description used when generation
	// fails.
	DescriptionFallback = "A wonderful property located in a prime area."

	defaultModel = "gemini-3-flash-preview"
)

type generateFunc func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// Gemini wraps the generative-language API behind the two operations the
// application needs: natural-language listing search and description
// generation. Both degrade to fixed fallback values on any failure; no retry
// is attempted.
type Gemini struct {
	model    string
	generate generateFunc
	logger   *logger.Logger
}

func NewGemini(ctx context.Context, apiKey, model string, log *logger.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Gemini{
		model: model,
		generate: func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			return client.Models.GenerateContent(ctx, model, contents, cfg)
		},
		logger: log.Named("Gemini"),
	}, nil
}

// candidateProjection is the reduced listing field set sent to the model to
// keep the prompt small.
type candidateProjection struct {
	ID         string                  `json:"id"`
	Title      string                  `json:"title"`
	Type       domain.PropertyType     `json:"type"`
	BHK        int                     `json:"bhk,omitempty"`
	Furnishing domain.FurnishingStatus `json:"furnishing"`
	Price      float64                 `json:"price"`
	Location   string                  `json:"location"`
	Amenities  []string                `json:"amenities,omitempty"`
}

func projectCandidates(properties []*domain.Property) []candidateProjection {
	projected := make([]candidateProjection, 0, len(properties))
	for _, p := range properties {
		projected = append(projected, candidateProjection{
			ID:         p.ID,
			Title:      p.Title,
			Type:       p.Type,
			BHK:        p.BHK,
			Furnishing: p.Furnishing,
			Price:      p.Price,
			Location:   p.Location,
			Amenities:  p.Amenities,
		})
	}
	return projected
}

// Search asks the model to recommend listings for the user's free-text query.
// The returned IDs are whatever the model produced; intersecting them with
// the candidate set is the caller's responsibility.
func (g *Gemini) Search(ctx context.Context, userPrompt string, candidates []*domain.Property) (string, []string) {
	contextJSON, err := json.Marshal(projectCandidates(candidates))
	if err != nil {
		g.logger.Error("failed to serialize candidate listings", zap.Error(err))
		return SearchFallbackText, []string{}
	}

	prompt := fmt.Sprintf(`User search: %q
Available Listings: %s

You are a helpful Indian Real Estate Assistant.
Terms: BHK (Bedroom Hall Kitchen), PG (Paying Guest).
Currency: INR (₹).

Return JSON with:
1. 'text': Friendly response recommending best matches, using Indian context (e.g. "Here are some great 2BHK options in Bangalore").
2. 'propertyIds': Array of matching IDs.`, userPrompt, contextJSON)

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"text": {Type: genai.TypeString},
				"propertyIds": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
			},
		},
	}

	resp, err := g.generate(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		g.logger.Warn("gemini search call failed", zap.Error(err))
		return SearchFallbackText, []string{}
	}

	var out struct {
		Text        string   `json:"text"`
		PropertyIDs []string `json:"propertyIds"`
	}
	if err := json.Unmarshal([]byte(resp.Text()), &out); err != nil {
		g.logger.Warn("gemini search reply was not valid JSON", zap.Error(err))
		return SearchFallbackText, []string{}
	}
	if out.PropertyIDs == nil {
		out.PropertyIDs = []string{}
	}
	return out.Text, out.PropertyIDs
}

// DescriptionDetails carries the listing facts the model writes a description
// from.
type DescriptionDetails struct {
	Type       domain.PropertyType
	BHK        int
	Furnishing domain.FurnishingStatus
	Location   string
	Amenities  []string
	Price      float64
}

// GenerateDescription writes a short marketing description for a listing.
func (g *Gemini) GenerateDescription(ctx context.Context, details DescriptionDetails) string {
	prompt := fmt.Sprintf(`Write a catchy, professional, and inviting description (max 150 words) for a rental property in India with these details:
Type: %s
Configuration: %d BHK
Furnishing: %s
Location: %s
Amenities: %s
Rent: ₹%.0f

Highlight the lifestyle, connectivity to IT parks/Metro, and convenience.`,
		details.Type, details.BHK, details.Furnishing, details.Location,
		strings.Join(details.Amenities, ", "), details.Price)

	resp, err := g.generate(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		g.logger.Warn("gemini description call failed", zap.Error(err))
		return DescriptionFallback
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return DescriptionFallback
	}
	return text
}
