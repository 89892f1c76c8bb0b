package commentary

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"google.golang.org/genai"
)

const (
	DefaultGeminiEndpoint = "https://generativelanguage.googleapis.com"
	DefaultGeminiModel    = "gemini-3-flash-preview"
)

// ErrNoAPIKey is returned by GeminiGenerator when no key is configured.
var ErrNoAPIKey = errors.New("commentary: no api key")

// GeminiGenerator asks a Gemini model for a line through the genai SDK.
// The SDK client is built on first use.
type GeminiGenerator struct {
	APIKey   string
	Model    string
	Endpoint string       // Base URL; empty selects DefaultGeminiEndpoint
	Client   *http.Client // Nil selects the SDK default

	once   sync.Once
	client *genai.Client
	err    error
}

// Temperature returns the sampling temperature used for a voice.
func Temperature(v Voice) float64 {
	if v == Vendor {
		return 1.0
	}
	return 0.8
}

// Prompt builds the persona prompt for a voice reacting to req.
func Prompt(v Voice, req Request) string {
	streak := 0
	if req.Data.Streak != nil {
		streak = *req.Data.Streak
	}
	level := 1
	if req.Data.Level != nil {
		level = *req.Data.Level
	}

	var b strings.Builder
	switch v {
	case Vendor:
		b.WriteString(`You are "Auntie", a legendary night market stall owner. You are informal, loud, and use a lot of expressive interjections like "Aiyoh", "Wah", "Lao deh", "Alamak", "Steady".` + "\n")
		fmt.Fprintf(&b, "Event: %s.\nScore: %d.\nStreak: %d.\n", req.Event, req.Data.Score, streak)
		b.WriteString("Provide a very short side comment (under 10 words). You alternate between nagging the player to do better and being super impressed.\n")
		b.WriteString("Make it feel like a real bustling night market vibe.")
	default:
		b.WriteString("You are EMA (Electronic Multimedia Announcer), a witty and slightly sarcastic AI carnival host.\n")
		fmt.Fprintf(&b, "Event: %s.\nCurrent Score: %d.\nStreak: %d.\nLevel: %d.\n", req.Event, req.Data.Score, streak, level)
		b.WriteString("Provide a short, punchy, and funny comment (under 12 words) reacting to this.\n")
		b.WriteString("Be encouraging but keep that cool AI persona.")
	}
	return b.String()
}

// Generate implements Generator.
func (g *GeminiGenerator) Generate(ctx context.Context, voice Voice, req Request) (string, error) {
	if g.APIKey == "" {
		return "", ErrNoAPIKey
	}
	client, err := g.genaiClient(ctx)
	if err != nil {
		return "", err
	}

	resp, err := client.Models.GenerateContent(ctx, g.model(), genai.Text(Prompt(voice, req)), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(Temperature(voice))),
	})
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

func (g *GeminiGenerator) genaiClient(ctx context.Context) (*genai.Client, error) {
	g.once.Do(func() {
		endpoint := g.Endpoint
		if endpoint == "" {
			endpoint = DefaultGeminiEndpoint
		}
		g.client, g.err = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:     g.APIKey,
			Backend:    genai.BackendGeminiAPI,
			HTTPClient: g.Client,
			HTTPOptions: genai.HTTPOptions{
				BaseURL: strings.TrimRight(endpoint, "/") + "/",
			},
		})
		if g.err != nil {
			g.err = fmt.Errorf("gemini client: %w", g.err)
		}
	})
	return g.client, g.err
}

func (g *GeminiGenerator) model() string {
	if g.Model == "" {
		return DefaultGeminiModel
	}
	return g.Model
}
