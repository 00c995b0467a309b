package backend

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/danghoangnhan/vidscribe/internal/config"
	"github.com/danghoangnhan/vidscribe/internal/logger"
)

const transcribePrompt = `Transcribe the spoken content of this audio file verbatim.
Language: %s. Return only the transcript text, with no timestamps,
speaker labels, or commentary.`

const summaryPrompt = `You are an expert at summarizing spoken content. Write a concise
summary of the transcript below. Start with a one-sentence overview,
then list the main points in order of appearance. Use markdown.
%s
Transcript:
---
%s
---`

type geminiBackend struct {
	mu         sync.Mutex
	apiKeys    []string
	currentKey int
	model      string
	timeout    time.Duration
	logger     logger.Logger
}

// NewGemini creates a Gemini-backed AIBackend that rotates through the
// configured API keys on quota errors.
func NewGemini(cfg config.GeminiConfig, log logger.Logger) AIBackend {
	return &geminiBackend{
		apiKeys: cfg.APIKeys,
		model:   cfg.Model,
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		logger:  log,
	}
}

func (g *geminiBackend) Name() string { return "gemini" }

func (g *geminiBackend) SupportedLanguages() []string {
	return []string{"auto", "en", "vi", "pt", "es", "fr", "de", "it", "ja", "ko", "zh"}
}

// IsAvailable only checks that the backend is configured; a real API
// round trip would be neither cheap nor side-effect free.
func (g *geminiBackend) IsAvailable(ctx context.Context) bool {
	return len(g.apiKeys) > 0
}

// Transcribe uploads the audio inline and asks the model for a verbatim
// transcript.
func (g *geminiBackend) Transcribe(ctx context.Context, audioPath, language string) (string, error) {
	data, err := os.ReadFile(audioPath)
	if err != nil {
		return "", fmt.Errorf("read audio file: %w", err)
	}

	if language == "" {
		language = "auto"
	}
	parts := []*genai.Part{
		genai.NewPartFromText(fmt.Sprintf(transcribePrompt, language)),
		genai.NewPartFromBytes(data, audioMIMEType(audioPath)),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	return g.generate(ctx, contents)
}

// Summarize sends the transcript text and returns a markdown summary.
func (g *geminiBackend) Summarize(ctx context.Context, text, contextHint string) (string, error) {
	hint := ""
	if contextHint != "" {
		hint = fmt.Sprintf("Context: %s\n", contextHint)
	}
	prompt := fmt.Sprintf(summaryPrompt, hint, text)

	return g.generate(ctx, genai.Text(prompt))
}

// generate calls Gemini, rotating API keys on 429 / quota errors.
func (g *geminiBackend) generate(ctx context.Context, contents []*genai.Content) (string, error) {
	if len(g.apiKeys) == 0 {
		return "", fmt.Errorf("no gemini api keys configured")
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	attempts := len(g.apiKeys)
	var lastErr error

	for range attempts {
		key := g.nextKey()

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			g.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, g.model, contents, nil)
		if err != nil {
			if isQuotaError(err) {
				g.logger.Warn(ctx, "gemini key rate limited, rotating...")
				g.rotateKey()
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text strings.Builder
			for _, part := range result.Candidates[0].Content.Parts {
				text.WriteString(part.Text)
			}
			if text.Len() > 0 {
				return text.String(), nil
			}
		}

		return "", fmt.Errorf("empty response from gemini")
	}

	return "", fmt.Errorf("all gemini api keys exhausted: %w", lastErr)
}

func (g *geminiBackend) nextKey() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.apiKeys[g.currentKey]
}

func (g *geminiBackend) rotateKey() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func audioMIMEType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return "audio/mp3"
	case ".flac":
		return "audio/flac"
	case ".ogg":
		return "audio/ogg"
	case ".m4a", ".aac":
		return "audio/aac"
	default:
		return "audio/wav"
	}
}
