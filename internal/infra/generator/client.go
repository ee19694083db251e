package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"nursing-album-service/internal/domain"
)

// Config configures the generateContent endpoint.
type Config struct {
	// Endpoint is the API base, e.g. https://generativelanguage.googleapis.com/v1beta.
	Endpoint   string
	APIKey     string
	TextModel  string
	ImageModel string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client calls a Gemini-compatible generateContent REST API. It returns
// domain.ErrGenerationFailure on any problem; callers wrap it in content.Fallback.
type Client struct {
	cfg Config
}

func NewClient(cfg Config) *Client {
	if cfg.HTTPClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 20 * time.Second
		}
		cfg.HTTPClient = &http.Client{Timeout: timeout}
	}
	cfg.Endpoint = strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	return &Client{cfg: cfg}
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type contentBlock struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature      *float64 `json:"temperature,omitempty"`
	ResponseMimeType string   `json:"responseMimeType,omitempty"`
}

type generateRequest struct {
	Contents         []contentBlock    `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content contentBlock `json:"content"`
	} `json:"candidates"`
}

type questionPayload struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex *int     `json:"correctIndex"`
	Explanation  string   `json:"explanation"`
}

func (c *Client) GenerateQuestion(ctx context.Context, topic string, difficulty domain.Difficulty) (domain.QuizQuestion, error) {
	temperature := 0.2
	req := generateRequest{
		Contents: []contentBlock{{Role: "user", Parts: []part{{Text: questionPrompt(topic, difficulty)}}}},
		GenerationConfig: &generationConfig{
			Temperature:      &temperature,
			ResponseMimeType: "application/json",
		},
	}
	res, err := c.generate(ctx, c.cfg.TextModel, req)
	if err != nil {
		return domain.QuizQuestion{}, err
	}

	var text strings.Builder
	for _, p := range firstParts(res) {
		text.WriteString(p.Text)
	}
	var payload questionPayload
	if err := json.Unmarshal([]byte(stripFences(text.String())), &payload); err != nil {
		return domain.QuizQuestion{}, fmt.Errorf("%w: decode question: %v", domain.ErrGenerationFailure, err)
	}
	if payload.Question == "" || payload.Options == nil {
		return domain.QuizQuestion{}, fmt.Errorf("%w: incomplete question payload", domain.ErrGenerationFailure)
	}

	q := domain.QuizQuestion{
		Question:    payload.Question,
		Options:     payload.Options,
		Explanation: payload.Explanation,
		Difficulty:  difficulty,
		Topic:       topic,
	}
	if payload.CorrectIndex != nil {
		q.CorrectIndex = *payload.CorrectIndex
	}
	if q.Explanation == "" {
		q.Explanation = "Sem explicação."
	}
	return q, nil
}

func (c *Client) GenerateStickerArt(ctx context.Context, prompt string, rarity domain.Rarity) (string, error) {
	req := generateRequest{
		Contents: []contentBlock{{Role: "user", Parts: []part{{Text: artPrompt(prompt, rarity)}}}},
	}
	res, err := c.generate(ctx, c.cfg.ImageModel, req)
	if err != nil {
		return "", err
	}
	for _, p := range firstParts(res) {
		if p.InlineData != nil && p.InlineData.Data != "" {
			return "data:image/png;base64," + p.InlineData.Data, nil
		}
	}
	return "", fmt.Errorf("%w: no image generated", domain.ErrGenerationFailure)
}

func (c *Client) generate(ctx context.Context, model string, body generateRequest) (generateResponse, error) {
	if c.cfg.Endpoint == "" || model == "" {
		return generateResponse{}, fmt.Errorf("%w: generator endpoint or model not configured", domain.ErrGenerationFailure)
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return generateResponse{}, fmt.Errorf("%w: marshal request: %v", domain.ErrGenerationFailure, err)
	}
	url := fmt.Sprintf("%s/models/%s:generateContent", c.cfg.Endpoint, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return generateResponse{}, fmt.Errorf("%w: build request: %v", domain.ErrGenerationFailure, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("x-goog-api-key", c.cfg.APIKey)
	}

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return generateResponse{}, fmt.Errorf("%w: request failed: %v", domain.ErrGenerationFailure, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return generateResponse{}, fmt.Errorf("%w: status %d: %s", domain.ErrGenerationFailure, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return generateResponse{}, fmt.Errorf("%w: decode response: %v", domain.ErrGenerationFailure, err)
	}
	return out, nil
}

func firstParts(res generateResponse) []part {
	if len(res.Candidates) == 0 {
		return nil
	}
	return res.Candidates[0].Content.Parts
}

// stripFences removes a surrounding ``` or ```json Markdown block.
func stripFences(text string) string {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return "{}"
	}
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimPrefix(cleaned, "json")
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	}
	return strings.TrimSpace(cleaned)
}

func questionPrompt(topic string, difficulty domain.Difficulty) string {
	return fmt.Sprintf(`Gere UMA pergunta de quiz para enfermagem.
Tópico: %s
Dificuldade: %s

IMPORTANTE: Responda APENAS com o JSON cru. Sem markdown, sem explicações extras.
Formato obrigatório:
{
  "question": "Texto da pergunta aqui?",
  "options": ["Opção 1", "Opção 2", "Opção 3", "Opção 4"],
  "correctIndex": 0,
  "explanation": "Por que a opção 1 está correta."
}`, topic, difficulty)
}

func artPrompt(prompt string, rarity domain.Rarity) string {
	return fmt.Sprintf(`Medical illustration sticker of: %s.
Style: Clean vector art, vibrant colors, white sticker contour/border, isolated on white background.
Professional medical aesthetic but gamified.
Rarity Level Visuals: %s.`, prompt, rarity)
}
