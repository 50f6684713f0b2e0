package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	DefaultEndpoint = "https://api.openai.com/v1"
	DefaultModel    = "gpt-4o-mini"

	chatCompletionsPath = "/chat/completions"
	systemPrompt        = "Sei il Custode della Foresta, un'entità antica e oscura che gioca a carte con i viandanti smarriti nel bosco."
)

// ErrEmptyResponse is returned when the backend answers without any text.
var ErrEmptyResponse = errors.New("empty response")

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	Endpoint string
	APIKey   string
	Model    string
	HTTP     *http.Client
}

// NewClient returns a client for endpoint. Empty values fall back to the
// public endpoint and the default model.
func NewClient(endpoint, apiKey, model string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		Endpoint: strings.TrimRight(endpoint, "/"),
		APIKey:   apiKey,
		Model:    model,
		HTTP:     http.DefaultClient,
	}
}

func (c *Client) OpponentLine(ctx context.Context, req LineRequest) (string, error) {
	prompt := fmt.Sprintf("Stai giocando contro un viandante. Salute del viandante: %d. Salute del Custode: %d. Livello: %d. "+
		"Contesto: %s. Rispondi con una sola frase breve, cupa ed enigmatica in italiano, al massimo 15 parole.",
		req.PlayerHP, req.OpponentHP, req.Level, req.Context)
	return c.complete(ctx, prompt)
}

func (c *Client) LevelIntro(ctx context.Context, level int) (string, error) {
	prompt := fmt.Sprintf("Accogli il viandante nel livello %d, chiamato %q. "+
		"Sii inquietante e breve, al massimo 25 parole in italiano.", level, LevelName(level))
	return c.complete(ctx, prompt)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint+chatCompletionsPath, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("chat completions: %d %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode chat completions: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return firstLine(out.Choices[0].Message.Content), nil
}

// firstLine keeps the first line of text without surrounding quotes.
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.Trim(s, "\"' ")
}
