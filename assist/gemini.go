package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	geminiBaseURL      = "https://generativelanguage.googleapis.com/v1beta/models"
	geminiGenModel     = "gemini-1.5-flash"
	geminiEmbedModel   = "text-embedding-004"
	geminiEmbedDim     = 768
	geminiMaxOutTokens = 1024
)

// GeminiClient implements Embedder and Generator against the Gemini REST API.
type GeminiClient struct {
	apiKey string
	client *http.Client
}

func NewGeminiClient(apiKey string) *GeminiClient {
	return &GeminiClient{
		apiKey: apiKey,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerateRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

type geminiGenerateResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type geminiEmbedRequest struct {
	Content geminiContent `json:"content"`
}

type geminiEmbedResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

func (c *GeminiClient) Embed(ctx context.Context, text string) ([]float32, error) {
	reqBody := geminiEmbedRequest{
		Content: geminiContent{Parts: []geminiPart{{Text: text}}},
	}

	url := fmt.Sprintf("%s/%s:embedContent?key=%s", geminiBaseURL, geminiEmbedModel, c.apiKey)
	var resp geminiEmbedResponse
	if err := c.post(ctx, url, reqBody, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("gemini: empty embedding")
	}
	return resp.Embedding.Values, nil
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string, notes []string) (string, error) {
	var sb strings.Builder
	sb.WriteString(prompt)
	if len(notes) > 0 {
		sb.WriteString("\n\nRelevant notes from the author:\n")
		for _, n := range notes {
			sb.WriteString("- ")
			sb.WriteString(n)
			sb.WriteString("\n")
		}
	}

	reqBody := geminiGenerateRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: sb.String()}}}},
	}
	reqBody.GenerationConfig.Temperature = 0.7
	reqBody.GenerationConfig.MaxOutputTokens = geminiMaxOutTokens

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", geminiBaseURL, geminiGenModel, c.apiKey)
	var resp geminiGenerateResponse
	if err := c.post(ctx, url, reqBody, &resp); err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: empty response")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

func (c *GeminiClient) post(ctx context.Context, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gemini: status %d: %s", resp.StatusCode, detail)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
