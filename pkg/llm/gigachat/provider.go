package gigachat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"ai-studybot-be/pkg/llm"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	defaultBaseURL  = "https://gigachat.devices.sberbank.ru/api/v1"
	defaultTokenURL = "https://ngw.devices.sberbank.ru:9443/api/v2/oauth"
	defaultScope    = "GIGACHAT_API_PERS"
)

// GigaChatProvider talks to the hosted GigaChat API. Access tokens are
// short-lived, so they are obtained through a cached OAuth2 client
// credentials token source rather than per request.
type GigaChatProvider struct {
	baseURL     string
	modelName   string
	tokenSource oauth2.TokenSource
	client      *http.Client
}

var _ llm.LLMProvider = &GigaChatProvider{}

// rquidTransport injects the RqUID request header the GigaChat OAuth
// endpoint requires on every call.
type rquidTransport struct {
	base http.RoundTripper
}

func (t *rquidTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("RqUID", uuid.NewString())
	return t.base.RoundTrip(req)
}

func NewGigaChatProvider(clientID, clientSecret, modelName, baseURL string) *GigaChatProvider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	conf := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     defaultTokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
		EndpointParams: url.Values{
			"scope": {defaultScope},
		},
	}

	oauthClient := &http.Client{
		Transport: &rquidTransport{base: http.DefaultTransport},
		Timeout:   30 * time.Second,
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, oauthClient)

	return &GigaChatProvider{
		baseURL:     baseURL,
		modelName:   modelName,
		tokenSource: oauth2.ReuseTokenSource(nil, conf.TokenSource(ctx)),
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []llm.Message `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (p *GigaChatProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := &llm.Options{
		Temperature: 0.7, // Default
	}
	for _, opt := range opts {
		opt(options)
	}

	model := p.modelName
	if options.Model != "" {
		model = options.Model
	}

	reqPayload := chatCompletionRequest{
		Model:       model,
		Messages:    history,
		Temperature: options.Temperature,
		MaxTokens:   options.MaxTokens,
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	token, err := p.tokenSource.Token()
	if err != nil {
		return "", fmt.Errorf("gigachat token: %w", err)
	}

	url := p.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	token.SetAuthHeader(req)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gigachat request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gigachat error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(bodyBytes, &chatResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("gigachat returned no choices")
	}

	return chatResp.Choices[0].Message.Content, nil
}

func (p *GigaChatProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}
