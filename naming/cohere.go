package naming

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
)

const defaultCohereModel = "command-r"

// CohereTranslator implements Translator with the Cohere chat API.
type CohereTranslator struct {
	client *cohereclient.Client
	model  string
}

// NewCohereTranslator returns a translator when COHERE_API_KEY is set, nil otherwise.
// COHERE_MODEL overrides the chat model.
func NewCohereTranslator() *CohereTranslator {
	key := os.Getenv("COHERE_API_KEY")
	if key == "" {
		return nil
	}
	model := os.Getenv("COHERE_MODEL")
	if model == "" {
		model = defaultCohereModel
	}

	// Force HTTP/1.1; the API has been flaky over HTTP/2.
	httpClient := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			TLSNextProto:      make(map[string]func(authority string, c *tls.Conn) http.RoundTripper),
			ForceAttemptHTTP2: false,
		},
	}
	client := cohereclient.NewClient(
		cohereclient.WithToken(key),
		cohereclient.WithHTTPClient(httpClient),
	)
	return &CohereTranslator{client: client, model: model}
}

// Translate asks the model for a bare translation of text into lang.
func (c *CohereTranslator) Translate(ctx context.Context, text, lang string) (string, error) {
	prompt := fmt.Sprintf(
		"Translate the following title into the language with ISO code %q. "+
			"Reply with the translated title only, without quotes or commentary.\n\n%s",
		lang, text,
	)

	resp, err := c.client.Chat(ctx, &cohere.ChatRequest{
		Message: prompt,
		Model:   &c.model,
	})
	if err != nil {
		return "", fmt.Errorf("cohere chat error: %w", err)
	}
	if resp == nil {
		return "", errors.New("cohere chat returned empty response")
	}

	out := strings.Trim(strings.TrimSpace(resp.Text), `"'`)
	if out == "" {
		return "", errors.New("cohere chat returned no text")
	}
	return out, nil
}
