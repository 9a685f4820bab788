package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"time"

	"github.com/valpere/mortgate/internal/postprocess"
)

const defaultCallTimeout = 60 * time.Second

// message is one turn of a chat-completion conversation.
type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletion POSTs a chat-completion request to the slot's endpoint and
// returns the cleaned content of the first choice. Failures come back as
// classified *Error values; no raw transport error escapes.
func chatCompletion(ctx context.Context, client *http.Client, name string, slot *Slot, messages []message) (string, error) {
	payload := map[string]any{
		"model":       slot.Model,
		"messages":    messages,
		"temperature": slot.Temperature,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", &Error{Engine: name, Kind: Fatal, Err: fmt.Errorf("marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, slot.Endpoint, bytes.NewBuffer(body))
	if err != nil {
		return "", &Error{Engine: name, Kind: Fatal, Err: fmt.Errorf("build request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if slot.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+slot.APIKey)
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return "", transportError(name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &Error{
			Engine: name,
			Kind:   classifyStatus(resp.StatusCode),
			Status: resp.StatusCode,
			Err:    fmt.Errorf("%s", bytes.TrimSpace(snippet)),
		}
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", &Error{Engine: name, Kind: Transient, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(completion.Choices) == 0 {
		return "", &Error{Engine: name, Kind: Transient, Err: fmt.Errorf("empty response from API")}
	}

	content := html.UnescapeString(completion.Choices[0].Message.Content)
	return postprocess.Clean(content), nil
}

// doProbe sends the minimal "hello" completion used for liveness checks.
// The response content is irrelevant; only reachability and status matter.
func doProbe(ctx context.Context, client *http.Client, name string, slot *Slot) error {
	_, err := chatCompletion(ctx, client, name, slot, []message{{Role: "user", Content: "hello"}})
	return err
}
