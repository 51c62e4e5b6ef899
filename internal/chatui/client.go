package chatui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"scrapp/internal/models"
)

// Client posts conversations to the backend chat endpoint. There is no
// request timeout: a turn takes as long as the model and its tool calls
// take, and the controller's in-flight guard already serializes sends.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Chat issues one POST /api/chat. Non-2xx responses become an error built
// from the body's message field, then its error field, then the bare
// status.
func (c *Client) Chat(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		var errBody models.ErrorBody
		json.Unmarshal(data, &errBody) // the body may not be JSON at all
		switch {
		case errBody.Message != "":
			return nil, errors.New(errBody.Message)
		case errBody.Error != "":
			return nil, errors.New(errBody.Error)
		default:
			return nil, fmt.Errorf("HTTP %d", httpResp.StatusCode)
		}
	}

	var resp models.ChatResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("malformed response: %w", err)
	}
	return &resp, nil
}
