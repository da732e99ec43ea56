package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Envelope — формат ответа сервера {success, message, data}.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Do отправляет запрос с JSON телом (если payload != nil). Непустой token передаётся как Bearer.
// Тело ответа читается целиком и закрывается.
func Do(ctx context.Context, method, url string, payload any, token string) (*http.Response, []byte, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, fmt.Errorf("read response: %w", err)
	}
	return resp, b, nil
}

// PostJSON sends a JSON POST request.
func PostJSON(ctx context.Context, url string, payload any, token string) (*http.Response, []byte, error) {
	if payload == nil {
		payload = struct{}{}
	}
	return Do(ctx, http.MethodPost, url, payload, token)
}

// Get sends a GET request.
func Get(ctx context.Context, url, token string) (*http.Response, []byte, error) {
	return Do(ctx, http.MethodGet, url, nil, token)
}

// DecodeEnvelope разбирает конверт ответа.
func DecodeEnvelope(body []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode response: %w", err)
	}
	return env, nil
}

// ResponseError формирует ошибку из неуспешного ответа, предпочитая message из конверта.
func ResponseError(resp *http.Response, body []byte) error {
	if env, err := DecodeEnvelope(body); err == nil && env.Message != "" {
		return fmt.Errorf("server status %d: %s", resp.StatusCode, env.Message)
	}
	return fmt.Errorf("server status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}

// Endpoint склеивает адрес сервера и путь.
func Endpoint(serverURL, path string) string {
	return strings.TrimRight(serverURL, "/") + path
}
