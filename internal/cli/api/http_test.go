package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPostJSON_SendsBearer_And_ParsesBody(t *testing.T) {
	// test server проверяет заголовок и JSON
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok123" {
			t.Fatalf("Authorization header missing token, got: %q", got)
		}
		var m map[string]any
		if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
			t.Fatalf("bad json: %v", err)
		}
		if m["x"] != float64(1) { // JSON number → float64
			t.Fatalf("unexpected payload: %#v", m)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"ok":true}}`))
	}))
	defer ts.Close()

	resp, body, err := PostJSON(context.Background(), ts.URL+"/api", map[string]any{"x": 1}, "tok123")
	if err != nil {
		t.Fatalf("PostJSON err: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	env, err := DecodeEnvelope(body)
	if err != nil || !env.Success || string(env.Data) != `{"ok":true}` {
		t.Fatalf("unexpected envelope: %+v, err=%v", env, err)
	}
}

func TestGet_NoTokenNoBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" || r.Header.Get("Content-Type") != "" {
			t.Fatalf("unexpected headers: %v", r.Header)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	resp, body, err := Get(context.Background(), ts.URL, "")
	if err != nil || resp.StatusCode != http.StatusNoContent || len(body) != 0 {
		t.Fatalf("unexpected result: %v %v %q", resp, err, body)
	}
}

func TestResponseError_PrefersEnvelopeMessage(t *testing.T) {
	resp := &http.Response{StatusCode: http.StatusUnauthorized}
	err := ResponseError(resp, []byte(`{"success":false,"message":"Invalid credentials"}`))
	if err == nil || !strings.Contains(err.Error(), "Invalid credentials") || !strings.Contains(err.Error(), "401") {
		t.Fatalf("unexpected error: %v", err)
	}
	err = ResponseError(&http.Response{StatusCode: 502}, []byte("bad gateway\n"))
	if err == nil || !strings.HasSuffix(err.Error(), "bad gateway") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEndpoint(t *testing.T) {
	if got := Endpoint("http://localhost:8080/", "/api/auth/login"); got != "http://localhost:8080/api/auth/login" {
		t.Fatalf("Endpoint: %q", got)
	}
}
