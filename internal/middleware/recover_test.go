package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestWithRecover_Renders500(t *testing.T) {
	SetLogger(zap.NewNop().Sugar())
	boom := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { panic("boom") })

	for _, detail := range []bool{false, true} {
		rr := httptest.NewRecorder()
		WithRecover(detail)(boom).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rr.Code)
		}
		var env map[string]any
		if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if env["message"] != "Something went wrong!" {
			t.Fatalf("unexpected message: %v", env["message"])
		}
		if _, has := env["error"]; has != detail {
			t.Fatalf("error detail presence = %v, want %v", has, detail)
		}
	}
}
