package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		ping       func() error
		path       string
		wantCode   int
		wantStatus string
	}{
		{name: "healthz ok", path: "/healthz", wantCode: 200, wantStatus: "ok"},
		{name: "readyz ok", ping: func() error { return nil }, path: "/readyz", wantCode: 200, wantStatus: "ready"},
		{name: "readyz degraded", ping: func() error { return assertErr{} }, path: "/readyz", wantCode: 503, wantStatus: "degraded"},
		{name: "readyz without ping check", path: "/readyz", wantCode: 200, wantStatus: "ready"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			NewHealthHandler(tc.ping).Register(r)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
			if w.Code != tc.wantCode {
				t.Fatalf("want %d got %d", tc.wantCode, w.Code)
			}

			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body["status"] != tc.wantStatus {
				t.Fatalf("want status %q got %q", tc.wantStatus, body["status"])
			}
		})
	}
}

type assertErr struct{}

func (assertErr) Error() string { return "db unreachable" }
