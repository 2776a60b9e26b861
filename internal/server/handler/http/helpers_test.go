package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

// envelope is the decoded response body.
type envelope struct {
	Success bool            `json:"success"`
	User    json.RawMessage `json:"user"`
	Data    json.RawMessage `json:"data"`
	Detail  string          `json:"detail"`
}

func newTestRouter(auth AuthService, tasks TaskService, transcripts TranscriptService) http.Handler {
	return NewRouter(
		&AuthHandler{AuthService: auth},
		&TaskHandler{TaskService: tasks},
		&TranscriptHandler{TranscriptService: transcripts},
		zap.NewNop(),
	)
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}
