package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/oukeidos/wordlens/internal/apperrors"
)

func TestNormalizeBaseURL(t *testing.T) {
	cases := map[string]string{
		"":                                                DefaultBaseURL,
		"https://api.openai.com/v1/chat/completions":      "https://api.openai.com/v1",
		"https://api.siliconflow.cn/v1/chat/completions/": "https://api.siliconflow.cn/v1",
		"https://api.deepseek.com/v1/":                    "https://api.deepseek.com/v1",
	}
	for in, want := range cases {
		if got := NormalizeBaseURL(in); got != want {
			t.Fatalf("NormalizeBaseURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClient_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		var req struct {
			Model       string  `json:"model"`
			Temperature float32 `json:"temperature"`
			MaxTokens   int     `json:"max_tokens"`
			Messages    []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "Qwen/Qwen2.5-7B-Instruct" || req.MaxTokens != 1000 {
			t.Errorf("unexpected request %+v", req)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Content != "translate hello" {
			t.Errorf("unexpected messages %+v", req.Messages)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":" {\"word\":\"hello\"} "},"finish_reason":"stop"}]}`)
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL+"/v1/chat/completions", "Qwen/Qwen2.5-7B-Instruct")
	text, err := client.Complete(context.Background(), "system", "translate hello", 0.1, 1000)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if text != `{"word":"hello"}` {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestClient_Complete_Errors(t *testing.T) {
	tests := []struct {
		name           string
		status         int
		responseBody   string
		expectedKind   apperrors.Kind
		expectedErrMsg string
	}{
		{
			name:           "429 Too Many Requests",
			status:         http.StatusTooManyRequests,
			responseBody:   `{"error": {"message": "Rate limit reached: SECRET_WORD_LIST", "type": "rate_limit_error", "code": "rate_limit_exceeded"}}`,
			expectedKind:   apperrors.KindRateLimit,
			expectedErrMsg: "rate limit exceeded (429)",
		},
		{
			name:           "401 Unauthorized",
			status:         http.StatusUnauthorized,
			responseBody:   `{"error": {"message": "Invalid API Key: SECRET_WORD_LIST", "type": "auth_error"}}`,
			expectedKind:   apperrors.KindAuth,
			expectedErrMsg: "authentication/authorization failed (401)",
		},
		{
			name:           "500 Internal Server Error",
			status:         http.StatusInternalServerError,
			responseBody:   "server down SECRET_WORD_LIST",
			expectedKind:   apperrors.KindTransient,
			expectedErrMsg: "server error (500)",
		},
		{
			name:           "400 Bad Request",
			status:         http.StatusBadRequest,
			responseBody:   `{"error": {"message": "bad SECRET_WORD_LIST", "type": "invalid_request_error"}}`,
			expectedKind:   apperrors.KindBadRequest,
			expectedErrMsg: "error (400)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.responseBody)
			}))
			defer server.Close()

			client := NewClient("test-key", server.URL, "test-model")
			_, err := client.Complete(context.Background(), "sys", "SECRET_WORD_LIST", 0.1, 0)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if kind, _ := apperrors.KindOf(err); kind != tt.expectedKind {
				t.Errorf("Expected kind %q, got %q (%v)", tt.expectedKind, kind, err)
			}
			if !strings.Contains(err.Error(), tt.expectedErrMsg) {
				t.Errorf("Expected error message to contain %q, got %q", tt.expectedErrMsg, err.Error())
			}
			if strings.Contains(err.Error(), "SECRET_WORD_LIST") {
				t.Errorf("Expected error message to redact sensitive content, got %q", err.Error())
			}
		})
	}
}

func TestClient_Complete_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"1","choices":[]}`)
	}))
	defer server.Close()

	_, err := NewClient("k", server.URL, "").Complete(context.Background(), "s", "u", 0, 0)
	if kind, _ := apperrors.KindOf(err); kind != apperrors.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
