package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PabloGalante/shop-assistant/internal/adapters/llm"
	"github.com/PabloGalante/shop-assistant/internal/domain"
)

func TestMockLLMRecommendsFirstCatalogEntry(t *testing.T) {
	m := llm.NewMockLLM()

	out, err := m.Complete(context.Background(), []domain.LLMMessage{
		{Role: domain.MessageRoleSystem, Content: "Catalog:\nSKU-0042 | Trail Runner | Footwear | £59.99\n"},
		{Role: domain.MessageRoleUser, Content: "shoes"},
	}, domain.GenerationOptions{})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if len(out.Fragments) != 1 || !strings.Contains(out.Fragments[0], "SKU-0042") {
		t.Fatalf("expected reply mentioning SKU-0042, got %+v", out)
	}
}

func TestMockLLMHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := llm.NewMockLLM().Complete(ctx, []domain.LLMMessage{{Role: domain.MessageRoleUser, Content: "x"}}, domain.GenerationOptions{}); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
}

type capturedRequest struct {
	Path        string
	APIKey      string
	Auth        string
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newCompletionServer(t *testing.T, got *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		got.Path = r.URL.Path
		got.APIKey = r.Header.Get("api-key")
		got.Auth = r.Header.Get("Authorization")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-test",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "Try SKU-0001."}}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 4, "total_tokens": 16}
		}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

var testMessages = []domain.LLMMessage{
	{Role: domain.MessageRoleSystem, Content: "sys"},
	{Role: domain.MessageRoleUser, Content: "hi"},
	{Role: domain.MessageRoleAssistant, Content: "hello"},
	{Role: domain.MessageRoleUser, Content: "scarf?"},
}

func TestOpenAIClientComplete(t *testing.T) {
	var got capturedRequest
	srv := newCompletionServer(t, &got)

	c := llm.NewOpenAI("sk-test", srv.URL+"/v1", "gpt-test")
	out, err := c.Complete(context.Background(), testMessages, domain.GenerationOptions{Temperature: 0.5, MaxOutputTokens: 100})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if got.Path != "/v1/chat/completions" || got.Auth != "Bearer sk-test" {
		t.Fatalf("unexpected request: path=%s auth=%s", got.Path, got.Auth)
	}
	if got.Model != "gpt-test" || got.Temperature != 0.5 || got.MaxTokens != 100 {
		t.Fatalf("options not forwarded: %+v", got)
	}
	roles := []string{"system", "user", "assistant", "user"}
	for i, r := range roles {
		if got.Messages[i].Role != r {
			t.Fatalf("message %d: expected role %s, got %s", i, r, got.Messages[i].Role)
		}
	}

	if len(out.Fragments) != 1 || out.Fragments[0] != "Try SKU-0001." {
		t.Fatalf("unexpected fragments: %+v", out.Fragments)
	}
	if out.FinishReason != "stop" || out.Usage.InputTokens != 12 || out.Usage.OutputTokens != 4 {
		t.Fatalf("unexpected completion: %+v", out)
	}
}

func TestAzureOpenAIClientUsesDeployment(t *testing.T) {
	var got capturedRequest
	srv := newCompletionServer(t, &got)

	c := llm.NewAzureOpenAI("azure-key", srv.URL, "retail-chat")
	if _, err := c.Complete(context.Background(), testMessages, domain.GenerationOptions{Temperature: 0.7, MaxOutputTokens: 400}); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if !strings.Contains(got.Path, "/openai/deployments/retail-chat/chat/completions") {
		t.Fatalf("unexpected azure path %q", got.Path)
	}
	if got.APIKey != "azure-key" {
		t.Fatalf("expected api-key header, got %q", got.APIKey)
	}
}

func TestOpenAIClientPropagatesErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"overloaded","type":"server_error"}}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := llm.NewOpenAI("sk-test", srv.URL+"/v1", "gpt-test")
	if _, err := c.Complete(context.Background(), testMessages, domain.GenerationOptions{}); err == nil {
		t.Fatalf("expected error from failing provider")
	}
}
