package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRemoteEmbedderBatch(t *testing.T) {
	var gotInput []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("path: got %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer secret" {
			t.Errorf("auth header: got %q", auth)
		}
		var req struct {
			Model string   `json:"model"`
			Input []string `json:"input"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotInput = req.Input
		resp := map[string]any{"data": []map[string]any{
			{"embedding": []float32{1, 0}},
			{"embedding": []float32{0, 1}},
		}}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer ts.Close()

	e := NewRemoteEmbedder(ts.URL, "test-model", "secret", 2)
	defer e.Close()

	vecs, err := e.EmbedBatch(context.Background(), []string{"name", "email"})
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	if len(vecs) != 2 || vecs[0][0] != 1 || vecs[1][1] != 1 {
		t.Errorf("vectors: got %v", vecs)
	}
	if len(gotInput) != 2 || gotInput[0] != "name" {
		t.Errorf("server saw input %v", gotInput)
	}
}

func TestRemoteEmbedderEmptyBatch(t *testing.T) {
	e := NewRemoteEmbedder("http://unused", "m", "", 2)
	vecs, err := e.EmbedBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("empty batch: %v", err)
	}
	if len(vecs) != 0 {
		t.Errorf("got %v", vecs)
	}
}

func TestRemoteEmbedderErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	e := NewRemoteEmbedder(ts.URL, "m", "", 2)
	if _, err := e.EmbedBatch(context.Background(), []string{"x"}); err == nil {
		t.Fatal("expected error on 503")
	}
}

func TestRemoteEmbedderCountMismatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{}})
	}))
	defer ts.Close()

	e := NewRemoteEmbedder(ts.URL, "m", "", 2)
	if _, err := e.EmbedBatch(context.Background(), []string{"x"}); err == nil {
		t.Fatal("expected error on vector count mismatch")
	}
}
