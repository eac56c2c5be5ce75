package ocr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"docquiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDetectServer(t *testing.T, blocks []detectedBlock) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/text/detect", r.URL.Path)

		var req detectRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req.Bucket)
		assert.NotEmpty(t, req.Key)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(detectResponse{Blocks: blocks})
	}))
}

func TestExtract_KeepsOnlyLineBlocksInOrder(t *testing.T) {
	server := newDetectServer(t, []detectedBlock{
		{BlockType: "PAGE", Text: ""},
		{BlockType: "LINE", Text: "The sky is blue."},
		{BlockType: "WORD", Text: "The"},
		{BlockType: "WORD", Text: "sky"},
		{BlockType: "LINE", Text: "Water boils at 100C."},
		{BlockType: "WORD", Text: "Water"},
	})
	defer server.Close()

	extractor, err := NewHTTPTextExtractor(server.URL, 5*time.Second)
	require.NoError(t, err)

	text, err := extractor.Extract(context.Background(), domain.DocumentRef{Bucket: "docs", Key: "scan.png"})
	require.NoError(t, err)
	assert.Equal(t, "The sky is blue.\nWater boils at 100C.", text)
}

func TestExtract_FragmentsOnlyYieldsEmptyText(t *testing.T) {
	// Word and page granularity blocks carry no line records; the result is
	// empty and left for the orchestrator to reject.
	server := newDetectServer(t, []detectedBlock{
		{BlockType: "PAGE", Text: ""},
		{BlockType: "WORD", Text: "orphan"},
		{BlockType: "WORD", Text: "fragments"},
	})
	defer server.Close()

	extractor, err := NewHTTPTextExtractor(server.URL, 5*time.Second)
	require.NoError(t, err)

	text, err := extractor.Extract(context.Background(), domain.DocumentRef{Bucket: "docs", Key: "scan.png"})
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtract_ServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	extractor, err := NewHTTPTextExtractor(server.URL, 5*time.Second)
	require.NoError(t, err)

	_, err = extractor.Extract(context.Background(), domain.DocumentRef{Bucket: "docs", Key: "scan.png"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestExtract_BadResponseBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	extractor, err := NewHTTPTextExtractor(server.URL, 5*time.Second)
	require.NoError(t, err)

	_, err = extractor.Extract(context.Background(), domain.DocumentRef{Bucket: "docs", Key: "scan.png"})
	require.Error(t, err)
}

func TestNewHTTPTextExtractor_RequiresEndpoint(t *testing.T) {
	_, err := NewHTTPTextExtractor("", time.Second)
	assert.Error(t, err)
}
