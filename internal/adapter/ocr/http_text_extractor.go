package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"docquiz/internal/domain"

	"golang.org/x/sync/singleflight"
)

// blockTypeLine tags a block that is a full recognized line. Lower-granularity
// blocks (words, characters) repeat the same text and are discarded.
const blockTypeLine = "LINE"

type detectRequest struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

type detectedBlock struct {
	BlockType  string  `json:"blockType"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence,omitempty"`
}

type detectResponse struct {
	Blocks []detectedBlock `json:"blocks"`
}

// HTTPTextExtractor implements domain.TextExtractor against an external text
// detection service. Concurrent extractions of the same object are collapsed
// into a single upstream call; recognition is stable per object version.
type HTTPTextExtractor struct {
	endpoint string
	client   *http.Client
	group    singleflight.Group
}

// NewHTTPTextExtractor creates a new HTTPTextExtractor for the given service
// endpoint.
func NewHTTPTextExtractor(endpoint string, timeout time.Duration) (*HTTPTextExtractor, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("OCR endpoint cannot be empty")
	}
	return &HTTPTextExtractor{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   &http.Client{Timeout: timeout},
	}, nil
}

// Extract returns the recognized text of the referenced document, one line
// per newline, in the order the service returned them. No re-ordering,
// deduplication, or correction is applied.
func (e *HTTPTextExtractor) Extract(ctx context.Context, ref domain.DocumentRef) (string, error) {
	v, err, _ := e.group.Do(ref.Bucket+"/"+ref.Key, func() (interface{}, error) {
		return e.detectDocumentText(ctx, ref)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (e *HTTPTextExtractor) detectDocumentText(ctx context.Context, ref domain.DocumentRef) (string, error) {
	payload, err := json.Marshal(detectRequest{Bucket: ref.Bucket, Key: ref.Key})
	if err != nil {
		return "", fmt.Errorf("failed to marshal detect request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint+"/v1/text/detect", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build detect request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("text detection call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("text detection service returned status %d", resp.StatusCode)
	}

	var detected detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&detected); err != nil {
		return "", fmt.Errorf("failed to decode detect response: %w", err)
	}

	lines := make([]string, 0, len(detected.Blocks))
	for _, block := range detected.Blocks {
		if block.BlockType != blockTypeLine {
			continue
		}
		lines = append(lines, block.Text)
	}
	return strings.Join(lines, "\n"), nil
}

var _ domain.TextExtractor = (*HTTPTextExtractor)(nil)
