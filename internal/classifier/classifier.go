// Package classifier decides whether a URL belongs to a government site.
//
// The verdict is a safety signal for an unrelated caller: anything the model
// does not positively recognize as a government property is reported unsafe.
// The classifier itself runs in an external text-classification service;
// this package is the client and the fail-closed policy around it.
package classifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Verdict is the classification result for one URL.
type Verdict struct {
	IsGovernment   bool    `json:"isGovernment"`
	Confidence     float64 `json:"confidence"`
	IsUnsafe       bool    `json:"isUnsafe"`
	Reason         string  `json:"reason"`
	Classification string  `json:"classification,omitempty"`
}

// Client calls a remote URL classifier. The zero endpoint is valid and
// yields the fail-closed verdict for every input.
type Client struct {
	endpoint string
	httpc    *http.Client
}

// New creates a classifier client. An empty endpoint disables the remote
// call; Classify then always fails closed.
func New(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		httpc:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Classify labels a URL as government or non-government.
//
// The URL is normalized to carry a scheme before classification. Classify
// never returns an error: when the classifier is not configured or the call
// fails, the verdict collapses to {IsGovernment: false, Confidence: 0,
// IsUnsafe: true} with the failure as the reason. Unsafe-by-default is the
// policy; a broken classifier must not report anything as trusted.
func (c *Client) Classify(rawURL string) Verdict {
	url := normalizeURL(rawURL)

	if c.endpoint == "" {
		return failClosed("classifier not configured")
	}

	label, confidence, err := c.predict(url)
	if err != nil {
		return failClosed(fmt.Sprintf("classification error: %v", err))
	}

	isGov := interpretLabel(label)
	v := Verdict{
		IsGovernment:   isGov,
		Confidence:     confidence,
		IsUnsafe:       !isGov,
		Classification: label,
	}
	if isGov {
		v.Reason = fmt.Sprintf("SAFE - legitimate government website: %s", label)
	} else {
		v.Reason = fmt.Sprintf("UNSAFE - non-government website: %s", label)
	}
	return v
}

func (c *Client) predict(url string) (string, float64, error) {
	payload, err := json.Marshal(map[string]string{"url": url})
	if err != nil {
		return "", 0, err
	}

	resp, err := c.httpc.Post(c.endpoint, "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	var result struct {
		Label      string  `json:"label"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", 0, err
	}
	if result.Confidence == 0 {
		result.Confidence = 0.8
	}
	return result.Label, result.Confidence, nil
}

func failClosed(reason string) Verdict {
	return Verdict{IsGovernment: false, Confidence: 0.0, IsUnsafe: true, Reason: reason}
}

// interpretLabel maps the model's free-form label onto the trusted category.
func interpretLabel(label string) bool {
	l := strings.ToLower(label)
	return strings.Contains(l, "government") ||
		strings.Contains(l, "authorized") ||
		strings.Contains(l, "gov") ||
		strings.Contains(l, "legitimate")
}

func normalizeURL(url string) string {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	return "https://" + url
}
