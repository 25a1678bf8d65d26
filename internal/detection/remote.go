package detection

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/docshield/docshield/internal/imaging"
)

// remoteJPEGQuality is used when shipping pages to the inference service.
const remoteJPEGQuality = 90

// RemoteDetector defers inference to an external object-detection service
// over HTTP. The page is posted as a multipart JPEG and the service answers
// with a JSON list of boxes in its native output order.
type RemoteDetector struct {
	baseURL string
	client  *http.Client
}

// NewRemoteDetector probes the service's /health endpoint and returns a
// detector bound to it. An unreachable or unhealthy service is an
// initialization failure, which the registry reports as model-unavailable.
func NewRemoteDetector(baseURL string) (*RemoteDetector, error) {
	d := &RemoteDetector{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	if err := d.checkHealth(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *RemoteDetector) checkHealth() error {
	resp, err := d.client.Get(d.baseURL + "/health")
	if err != nil {
		return fmt.Errorf("inference service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("inference service unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

// Infer posts the page to the inference service and returns its detections.
// Safe for concurrent use; the remote service owns the model state.
func (d *RemoteDetector) Infer(page *imaging.Page, threshold float64) ([]Box, error) {
	data, err := page.EncodeJPEG(remoteJPEGQuality)
	if err != nil {
		return nil, err
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "page.jpg")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("copy page data: %w", err)
	}
	if err := writer.WriteField("confidence", strconv.FormatFloat(threshold, 'f', -1, 64)); err != nil {
		return nil, fmt.Errorf("write confidence field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, d.baseURL+"/predict", body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference failed with status: %d", resp.StatusCode)
	}

	var result struct {
		Detections []Box `json:"detections"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	for i := range result.Detections {
		result.Detections[i].PageIndex = page.Index
	}
	return result.Detections, nil
}
