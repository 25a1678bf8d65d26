package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docshield/docshield/internal/classifier"
	"github.com/docshield/docshield/internal/detection"
	"github.com/docshield/docshield/internal/document"
	"github.com/docshield/docshield/internal/imaging"
	"github.com/docshield/docshield/internal/pipeline"
	"github.com/docshield/docshield/internal/storage"
)

type boxDetector struct {
	boxes         []detection.Box
	lastThreshold float64
}

func (d *boxDetector) Infer(page *imaging.Page, threshold float64) ([]detection.Box, error) {
	d.lastThreshold = threshold
	out := make([]detection.Box, len(d.boxes))
	copy(out, d.boxes)
	for i := range out {
		out[i].PageIndex = page.Index
	}
	return out, nil
}

func newTestServer(t *testing.T, det detection.Detector) *Server {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	registry := detection.NewRegistry()
	registry.Register(detection.TypeAadhaar, func() (detection.Detector, error) { return det, nil })
	registry.Register(detection.TypePAN, func() (detection.Detector, error) { return det, nil })

	store, err := storage.New(t.TempDir(), 0, logger)
	require.NoError(t, err)

	return New(pipeline.New(registry, logger), classifier.New(""), store, logger)
}

func pngUpload(t *testing.T, field, filename string) (*bytes.Buffer, string) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 80, 80))
	for y := 0; y < 80; y++ {
		for x := 0; x < 80; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 3), uint8(y * 3), 100, 255})
		}
	}
	var imgBuf bytes.Buffer
	require.NoError(t, png.Encode(&imgBuf, img))

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = io.Copy(part, &imgBuf)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func doJSON(t *testing.T, s *Server, req *http.Request) (int, map[string]any) {
	t.Helper()
	resp, err := s.App().Test(req, int(10*time.Second/time.Millisecond))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &boxDetector{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	status, body := doJSON(t, s, req)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "running", body["status"])
	assert.Len(t, body["document_types"], 2)
}

func TestAnalyze_RequiresURL(t *testing.T) {
	s := newTestServer(t, &boxDetector{})

	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	status, body := doJSON(t, s, req)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "URL required")
}

func TestAnalyze_FailClosedWithoutClassifier(t *testing.T) {
	s := newTestServer(t, &boxDetector{})

	req := httptest.NewRequest(http.MethodPost, "/analyze",
		bytes.NewBufferString(`{"url":"pmindia.gov.in"}`))
	req.Header.Set("Content-Type", "application/json")
	status, body := doJSON(t, s, req)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["isUnsafe"])
	assert.Equal(t, false, body["isGovernment"])
}

func TestAnalyze_AcceptsDomainField(t *testing.T) {
	s := newTestServer(t, &boxDetector{})

	req := httptest.NewRequest(http.MethodPost, "/analyze",
		bytes.NewBufferString(`{"domain":"example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	status, _ := doJSON(t, s, req)

	assert.Equal(t, http.StatusOK, status)
}

func TestMask_Success(t *testing.T) {
	det := &boxDetector{boxes: []detection.Box{
		{X1: 10, Y1: 10, X2: 50, Y2: 50, Confidence: 0.9},
	}}
	s := newTestServer(t, det)

	body, contentType := pngUpload(t, "file", "card.png")
	req := httptest.NewRequest(http.MethodPost, "/mask/aadhaar", body)
	req.Header.Set("Content-Type", contentType)

	status, resp := doJSON(t, s, req)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, float64(1), resp["detections"])
	assert.Equal(t, "card_aadhaar_masked.jpg", resp["output_file"])
	assert.Equal(t, "/download/card_aadhaar_masked.jpg", resp["download_url"])
}

func TestMask_UnsupportedDocumentType(t *testing.T) {
	s := newTestServer(t, &boxDetector{})

	body, contentType := pngUpload(t, "file", "card.png")
	req := httptest.NewRequest(http.MethodPost, "/mask/passport", body)
	req.Header.Set("Content-Type", contentType)

	status, resp := doJSON(t, s, req)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, resp["error"], "unsupported document type")
}

func TestMask_MissingFile(t *testing.T) {
	s := newTestServer(t, &boxDetector{})

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/mask/pan", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	status, resp := doJSON(t, s, req)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, resp["error"], "no file uploaded")
}

func TestMask_DisallowedExtension(t *testing.T) {
	s := newTestServer(t, &boxDetector{})

	body, contentType := pngUpload(t, "file", "card.bmp")
	req := httptest.NewRequest(http.MethodPost, "/mask/pan", body)
	req.Header.Set("Content-Type", contentType)

	status, resp := doJSON(t, s, req)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, resp["error"], "invalid file type")
}

func TestMask_DeclaredExtensionDecidesContainer(t *testing.T) {
	s := newTestServer(t, &boxDetector{})

	// PDF bytes behind a .png name are decoded as an image and rejected,
	// never processed as a PDF.
	doc := &document.Document{Kind: document.KindPDF}
	img := image.NewRGBA(image.Rect(0, 0, 60, 60))
	doc.Pages = append(doc.Pages, imaging.FromImage(img, 0))
	pdfData, err := document.Assemble(doc)
	require.NoError(t, err)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "card.png")
	require.NoError(t, err)
	_, err = part.Write(pdfData)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/mask/aadhaar", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	status, resp := doJSON(t, s, req)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, resp["error"], "could not read document")
}

func TestMask_ExplicitZeroConfidence(t *testing.T) {
	det := &boxDetector{lastThreshold: -1}
	s := newTestServer(t, det)

	body, contentType := pngUpload(t, "file", "card.png")
	req := httptest.NewRequest(http.MethodPost, "/mask/aadhaar?confidence=0", body)
	req.Header.Set("Content-Type", contentType)

	status, _ := doJSON(t, s, req)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0.0, det.lastThreshold, "confidence=0 must not be replaced by the default")
}

func TestMask_UnreadableUpload(t *testing.T) {
	s := newTestServer(t, &boxDetector{})

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "broken.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("this is not a png"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/mask/aadhaar", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	status, resp := doJSON(t, s, req)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, resp["error"], "could not read document")
}

func TestDownload_RoundTrip(t *testing.T) {
	det := &boxDetector{}
	s := newTestServer(t, det)

	body, contentType := pngUpload(t, "file", "scan.jpg")
	req := httptest.NewRequest(http.MethodPost, "/mask/pan", body)
	req.Header.Set("Content-Type", contentType)

	status, resp := doJSON(t, s, req)
	require.Equal(t, http.StatusOK, status)

	dlReq := httptest.NewRequest(http.MethodGet, resp["download_url"].(string), nil)
	dlResp, err := s.App().Test(dlReq, int(10*time.Second/time.Millisecond))
	require.NoError(t, err)
	defer dlResp.Body.Close()

	assert.Equal(t, http.StatusOK, dlResp.StatusCode)
	data, err := io.ReadAll(dlResp.Body)
	require.NoError(t, err)
	_, err = imaging.DecodePage(data, 0)
	assert.NoError(t, err, "downloaded artifact should be a decodable image")
}

func TestDownload_NotFound(t *testing.T) {
	s := newTestServer(t, &boxDetector{})

	req := httptest.NewRequest(http.MethodGet, "/download/missing_masked.jpg", nil)
	resp, err := s.App().Test(req, int(10*time.Second/time.Millisecond))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMask_DegradedWhenModelUnavailable(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	registry := detection.NewRegistry()
	registry.Register(detection.TypeAadhaar, func() (detection.Detector, error) {
		return nil, assert.AnError
	})
	registry.Register(detection.TypePAN, func() (detection.Detector, error) {
		return nil, assert.AnError
	})

	store, err := storage.New(t.TempDir(), 0, logger)
	require.NoError(t, err)
	s := New(pipeline.New(registry, logger), classifier.New(""), store, logger)

	body, contentType := pngUpload(t, "file", "card.png")
	req := httptest.NewRequest(http.MethodPost, "/mask/aadhaar", body)
	req.Header.Set("Content-Type", contentType)

	status, resp := doJSON(t, s, req)
	assert.Equal(t, http.StatusOK, status, "model unavailability must not fail the endpoint")
	assert.Equal(t, float64(0), resp["detections"])
	assert.Equal(t, true, resp["degraded"])
}
