package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/freshai/freshai-backend/config"
)

// Detection is a single labeled region reported by the detector
type Detection struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// DetectorInterface defines the interface to the external defect detector
type DetectorInterface interface {
	// Detect runs inference against the image at the given path and
	// returns all detections in the order the detector reported them
	Detect(imagePath string) ([]Detection, error)
}

var detectorInstance DetectorInterface

// InitDetector initializes the HTTP detector client from configuration
func InitDetector(cfg *config.Config) DetectorInterface {
	detectorInstance = &HTTPDetector{
		url: cfg.DetectorURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	return detectorInstance
}

// GetDetector returns the initialized detector instance
func GetDetector() DetectorInterface {
	return detectorInstance
}

// SetDetector sets the detector instance (primarily for testing)
func SetDetector(d DetectorInterface) {
	detectorInstance = d
}

// HTTPDetector calls a pretrained object-detection model served over HTTP.
// The inference server wraps the YOLO defect model; this client only ships
// the image and decodes the detections.
type HTTPDetector struct {
	url        string
	httpClient *http.Client
}

// detectorResponse is the wire format returned by the inference server
type detectorResponse struct {
	Detections []Detection `json:"detections"`
}

// Detect uploads the image file to the inference endpoint and decodes the result
func (d *HTTPDetector) Detect(imagePath string) ([]Detection, error) {
	file, err := os.Open(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Printf("warning: failed to close image file: %v", closeErr)
		}
	}()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(imagePath))
	if err != nil {
		return nil, fmt.Errorf("failed to build request body: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to build request body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build request body: %w", err)
	}

	req, err := http.NewRequest("POST", d.url, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call detector: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Printf("warning: failed to close response body: %v", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("detector returned status %d: %s", resp.StatusCode, string(raw))
	}

	var decoded detectorResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode detector response: %w", err)
	}

	return decoded.Detections, nil
}
