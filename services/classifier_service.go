package services

import (
	"fmt"
	"log"
	"os"
)

// Care recommendations derived from defect labels
const (
	RecommendWashAndFold = "Wash & Fold"
	RecommendDryCleaning = "Dry Cleaning"
	RecommendSpecialCare = "Special Care"
)

// AnalysisResult is the outcome of classifying one garment image
type AnalysisResult struct {
	DetectedDefect string `json:"detected_defect"`
	Confidence     string `json:"confidence"`
	Recommendation string `json:"recommendation"`
}

// RecommendationFor maps a defect label to a care recommendation.
// Unknown labels, including "normal", fall through to Wash & Fold.
func RecommendationFor(label string) string {
	switch label {
	case "stain":
		return RecommendDryCleaning
	case "tear", "outside_tear", "hole":
		return RecommendSpecialCare
	default:
		return RecommendWashAndFold
	}
}

// AnalyzeImageBytes classifies raw image bytes for garment defects.
//
// The bytes are written to a transient file because the detector consumes
// files, and the file is removed again no matter how detection went. The
// first detection reported wins; when nothing is detected the result is the
// default "Normal" with zero confidence.
func AnalyzeImageBytes(detector DetectorInterface, imageBytes []byte) (AnalysisResult, error) {
	tmp, err := os.CreateTemp("", "freshai_upload_*.jpg")
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if removeErr := os.Remove(tmpPath); removeErr != nil && !os.IsNotExist(removeErr) {
			log.Printf("Failed to remove temp image %s: %v", tmpPath, removeErr)
		}
	}()

	if _, err := tmp.Write(imageBytes); err != nil {
		tmp.Close()
		return AnalysisResult{}, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return AnalysisResult{}, fmt.Errorf("failed to write temp file: %w", err)
	}

	detections, err := detector.Detect(tmpPath)
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("detector failed: %w", err)
	}

	label := "Normal"
	confidence := 0.0
	if len(detections) > 0 {
		// Take the first detection reported and stop: any detection
		// beats the default "Normal" result
		label = detections[0].Label
		confidence = detections[0].Confidence
	}

	return AnalysisResult{
		DetectedDefect: label,
		Confidence:     fmt.Sprintf("%.2f", confidence),
		Recommendation: RecommendationFor(label),
	}, nil
}
