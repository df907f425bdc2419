// Package detect defines the boundary to the layout detection model.
// The model is an external collaborator; only its output shape matters
// here. Implementations live in internal/iodetect.
package detect

import (
	"context"

	"github.com/seiten/pagedb/pkg/schema"
)

// Prediction is one detected region on a page.
type Prediction struct {
	// ImageID is the 1-based position within the prediction batch.
	ImageID int `json:"image_id"`

	// CategoryID is an ordinal from the closed category set.
	CategoryID int `json:"category_id"`

	// BBox is the detected region in absolute pixel coordinates.
	BBox schema.BBox `json:"bbox"`

	// FileName is the canonical page identifier the prediction belongs to.
	FileName string `json:"file_name"`

	// Width and Height are derived from BBox.
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// PercentPage is the fraction of full page pixel area the box covers.
	PercentPage float64 `json:"percent_page"`

	// Score is the model's confidence for this detection.
	Score float64 `json:"score,omitempty"`
}

// Detector runs layout detection over a page image.
type Detector interface {
	// Detect sends raw image bytes to the model and returns the ordered
	// predictions above the configured score threshold.
	Detect(ctx context.Context, image []byte, pageKey string) ([]Prediction, error)

	// Healthy reports whether the detection service is reachable.
	Healthy(ctx context.Context) error
}

// PagePercent computes the fraction of page area a box covers. The
// denominator is floored to 1.0 so degenerate page dimensions never
// divide by zero.
func PagePercent(b schema.BBox, pageWidth, pageHeight float64) float64 {
	area := pageWidth * pageHeight
	if area < 1.0 {
		area = 1.0
	}
	return b.Area() / area
}
