// Package iodetect implements the Detector interface over HTTP. The
// layout model runs in a separate inference service; this package only
// ships image bytes out and predictions back.
package iodetect

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/seiten/pagedb/pkg/category"
	"github.com/seiten/pagedb/pkg/config"
	"github.com/seiten/pagedb/pkg/detect"
	"github.com/seiten/pagedb/pkg/schema"
)

// detector implements detect.Detector against a remote inference
// service.
type detector struct {
	cfg    config.DetectorConfig
	client *http.Client
}

// New creates a new Detector.
func New(cfg config.DetectorConfig) detect.Detector {
	return &detector{
		cfg: cfg,
		client: &http.Client{
			// Model inference on large page scans is slow.
			Timeout: 120 * time.Second,
		},
	}
}

// detectionResponse is the wire format of the inference service.
type detectionResponse struct {
	Detections []struct {
		CategoryID int       `json:"category_id"`
		BBox       []float64 `json:"bbox"`
		Score      float64   `json:"score"`
	} `json:"detections"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Detect sends the image to the inference service and converts its
// detections into predictions. Detections below the configured score
// threshold are dropped; prediction ids number the survivors from 1 in
// service order.
func (d *detector) Detect(
	ctx context.Context,
	image []byte,
	pageKey string,
) ([]detect.Prediction, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("image", pageKey)
	if err != nil {
		return nil, RequestError(d.cfg.URL, err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, RequestError(d.cfg.URL, err)
	}
	if err := writer.Close(); err != nil {
		return nil, RequestError(d.cfg.URL, err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, d.cfg.URL, body)
	if err != nil {
		return nil, RequestError(d.cfg.URL, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	start := time.Now()
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, UnavailableError(d.cfg.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, ResponseStatusError(d.cfg.URL, resp.StatusCode, data)
	}

	var dr detectionResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return nil, ResponseError(d.cfg.URL, err)
	}

	res := d.toPredictions(dr, pageKey)

	slog.Debug("Detection complete",
		"page", pageKey,
		"detections", len(dr.Detections),
		"kept", len(res),
		"duration", time.Since(start),
	)

	return res, nil
}

func (d *detector) toPredictions(
	dr detectionResponse,
	pageKey string,
) []detect.Prediction {
	res := make([]detect.Prediction, 0, len(dr.Detections))
	for _, det := range dr.Detections {
		if det.Score < d.cfg.ScoreThreshold {
			continue
		}
		// The model is trained on a fixed class set; anything
		// outside it is garbage output.
		if !category.Valid(det.CategoryID) {
			continue
		}

		bbox := schema.NewBBox(det.BBox)
		res = append(res, detect.Prediction{
			ImageID:     len(res) + 1,
			CategoryID:  det.CategoryID,
			BBox:        bbox,
			FileName:    pageKey,
			Width:       bbox.Width(),
			Height:      bbox.Height(),
			PercentPage: detect.PagePercent(bbox, dr.Width, dr.Height),
			Score:       det.Score,
		})
	}
	return res
}

// Healthy checks the inference service health endpoint, a sibling of
// the prediction endpoint. A service mounted at /v1/predict answers
// health at /v1/health.
func (d *detector) Healthy(ctx context.Context) error {
	u, err := url.Parse(d.cfg.URL)
	if err != nil {
		return RequestError(d.cfg.URL, err)
	}
	u.Path = path.Join(path.Dir(u.Path), "health")
	u.RawQuery = ""

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return RequestError(u.String(), err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return UnavailableError(u.String(), err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return ResponseStatusError(u.String(), resp.StatusCode, nil)
	}
	return nil
}
