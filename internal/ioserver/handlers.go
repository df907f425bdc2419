package ioserver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/seiten/pagedb/pkg/category"
	"github.com/seiten/pagedb/pkg/ident"
	"github.com/seiten/pagedb/pkg/schema"
	"github.com/seiten/pagedb/pkg/store"
)

// saveAnnotation is one region in a /save payload. Width, height and
// percent_page are the values the front-end computed; they are stored
// verbatim when present.
type saveAnnotation struct {
	CategoryID  int       `json:"category_id"`
	BBox        []float64 `json:"bbox"`
	FileName    string    `json:"file_name"`
	Width       *float64  `json:"width"`
	Height      *float64  `json:"height"`
	PercentPage *float64  `json:"percent_page"`
}

// saveAllAnnotation is one region in a /save_all payload. The declared
// dimensions arrive as a two-element size array here.
type saveAllAnnotation struct {
	CategoryID  int       `json:"category_id"`
	BBox        []float64 `json:"bbox"`
	FileName    string    `json:"file_name"`
	Size        []float64 `json:"size"`
	PercentPage *float64  `json:"percent_page"`
}

// imagePayload is one page record in a /save_all payload.
type imagePayload struct {
	FileName string `json:"file_name"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Year     string `json:"year"`
	Nr       string `json:"nr"`
}

// groundTruthBox is one stored region in a /ground_truth response.
type groundTruthBox struct {
	ID            string  `json:"id"`
	CategoryID    int     `json:"category_id"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	PercentPage   float64 `json:"percent_page"`
	IsGroundTruth bool    `json:"isGroundTruth"`
}

// handleSegment accepts a multipart page image, runs detection, and
// returns the ordered predictions. Nothing is persisted here; the
// front-end decides what to save.
func (s *Server) handleSegment(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	mode := r.FormValue("mode")
	if mode == "" {
		mode = "upload_only"
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, "No file in request", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Filename == "" {
		respondError(w, "No file selected", http.StatusBadRequest)
		return
	}
	pageKey := ident.PageKey(header.Filename)

	image, err := io.ReadAll(file)
	if err != nil {
		respondError(w, "Failed to read image", http.StatusInternalServerError)
		return
	}

	preds, err := s.detector.Detect(r.Context(), image, pageKey)
	if err != nil {
		s.log.Error("Detection failed", "page", pageKey, "error", err)
		respondError(w, "Inference error", http.StatusInternalServerError)
		return
	}

	modeLabel := "Upload Only"
	if mode == "database" {
		modeLabel = "Database"
	}

	respondJSON(w, map[string]any{
		"predictions": preds,
		"message":     fmt.Sprintf("%s Mode - processed.", modeLabel),
	}, http.StatusCreated)
}

// handleSave persists the regions drawn for one page. The page is
// created on the fly when it was never imported.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FileName    string           `json:"file_name"`
		Annotations []saveAnnotation `json:"annotations"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "No JSON body", http.StatusBadRequest)
		return
	}

	pageKey := ident.PageKey(req.FileName)
	if pageKey == "" || len(req.Annotations) == 0 {
		respondError(w, "Missing file_name or annotations", http.StatusBadRequest)
		return
	}

	ins := make([]store.AnnotationInput, 0, len(req.Annotations))
	for _, ann := range req.Annotations {
		if !category.Valid(ann.CategoryID) {
			respondError(w,
				fmt.Sprintf("Unknown category_id %d", ann.CategoryID),
				http.StatusBadRequest)
			return
		}

		in := store.AnnotationInput{
			CategoryID:  ann.CategoryID,
			BBox:        schema.NewBBox(ann.BBox),
			FileName:    ann.FileName,
			PercentPage: ann.PercentPage,
		}
		if in.FileName == "" {
			in.FileName = pageKey
		}
		if ann.Width != nil && ann.Height != nil {
			in.Size = &[2]float64{*ann.Width, *ann.Height}
		}
		ins = append(ins, in)
	}

	pageID, err := s.pages.GetOrCreate(r.Context(), pageKey)
	if err != nil {
		s.log.Error("Failed to resolve page", "page", pageKey, "error", err)
		respondError(w, "Could not get or create page", http.StatusInternalServerError)
		return
	}

	// One transaction for the whole payload: a mid-batch failure
	// commits nothing, and the outcome reports saved vs requested.
	saved, err := s.anns.InsertMany(r.Context(), pageID, ins)
	if err != nil {
		s.log.Error("Failed to save annotations",
			"page", pageKey, "error", err)
		respondJSON(w, map[string]any{
			"error":     "Could not save annotations",
			"saved":     saved,
			"requested": len(ins),
		}, http.StatusInternalServerError)
		return
	}

	respondJSON(w, map[string]any{
		"message": "Annotations saved to DB successfully!",
		"saved":   saved,
	}, http.StatusCreated)
}

// handleSaveAll persists whole pages with their regions in one call.
// Pages are upserted first; regions naming an unknown page are silently
// dropped, the documented policy for bulk saves.
func (s *Server) handleSaveAll(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Images      []imagePayload      `json:"images"`
		Annotations []saveAllAnnotation `json:"annotations"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "No data provided", http.StatusBadRequest)
		return
	}
	if len(req.Images) == 0 || len(req.Annotations) == 0 {
		respondError(w, "Need both images[] and annotations[]",
			http.StatusBadRequest)
		return
	}

	pageIDs := make(map[string]int, len(req.Images))
	for _, img := range req.Images {
		if img.FileName == "" {
			continue
		}
		// Pages are stored and joined under their canonical name, no
		// matter what the upload pipeline called the file.
		pageKey := ident.PageKey(img.FileName)
		id, err := s.pages.Upsert(r.Context(), schema.Page{
			FileName: pageKey,
			Width:    img.Width,
			Height:   img.Height,
			Year:     img.Year,
			Nr:       img.Nr,
		})
		if err != nil {
			s.log.Error("Failed to upsert page",
				"page", pageKey, "error", err)
			respondError(w, "Could not save pages",
				http.StatusInternalServerError)
			return
		}
		pageIDs[pageKey] = id
	}

	ins := make([]store.AnnotationInput, 0, len(req.Annotations))
	for _, ann := range req.Annotations {
		in := store.AnnotationInput{
			CategoryID:  ann.CategoryID,
			BBox:        schema.NewBBox(ann.BBox),
			FileName:    ann.FileName,
			PercentPage: ann.PercentPage,
		}
		if len(ann.Size) == 2 {
			in.Size = &[2]float64{ann.Size[0], ann.Size[1]}
		}
		ins = append(ins, in)
	}

	n, err := s.anns.BulkInsert(r.Context(), ins, pageIDs)
	if err != nil {
		s.log.Error("Failed to bulk-save annotations", "error", err)
		respondError(w, "Could not save annotations",
			http.StatusInternalServerError)
		return
	}

	respondJSON(w, map[string]any{
		"message":  "All data saved successfully!",
		"pages":    len(pageIDs),
		"inserted": n,
	}, http.StatusOK)
}

// handleGroundTruth returns the stored regions of one page, with
// dimensions re-derived from the stored bbox.
func (s *Server) handleGroundTruth(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FileName string `json:"file_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		req.FileName == "" {
		respondError(w, "File name is required", http.StatusBadRequest)
		return
	}

	pageKey := ident.PageKey(req.FileName)

	anns, err := s.anns.ByPage(r.Context(), pageKey)
	if err != nil {
		s.log.Error("Failed to read annotations",
			"page", pageKey, "error", err)
		respondError(w, "Could not read annotations",
			http.StatusInternalServerError)
		return
	}

	boxes := make([]groundTruthBox, 0, len(anns))
	for i, ann := range anns {
		boxes = append(boxes, groundTruthBox{
			ID:            fmt.Sprintf("gt-%d", i),
			CategoryID:    ann.CategoryID,
			X:             ann.BBox[0],
			Y:             ann.BBox[1],
			Width:         ann.Width,
			Height:        ann.Height,
			PercentPage:   ann.PercentPage,
			IsGroundTruth: true,
		})
	}

	respondJSON(w, map[string]any{
		"ground_truth_boxes": boxes,
	}, http.StatusOK)
}

// handleHealth reports server and detector status. The detector being
// down degrades the report but keeps the API healthy; saving and
// reading annotations work without it.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	detector := "ok"
	if err := s.detector.Healthy(r.Context()); err != nil {
		detector = "unavailable"
	}

	respondJSON(w, map[string]string{
		"status":   "ok",
		"detector": detector,
	}, http.StatusOK)
}

func respondJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes a structured error body. Backend error details
// stay in the logs, never in the response.
func respondError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, map[string]string{"error": message}, status)
}
