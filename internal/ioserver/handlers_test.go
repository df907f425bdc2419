package ioserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/seiten/pagedb/pkg/config"
	"github.com/seiten/pagedb/pkg/detect"
	"github.com/seiten/pagedb/pkg/ident"
	"github.com/seiten/pagedb/pkg/logger"
	"github.com/seiten/pagedb/pkg/schema"
	"github.com/seiten/pagedb/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPages is an in-memory PageStore.
type stubPages struct {
	byName map[string]*schema.Page
	nextID int
}

func newStubPages() *stubPages {
	return &stubPages{byName: make(map[string]*schema.Page), nextID: 1}
}

func (s *stubPages) GetOrCreate(_ context.Context, key string) (int, error) {
	if p, ok := s.byName[key]; ok {
		return p.ID, nil
	}
	p := &schema.Page{ID: s.nextID, FileName: key}
	s.nextID++
	s.byName[key] = p
	return p.ID, nil
}

func (s *stubPages) Upsert(_ context.Context, p schema.Page) (int, error) {
	if old, ok := s.byName[p.FileName]; ok {
		p.ID = old.ID
	} else {
		p.ID = s.nextID
		s.nextID++
	}
	s.byName[p.FileName] = &p
	return p.ID, nil
}

func (s *stubPages) ByKey(_ context.Context, key string) (*schema.Page, error) {
	return s.byName[key], nil
}

func (s *stubPages) KeyIDs(_ context.Context) (map[string]int, error) {
	res := make(map[string]int)
	for name, p := range s.byName {
		res[name] = p.ID
	}
	return res, nil
}

func (s *stubPages) Delete(_ context.Context, id int) error { return nil }

// stubAnns is an in-memory AnnotationStore keyed by page id. A non-nil
// insertErr makes InsertMany fail without committing anything.
type stubAnns struct {
	byPage    map[int][]schema.Annotation
	pages     *stubPages
	nextID    int
	insertErr error
}

func newStubAnns(pages *stubPages) *stubAnns {
	return &stubAnns{
		byPage: make(map[int][]schema.Annotation),
		pages:  pages,
		nextID: 1,
	}
}

func (s *stubAnns) Insert(
	_ context.Context, pageID int, in store.AnnotationInput,
) (int, error) {
	width, height := in.Dimensions()
	a := schema.Annotation{
		ImageID:     s.nextID,
		CategoryID:  in.CategoryID,
		BBox:        in.BBox,
		FileName:    in.FileName,
		Width:       width,
		Height:      height,
		PercentPage: in.Percent(),
	}
	s.nextID++
	s.byPage[pageID] = append(s.byPage[pageID], a)
	return a.ImageID, nil
}

func (s *stubAnns) InsertMany(
	ctx context.Context, pageID int, ins []store.AnnotationInput,
) (int, error) {
	if s.insertErr != nil {
		return 0, s.insertErr
	}
	n := 0
	for _, in := range ins {
		if _, err := s.Insert(ctx, pageID, in); err != nil {
			return 0, err
		}
		n++
	}
	return n, nil
}

func (s *stubAnns) BulkInsert(
	ctx context.Context, ins []store.AnnotationInput, pageIDs map[string]int,
) (int, error) {
	n := 0
	for _, in := range ins {
		id, ok := pageIDs[ident.AnnotationPageKey(in.FileName)]
		if !ok {
			continue
		}
		if _, err := s.Insert(ctx, id, in); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (s *stubAnns) ByPage(
	ctx context.Context, key string,
) ([]schema.Annotation, error) {
	p, _ := s.pages.ByKey(ctx, key)
	if p == nil {
		return nil, nil
	}
	res := make([]schema.Annotation, len(s.byPage[p.ID]))
	copy(res, s.byPage[p.ID])
	for i := range res {
		res[i].Width = res[i].BBox.Width()
		res[i].Height = res[i].BBox.Height()
	}
	return res, nil
}

func (s *stubAnns) Unlinked(_ context.Context) (map[int]string, error) {
	return nil, nil
}

// stubDetector returns canned predictions.
type stubDetector struct {
	preds []detect.Prediction
	err   error
}

func (d *stubDetector) Detect(
	_ context.Context, _ []byte, pageKey string,
) ([]detect.Prediction, error) {
	if d.err != nil {
		return nil, d.err
	}
	res := make([]detect.Prediction, len(d.preds))
	copy(res, d.preds)
	for i := range res {
		res[i].FileName = pageKey
	}
	return res, nil
}

func (d *stubDetector) Healthy(_ context.Context) error { return d.err }

func testServer(det *stubDetector) (*Server, *stubPages, *stubAnns) {
	cfg := config.New()
	pages := newStubPages()
	anns := newStubAnns(pages)
	log := logger.NewWithWriter(cfg.Log, io.Discard)
	return New(cfg, pages, anns, det, log), pages, anns
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var res map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func TestSegment(t *testing.T) {
	det := &stubDetector{preds: []detect.Prediction{
		{ImageID: 1, CategoryID: 6,
			BBox: schema.NewBBox([]float64{0, 0, 100, 100})},
	}}
	srv, _, _ := testServer(det)
	h := srv.Handler()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "1897_page007.jpg")
	require.NoError(t, err)
	part.Write([]byte("fake image"))
	require.NoError(t, writer.WriteField("mode", "database"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/segment", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	res := decodeBody(t, w)
	assert.Equal(t, "Database Mode - processed.", res["message"])

	preds := res["predictions"].([]any)
	require.Len(t, preds, 1)
	pred := preds[0].(map[string]any)
	// The canonical page name is attached to every prediction.
	assert.Equal(t, "1897_page007", pred["file_name"])
}

func TestSegmentNoFile(t *testing.T) {
	srv, _, _ := testServer(&stubDetector{})
	h := srv.Handler()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("mode", "upload_only"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/segment", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	res := decodeBody(t, w)
	assert.NotEmpty(t, res["error"])
}

func TestSegmentDetectorDown(t *testing.T) {
	srv, _, _ := testServer(&stubDetector{err: errors.New("down")})
	h := srv.Handler()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("file", "page.jpg")
	part.Write([]byte("x"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/segment", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	res := decodeBody(t, w)
	// Structured message, not the backend error text.
	assert.Equal(t, "Inference error", res["error"])
}

func TestSave(t *testing.T) {
	srv, pages, anns := testServer(&stubDetector{})
	h := srv.Handler()

	w := postJSON(t, h, "/save", map[string]any{
		"file_name": "1897_page007.jpg",
		"annotations": []map[string]any{
			{"category_id": 6, "bbox": []float64{10, 20, 110, 220},
				"width": 640.0, "height": 480.0, "percent_page": 0.25},
			{"category_id": 0, "bbox": []float64{0, 0, 50, 50}},
		},
	})

	require.Equal(t, http.StatusCreated, w.Code)
	res := decodeBody(t, w)
	assert.Equal(t, float64(2), res["saved"])

	// The page was auto-created under its canonical name.
	p, err := pages.ByKey(context.Background(), "1897_page007")
	require.NoError(t, err)
	require.NotNil(t, p)

	got := anns.byPage[p.ID]
	require.Len(t, got, 2)
	// Declared size wins on the write path.
	assert.InDelta(t, 640, got[0].Width, 1e-9)
	assert.InDelta(t, 0.25, got[0].PercentPage, 1e-9)
	// Without declared size the bbox decides.
	assert.InDelta(t, 50, got[1].Width, 1e-9)
	assert.Equal(t, "1897_page007", got[1].FileName)
}

func TestSaveStoreFailure(t *testing.T) {
	srv, pages, anns := testServer(&stubDetector{})
	anns.insertErr = errors.New("connection reset")
	h := srv.Handler()

	w := postJSON(t, h, "/save", map[string]any{
		"file_name": "1897_page007.jpg",
		"annotations": []map[string]any{
			{"category_id": 6, "bbox": []float64{10, 20, 110, 220}},
			{"category_id": 0, "bbox": []float64{0, 0, 50, 50}},
		},
	})

	require.Equal(t, http.StatusInternalServerError, w.Code)
	res := decodeBody(t, w)
	// All-or-nothing: nothing committed, and the outcome says so.
	assert.Equal(t, float64(0), res["saved"])
	assert.Equal(t, float64(2), res["requested"])

	p, err := pages.ByKey(context.Background(), "1897_page007")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Empty(t, anns.byPage[p.ID])
}

func TestSaveUnknownCategory(t *testing.T) {
	srv, _, anns := testServer(&stubDetector{})
	h := srv.Handler()

	w := postJSON(t, h, "/save", map[string]any{
		"file_name": "1897_page007.jpg",
		"annotations": []map[string]any{
			{"category_id": 0, "bbox": []float64{0, 0, 50, 50}},
			{"category_id": 42, "bbox": []float64{10, 20, 110, 220}},
		},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	res := decodeBody(t, w)
	assert.Contains(t, res["error"], "category_id 42")
	assert.Empty(t, anns.byPage)
}

func TestSaveMissingFields(t *testing.T) {
	srv, _, _ := testServer(&stubDetector{})
	h := srv.Handler()

	w := postJSON(t, h, "/save", map[string]any{
		"file_name": "page.jpg",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaveAll(t *testing.T) {
	srv, pages, _ := testServer(&stubDetector{})
	h := srv.Handler()

	w := postJSON(t, h, "/save_all", map[string]any{
		"images": []map[string]any{
			{"file_name": "1897_page007", "width": 2000, "height": 2800,
				"year": "1897", "nr": "7"},
		},
		"annotations": []map[string]any{
			{"category_id": 6, "bbox": []float64{0, 0, 100, 100},
				"file_name": "1897_page007", "size": []float64{100, 100}},
			{"category_id": 1, "bbox": []float64{0, 0, 10, 10},
				"file_name": "unknown_page"},
		},
	})

	require.Equal(t, http.StatusOK, w.Code)
	res := decodeBody(t, w)
	assert.Equal(t, float64(1), res["pages"])
	// The annotation naming an unknown page is silently dropped.
	assert.Equal(t, float64(1), res["inserted"])

	p, err := pages.ByKey(context.Background(), "1897_page007")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 2000, p.Width)
	assert.Equal(t, "1897", p.Year)
}

func TestSaveAllRawFileNames(t *testing.T) {
	srv, pages, _ := testServer(&stubDetector{})
	h := srv.Handler()

	// Pages arrive with the upload name, annotations with the
	// canonical one. Both must land on the same page record.
	w := postJSON(t, h, "/save_all", map[string]any{
		"images": []map[string]any{
			{"file_name": "p1.jpg", "width": 200, "height": 400},
		},
		"annotations": []map[string]any{
			{"category_id": 6, "bbox": []float64{10, 20, 110, 220},
				"file_name": "p1"},
		},
	})

	require.Equal(t, http.StatusOK, w.Code)
	res := decodeBody(t, w)
	assert.Equal(t, float64(1), res["inserted"])

	p, err := pages.ByKey(context.Background(), "p1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 200, p.Width)

	gt := postJSON(t, h, "/ground_truth", map[string]any{
		"file_name": "p1.jpg",
	})
	require.Equal(t, http.StatusOK, gt.Code)
	boxes := decodeBody(t, gt)["ground_truth_boxes"].([]any)
	require.Len(t, boxes, 1)
	box := boxes[0].(map[string]any)
	assert.Equal(t, float64(10), box["x"])
	assert.Equal(t, float64(100), box["width"])
}

func TestSaveAllNeedsBoth(t *testing.T) {
	srv, _, _ := testServer(&stubDetector{})
	h := srv.Handler()

	w := postJSON(t, h, "/save_all", map[string]any{
		"images": []map[string]any{{"file_name": "p"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGroundTruth(t *testing.T) {
	srv, pages, anns := testServer(&stubDetector{})
	h := srv.Handler()

	ctx := context.Background()
	pageID, err := pages.GetOrCreate(ctx, "1897_page007")
	require.NoError(t, err)

	declared := [2]float64{640, 480}
	percent := 0.25
	_, err = anns.Insert(ctx, pageID, store.AnnotationInput{
		CategoryID:  6,
		BBox:        schema.NewBBox([]float64{10, 20, 110, 220}),
		FileName:    "1897_page007/anzeige_01",
		Size:        &declared,
		PercentPage: &percent,
	})
	require.NoError(t, err)

	w := postJSON(t, h, "/ground_truth", map[string]any{
		"file_name": "1897_page007.jpg",
	})

	require.Equal(t, http.StatusOK, w.Code)
	res := decodeBody(t, w)
	boxes := res["ground_truth_boxes"].([]any)
	require.Len(t, boxes, 1)

	box := boxes[0].(map[string]any)
	assert.Equal(t, "gt-0", box["id"])
	assert.Equal(t, float64(6), box["category_id"])
	assert.Equal(t, float64(10), box["x"])
	assert.Equal(t, float64(20), box["y"])
	// Dimensions come from the stored bbox, not the declared size.
	assert.Equal(t, float64(100), box["width"])
	assert.Equal(t, float64(200), box["height"])
	assert.Equal(t, true, box["isGroundTruth"])
}

func TestGroundTruthEmptyPage(t *testing.T) {
	srv, _, _ := testServer(&stubDetector{})
	h := srv.Handler()

	w := postJSON(t, h, "/ground_truth", map[string]any{
		"file_name": "never_seen",
	})

	require.Equal(t, http.StatusOK, w.Code)
	res := decodeBody(t, w)
	assert.Empty(t, res["ground_truth_boxes"])
}

func TestHealth(t *testing.T) {
	srv, _, _ := testServer(&stubDetector{})
	h := srv.Handler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	res := decodeBody(t, w)
	assert.Equal(t, "ok", res["status"])
	assert.Equal(t, "ok", res["detector"])
}

func TestCORSPreflight(t *testing.T) {
	srv, _, _ := testServer(&stubDetector{})
	h := srv.Handler()

	req := httptest.NewRequest(http.MethodOptions, "/save", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000",
		w.Header().Get("Access-Control-Allow-Origin"))
}
