package iopopulate

import (
	"encoding/json"
	"os"

	"github.com/seiten/pagedb/pkg/ident"
	"github.com/seiten/pagedb/pkg/schema"
	"github.com/seiten/pagedb/pkg/store"
)

// pageEntry is one full-page record in a COCO-style "images" array.
type pageEntry struct {
	FileName string `json:"file_name"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Year     string `json:"year"`
	Nr       string `json:"nr"`
}

// annotationEntry is one labeled region in a COCO-style "annotations"
// array. Width, height and percent_page are optional declared values
// from the labeling pipeline; bbox is authoritative when they are
// absent.
type annotationEntry struct {
	CategoryID  int       `json:"category_id"`
	BBox        []float64 `json:"bbox"`
	FileName    string    `json:"file_name"`
	Width       *float64  `json:"width,omitempty"`
	Height      *float64  `json:"height,omitempty"`
	PercentPage *float64  `json:"percent_page,omitempty"`
}

// readCOCOPages parses a COCO-style JSON file and returns its pages
// with canonical file names.
func readCOCOPages(path string) ([]schema.Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc struct {
		Images []pageEntry `json:"images"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	res := make([]schema.Page, 0, len(doc.Images))
	for _, e := range doc.Images {
		res = append(res, schema.Page{
			FileName: ident.PageKey(e.FileName),
			Width:    e.Width,
			Height:   e.Height,
			Year:     e.Year,
			Nr:       e.Nr,
		})
	}
	return res, nil
}

// readCOCOAnnotations parses a COCO-style JSON file and returns its
// annotations as store inputs. File names are kept raw; linking to
// pages happens after import.
func readCOCOAnnotations(path string) ([]store.AnnotationInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc struct {
		Annotations []annotationEntry `json:"annotations"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	res := make([]store.AnnotationInput, 0, len(doc.Annotations))
	for _, e := range doc.Annotations {
		res = append(res, e.toInput())
	}
	return res, nil
}

func (e annotationEntry) toInput() store.AnnotationInput {
	in := store.AnnotationInput{
		CategoryID:  e.CategoryID,
		BBox:        schema.NewBBox(e.BBox),
		FileName:    e.FileName,
		PercentPage: e.PercentPage,
	}
	if e.Width != nil && e.Height != nil {
		in.Size = &[2]float64{*e.Width, *e.Height}
	}
	return in
}
