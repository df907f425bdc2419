package store_test

import (
	"testing"

	"github.com/seiten/pagedb/pkg/schema"
	"github.com/seiten/pagedb/pkg/store"
	"github.com/stretchr/testify/assert"
)

func TestDimensionsDerived(t *testing.T) {
	in := store.AnnotationInput{
		BBox: schema.BBox{10, 20, 110, 220},
	}
	w, h := in.Dimensions()
	assert.InDelta(t, 100, w, 1e-9)
	assert.InDelta(t, 200, h, 1e-9)
}

func TestDimensionsDeclaredWins(t *testing.T) {
	// A declared size is stored verbatim, even when it disagrees with
	// the bbox-derived values.
	in := store.AnnotationInput{
		BBox: schema.BBox{10, 20, 110, 220},
		Size: &[2]float64{50, 60},
	}
	w, h := in.Dimensions()
	assert.InDelta(t, 50, w, 1e-9)
	assert.InDelta(t, 60, h, 1e-9)
}

func TestDimensionsClampDegenerate(t *testing.T) {
	in := store.AnnotationInput{
		BBox: schema.BBox{100, 100, 40, 20},
	}
	w, h := in.Dimensions()
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestPercent(t *testing.T) {
	p := 0.25
	in := store.AnnotationInput{PercentPage: &p}
	assert.InDelta(t, 0.25, in.Percent(), 1e-9)

	in.PercentPage = nil
	assert.Zero(t, in.Percent())
}
