package schema

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// BBox is a bounding box in absolute pixel coordinates [x1, y1, x2, y2].
// Boxes with x2 < x1 or y2 < y1 are never rejected; derived dimensions
// clamp to zero instead.
type BBox [4]float64

// NewBBox builds a box from a coordinate slice. Slices that are not
// exactly four numbers long yield the zero box.
func NewBBox(coords []float64) BBox {
	var b BBox
	if len(coords) == 4 {
		copy(b[:], coords)
	}
	return b
}

// Width returns x2-x1 clamped to zero.
func (b BBox) Width() float64 {
	if b[2] <= b[0] {
		return 0
	}
	return b[2] - b[0]
}

// Height returns y2-y1 clamped to zero.
func (b BBox) Height() float64 {
	if b[3] <= b[1] {
		return 0
	}
	return b[3] - b[1]
}

// Area returns the clamped box area in pixels.
func (b BBox) Area() float64 {
	return b.Width() * b.Height()
}

// Value serializes the box as a JSON array for JSONB storage.
func (b BBox) Value() (driver.Value, error) {
	return json.Marshal(b[:])
}

// Scan restores a box from its JSONB representation.
func (b *BBox) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*b = BBox{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into BBox", src)
	}

	var coords []float64
	if err := json.Unmarshal(data, &coords); err != nil {
		return fmt.Errorf("cannot decode bbox %q: %w", data, err)
	}
	*b = NewBBox(coords)
	return nil
}
