// Package category defines the closed set of region classes produced by
// the layout detection model. The ordinal values are part of the stored
// data and of the detector's wire format; they must never be reordered.
package category

// ID is the ordinal class label of a detected page region.
type ID int

const (
	Photograph ID = iota
	Illustration
	Map
	ComicCartoon
	EditorialCartoon
	Headline
	Advertisement
)

// Count is the number of classes the detection model is trained on.
const Count = 7

var names = [Count]string{
	"Photograph",
	"Illustration",
	"Map",
	"Comic/Cartoon",
	"Editorial Cartoon",
	"Headline",
	"Advertisement",
}

// String returns the human-readable class name, or "Unknown" for values
// outside the closed set.
func (id ID) String() string {
	if !Valid(int(id)) {
		return "Unknown"
	}
	return names[id]
}

// Valid reports whether an integer is a member of the closed category set.
func Valid(i int) bool {
	return i >= 0 && i < Count
}

// All returns every category in ordinal order.
func All() []ID {
	res := make([]ID, Count)
	for i := range res {
		res[i] = ID(i)
	}
	return res
}
