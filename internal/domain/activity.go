package domain

// Field defaults applied to extracted activities. The completion prompt asks
// for textual defaults already, but model output is never trusted to honor it.
const (
	DefaultTitle = "Unknown Activity"
	DefaultPrice = "Varies"
)

// Activity is a recommended experience returned by the pipeline. All fields
// are plain display strings; prices and ratings come from web context as-is.
type Activity struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Duration    string `json:"duration"`
	Rating      string `json:"rating"`
	Location    string `json:"location"`
	Category    string `json:"category"`
	ImageURL    string `json:"image_url"`
	Link        string `json:"link"`
}

// ApplyDefaults fills missing fields so no activity is ever exposed with an
// empty title or price. Idempotent.
func (a *Activity) ApplyDefaults() {
	if a.Title == "" {
		a.Title = DefaultTitle
	}
	if a.Price == "" {
		a.Price = DefaultPrice
	}
}
