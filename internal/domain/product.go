package domain

import "time"

// RawDocument is a single order-confirmation message handed over by a message source.
type RawDocument struct {
	ID         string
	Sender     string
	Subject    string
	ReceivedAt time.Time
	// Body holds the markup of the message; empty means the message had no usable body.
	Body string
}

// HasBody reports whether extraction has anything to work with.
func (d RawDocument) HasBody() bool {
	return d.Body != ""
}

// Candidate is a provisional product record extracted from one document.
type Candidate struct {
	Name     string
	ImageURL string
	Price    string
	Brand    string
	Size     string
	Color    string
	Category string
	Tags     []string
	Score    int
}

// ReviewItem is what leaves the extraction core for human review.
type ReviewItem struct {
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
	Brand    string `json:"brand,omitempty"`
	Size     string `json:"size,omitempty"`
	Color    string `json:"color,omitempty"`
}

// ReviewItem drops score and tags.
func (c Candidate) ReviewItem() ReviewItem {
	return ReviewItem{
		Name:     c.Name,
		ImageURL: c.ImageURL,
		Brand:    c.Brand,
		Size:     c.Size,
		Color:    c.Color,
	}
}

// RankedBatch is the deduplicated, score-ordered result of one import run.
// No two entries share an ImageURL.
type RankedBatch struct {
	Candidates []Candidate
}

// Len returns the number of ranked candidates.
func (b RankedBatch) Len() int {
	return len(b.Candidates)
}

// ReviewItems projects the batch for the caller, preserving rank order.
func (b RankedBatch) ReviewItems() []ReviewItem {
	items := make([]ReviewItem, 0, len(b.Candidates))
	for _, c := range b.Candidates {
		items = append(items, c.ReviewItem())
	}
	return items
}
