package catalog

import "errors"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Course is a single row of the course catalog. Title and URL are always
// present; the remaining columns are optional and surface as null in JSON
// when missing. Dates are kept as the catalog's original text form.
type Course struct {
	ID                   int64    `json:"id"`
	Title                string   `json:"title"`
	URL                  string   `json:"url"`
	Rating               *float64 `json:"rating"`
	NumReviews           *int64   `json:"num_reviews"`
	NumPublishedLectures *int64   `json:"num_published_lectures"`
	Created              *string  `json:"created"`
	LastUpdateDate       *string  `json:"last_update_date"`
	Duration             *string  `json:"duration"`
	InstructorsID        *string  `json:"instructors_id"`
	Image                *string  `json:"image"`
}
