package pagination

// DefaultLimit is the standard page size when a limit is not provided.
const DefaultLimit = 20

// MaxLimit caps how many rows any listing query can request.
const MaxLimit = 100

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Meta describes the page that was returned alongside listing payloads.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// Normalize clamps the page and limit to usable values.
func (p Params) Normalize() Params {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Offset returns the row offset for the normalized page.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

// NewMeta builds page metadata for the given total row count.
func NewMeta(p Params, total int64) Meta {
	n := p.Normalize()
	pages := total / int64(n.Limit)
	if total%int64(n.Limit) != 0 {
		pages++
	}
	if pages == 0 {
		pages = 1
	}
	return Meta{
		Page:       n.Page,
		Limit:      n.Limit,
		Total:      total,
		TotalPages: pages,
	}
}
