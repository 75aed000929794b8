package request

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
	// MaxPage keeps (Page-1)*PerPage far from int overflow.
	MaxPage        = 100000
)

// PaginatedRequest is a 1-based page window. Out of range values are clamped.
type PaginatedRequest struct {
	Page    int `json:"page" validate:"min=1"`
	PerPage int `json:"per_page" validate:"min=1,max=100"`
}

func (p PaginatedRequest) Limit() int {
	switch {
	case p.PerPage < 1:
		return DefaultPerPage
	case p.PerPage > MaxPerPage:
		return MaxPerPage
	}
	return p.PerPage
}

func (p PaginatedRequest) Offset() int {
	page := p.Page
	switch {
	case page < 1:
		return 0
	case page > MaxPage:
		page = MaxPage
	}
	return (page - 1) * p.Limit()
}
