package query

import (
	"net/url"
	"strconv"
)

// ---------- Paginación por páginas (la que entiende el motor) ----------

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// PagePagination es page/per_page ya acotados.
type PagePagination struct {
	Page    int
	PerPage int
}

// NewPagePagination aplica los valores por defecto (nil) y acota: page >= 1 y
// per_page en [1, MaxPerPage].
func NewPagePagination(page, perPage *int) PagePagination {
	p := PagePagination{Page: 1, PerPage: DefaultPerPage}
	if page != nil {
		p.Page = *page
	}
	if perPage != nil {
		p.PerPage = *perPage
	}

	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.PerPage < 1:
		p.PerPage = 1
	case p.PerPage > MaxPerPage:
		p.PerPage = MaxPerPage
	}
	return p
}

// Apply escribe page y per_page en los parámetros de la URL.
func (p PagePagination) Apply(v url.Values) {
	v.Set("page", strconv.Itoa(p.Page))
	v.Set("per_page", strconv.Itoa(p.PerPage))
}

// PageMeta son los metadatos de paginación que devuelve el motor. Cero significa "no hay".
type PageMeta struct {
	CurrentPage int `json:"current_page"`
	NextPage    int `json:"next_page,omitempty"`
	PrevPage    int `json:"prev_page,omitempty"`
	TotalPages  int `json:"total_pages"`
	TotalCount  int `json:"total_count"`
}

// SetIfNotEmpty añade un filtro sólo si tiene valor.
func SetIfNotEmpty(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
