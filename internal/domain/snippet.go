// Package domain contains the snippet model and its wire shapes.
package domain

// Snippet is a stored code sample. Only Upvotes changes after creation.
type Snippet struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Code     string   `json:"code"`
	Language string   `json:"language"`
	Tags     []string `json:"tags"`
	Upvotes  int64    `json:"upvotes"`
}

// CreateSnippetRequestDTO is the body of POST /snippets.
// Pointers distinguish a missing field from an empty string.
type CreateSnippetRequestDTO struct {
	Title    *string  `json:"title" binding:"required"`
	Code     *string  `json:"code" binding:"required"`
	Language *string  `json:"language" binding:"required"`
	Tags     []string `json:"tags"`
}

// SearchQueryDTO binds the optional filters of GET /snippets.
type SearchQueryDTO struct {
	Query    string `form:"query"`
	Language string `form:"language"`
	Tag      string `form:"tag"`
}

// SnippetResponseDTO is the JSON form of a snippet. Tags is never null.
type SnippetResponseDTO struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Code     string   `json:"code"`
	Language string   `json:"language"`
	Tags     []string `json:"tags"`
	Upvotes  int64    `json:"upvotes"`
}

// NewSnippetResponse converts a Snippet for the wire.
func NewSnippetResponse(s Snippet) SnippetResponseDTO {
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	return SnippetResponseDTO{
		ID:       s.ID,
		Title:    s.Title,
		Code:     s.Code,
		Language: s.Language,
		Tags:     tags,
		Upvotes:  s.Upvotes,
	}
}

// NewSnippetListResponse converts many snippets; the result is never nil.
func NewSnippetListResponse(items []Snippet) []SnippetResponseDTO {
	out := make([]SnippetResponseDTO, 0, len(items))
	for _, s := range items {
		out = append(out, NewSnippetResponse(s))
	}
	return out
}
