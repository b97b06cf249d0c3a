package ogsite

// SearchIndex is the document served at /search-index.json for client-side
// search.
type SearchIndex struct {
	Documents []SearchDocument `json:"documents"`
}

// SearchDocument is one post in the search index.
type SearchDocument struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Author      string   `json:"author"`
	Date        string   `json:"date"`
	Topic       string   `json:"topic"`
	Tags        []string `json:"tags"`
}

// isoMillis matches JavaScript's Date.toISOString.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// NewSearchIndex builds the search index of posts, keeping their order.
func NewSearchIndex(posts []BlogPost) SearchIndex {
	docs := make([]SearchDocument, 0, len(posts))
	for _, p := range posts {
		tags := p.Tags
		if tags == nil {
			tags = []string{}
		}
		docs = append(docs, SearchDocument{
			Slug:        p.Slug,
			Title:       p.Title,
			Description: p.Description,
			Author:      p.Author,
			Date:        p.Date.UTC().Format(isoMillis),
			Topic:       p.Topic,
			Tags:        tags,
		})
	}
	return SearchIndex{Documents: docs}
}
