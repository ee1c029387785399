package models

// Post is a blog post as reported by the remote service.
type Post struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	AuthorID  int64  `json:"author_id"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// PostPage is one page of a post listing. Limit and Offset echo the
// values the caller asked for; Total is the size of the full result
// set on the server.
type PostPage struct {
	Posts  []Post `json:"posts"`
	Total  int64  `json:"total"`
	Limit  int64  `json:"limit"`
	Offset int64  `json:"offset"`
}
