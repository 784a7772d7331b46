package httpclient

// Case はAPIが返すケース（サポートチケット）。
type Case struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Category    string  `json:"category"`
	Priority    string  `json:"priority"`
	Description string  `json:"description"`
	Resolution  string  `json:"resolution"`
	CreatedAt   string  `json:"created_at"`
	// ResolvedAt は未解決の場合nil。
	ResolvedAt *string `json:"resolved_at"`
}

// Note はAPIが返すノート。
type Note struct {
	ID       int64  `json:"id"`
	Category string `json:"category"`
	Content  string `json:"content"`
}
