package db

// Case はcasesテーブルの1行（サポートチケット）。
type Case struct {
	// ID は呼び出し元が採番する一意識別子。
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Category    string  `json:"category"`
	Priority    string  `json:"priority"`
	Description string  `json:"description"`
	Resolution  string  `json:"resolution"`
	CreatedAt   string  `json:"created_at"`
	ResolvedAt  *string `json:"resolved_at"`
}

// Note はnotesテーブルの1行。
type Note struct {
	ID       int64  `json:"id"`
	Category string `json:"category"`
	Content  string `json:"content"`
}
