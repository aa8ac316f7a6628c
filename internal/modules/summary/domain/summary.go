package domain

// Request carries the material to summarize.
type Request struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Response carries the generated, length-capped summary.
type Response struct {
	Summary string `json:"summary"`
}
