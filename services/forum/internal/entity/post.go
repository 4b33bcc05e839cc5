package entity

// Post is the read-only view of a forum post needed by comment flows.
type Post struct {
	ID       int64
	Title    string
	AuthorID int64
}
