package models

import "time"

// Author is a named entity deduplicated case-insensitively at ingest.
type Author struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Topic is a named entity deduplicated case-insensitively at ingest.
type Topic struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Book represents a catalogued book.
type Book struct {
	ID            int       `db:"id" json:"id"`
	Title         string    `db:"title" json:"title"`
	CoverImage    string    `db:"cover_image" json:"cover_image"`
	YearPublished int       `db:"year_published" json:"year_published"`
	Synopsis      string    `db:"synopsis" json:"synopsis"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// BookDetail is the response shape for a book with its related names attached.
type BookDetail struct {
	Book
	Authors []string `json:"authors"`
	Topics  []string `json:"topics"`
}
