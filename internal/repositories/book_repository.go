package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"fantasy-book-hub/internal/models"
)

var ErrBookNotFound = errors.New("book not found")

// CreateBookInput carries everything needed to catalogue a book. Author and
// topic names are deduplicated case-insensitively against existing rows.
type CreateBookInput struct {
	Title         string
	CoverImage    string
	YearPublished int
	Synopsis      string
	Authors       []string
	Topics        []string
}

// BookRepository abstracts the book catalogue.
type BookRepository interface {
	CreateBook(ctx context.Context, input CreateBookInput) (models.BookDetail, error)
	ListBooks(ctx context.Context, search string) ([]models.BookDetail, error)
	GetBook(ctx context.Context, bookID int) (models.BookDetail, error)
	DeleteBook(ctx context.Context, bookID int) error
	ListAuthors(ctx context.Context) ([]models.Author, error)
	ListTopics(ctx context.Context) ([]models.Topic, error)
}

// BookRepo is a sqlx implementation of BookRepository.
type BookRepo struct {
	db *sqlx.DB
}

// NewBookRepo constructs a BookRepo.
func NewBookRepo(db *sqlx.DB) *BookRepo {
	return &BookRepo{db: db}
}

// bookRow is the scan target for the aggregated book queries.
type bookRow struct {
	models.Book
	Authors pq.StringArray `db:"authors"`
	Topics  pq.StringArray `db:"topics"`
}

func (row bookRow) toDetail() models.BookDetail {
	return models.BookDetail{
		Book:    row.Book,
		Authors: []string(row.Authors),
		Topics:  []string(row.Topics),
	}
}

const bookSelect = `
    SELECT b.id, b.title, b.cover_image, b.year_published, b.synopsis, b.created_at,
           COALESCE(ARRAY_AGG(DISTINCT a.name) FILTER (WHERE a.name IS NOT NULL), '{}') AS authors,
           COALESCE(ARRAY_AGG(DISTINCT t.name) FILTER (WHERE t.name IS NOT NULL), '{}') AS topics
    FROM books b
    LEFT JOIN book_authors ba ON ba.book_id = b.id
    LEFT JOIN authors a ON a.id = ba.author_id
    LEFT JOIN book_topics bt ON bt.book_id = b.id
    LEFT JOIN topics t ON t.id = bt.topic_id`

// CreateBook inserts the book and links its authors and topics in one
// transaction, so a failure partway through leaves no partial catalogue entry.
func (r *BookRepo) CreateBook(ctx context.Context, input CreateBookInput) (models.BookDetail, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.BookDetail{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var book models.Book
	if err = tx.QueryRowxContext(ctx,
		`INSERT INTO books (title, cover_image, year_published, synopsis)
         VALUES ($1, $2, $3, $4)
         RETURNING id, title, cover_image, year_published, synopsis, created_at`,
		input.Title, input.CoverImage, input.YearPublished, input.Synopsis).
		StructScan(&book); err != nil {
		return models.BookDetail{}, err
	}

	authors, err := linkNames(ctx, tx, book.ID, input.Authors, "authors", "book_authors", "author_id")
	if err != nil {
		return models.BookDetail{}, err
	}
	topics, err := linkNames(ctx, tx, book.ID, input.Topics, "topics", "book_topics", "topic_id")
	if err != nil {
		return models.BookDetail{}, err
	}

	if err = tx.Commit(); err != nil {
		return models.BookDetail{}, err
	}
	return models.BookDetail{Book: book, Authors: authors, Topics: topics}, nil
}

// linkNames resolves each name to an id, inserting missing ones, and links it
// to the book. Matching is case-insensitive and names are deduped.
func linkNames(ctx context.Context, tx *sqlx.Tx, bookID int, names []string, table, joinTable, joinColumn string) ([]string, error) {
	linked := make([]string, 0, len(names))
	seen := map[string]struct{}{}
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		var id int
		var canonical string
		err := tx.QueryRowxContext(ctx,
			`SELECT id, name FROM `+table+` WHERE LOWER(name)=LOWER($1)`, name).Scan(&id, &canonical)
		if errors.Is(err, sql.ErrNoRows) {
			canonical = name
			err = tx.QueryRowxContext(ctx,
				`INSERT INTO `+table+` (name) VALUES ($1) RETURNING id`, name).Scan(&id)
		}
		if err != nil {
			return nil, err
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO `+joinTable+` (book_id, `+joinColumn+`) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			bookID, id); err != nil {
			return nil, err
		}
		linked = append(linked, canonical)
	}
	return linked, nil
}

// ListBooks returns the catalogue, optionally filtered by a case-insensitive
// search over title, author name, and topic name.
func (r *BookRepo) ListBooks(ctx context.Context, search string) ([]models.BookDetail, error) {
	query := bookSelect
	args := []interface{}{}
	if search != "" {
		query += `
    WHERE LOWER(b.title) LIKE $1
       OR EXISTS (SELECT 1 FROM book_authors ba2
                  INNER JOIN authors a2 ON a2.id = ba2.author_id
                  WHERE ba2.book_id = b.id AND LOWER(a2.name) LIKE $1)
       OR EXISTS (SELECT 1 FROM book_topics bt2
                  INNER JOIN topics t2 ON t2.id = bt2.topic_id
                  WHERE bt2.book_id = b.id AND LOWER(t2.name) LIKE $1)`
		args = append(args, "%"+strings.ToLower(search)+"%")
	}
	query += `
    GROUP BY b.id
    ORDER BY b.title`

	var rows []bookRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	books := make([]models.BookDetail, 0, len(rows))
	for _, row := range rows {
		books = append(books, row.toDetail())
	}
	return books, nil
}

// GetBook fetches a single book with its authors and topics.
func (r *BookRepo) GetBook(ctx context.Context, bookID int) (models.BookDetail, error) {
	var row bookRow
	err := r.db.GetContext(ctx, &row, bookSelect+`
    WHERE b.id=$1
    GROUP BY b.id`, bookID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.BookDetail{}, ErrBookNotFound
	}
	if err != nil {
		return models.BookDetail{}, err
	}
	return row.toDetail(), nil
}

// DeleteBook removes the book; reviews, discussions, and join rows cascade.
func (r *BookRepo) DeleteBook(ctx context.Context, bookID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id=$1`, bookID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrBookNotFound
	}
	return nil
}

// ListAuthors returns all authors alphabetically.
func (r *BookRepo) ListAuthors(ctx context.Context) ([]models.Author, error) {
	var authors []models.Author
	err := r.db.SelectContext(ctx, &authors, `SELECT id, name FROM authors ORDER BY name`)
	return authors, err
}

// ListTopics returns all topics alphabetically.
func (r *BookRepo) ListTopics(ctx context.Context) ([]models.Topic, error) {
	var topics []models.Topic
	err := r.db.SelectContext(ctx, &topics, `SELECT id, name FROM topics ORDER BY name`)
	return topics, err
}
