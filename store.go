package ogsite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store wraps a SQLite database holding the published posts. Posts are
// authored as files; the store is a query index rebuilt by ReplacePosts.
type Store struct {
	db *sql.DB
}

const postColumns = `slug, title, description, author, date, topic, tags, image, share_message, content, read_time`

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets readers proceed during a reload; busy_timeout makes writers
	// wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		db.Close()
		return nil, err
	}
	if path == ":memory:" {
		// every connection would get its own empty database
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(4)
		db.SetMaxIdleConns(4)
	}
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    slug TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    author TEXT NOT NULL,
    date TEXT NOT NULL,
    topic TEXT NOT NULL,
    tags TEXT NOT NULL,
    image TEXT NOT NULL DEFAULT '',
    share_message TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL,
    read_time INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS posts_date ON posts (date DESC);
`)
	return err
}

// ReplacePosts swaps the whole post set in one transaction. Readers see
// either the old set or the new one.
func (s *Store) ReplacePosts(ctx context.Context, posts []BlogPost) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM posts`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO posts (`+postColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, p := range posts {
		if _, err := stmt.ExecContext(ctx,
			p.Slug, p.Title, p.Description, p.Author, p.Date.UTC().Format(time.RFC3339),
			strings.ToLower(strings.TrimSpace(p.Topic)), joinTags(p.Tags), p.Image, p.ShareMessage,
			p.Content, p.ReadTime,
		); err != nil {
			return fmt.Errorf("insert %s: %w", p.Slug, err)
		}
	}
	return tx.Commit()
}

// ListPosts returns posts ordered by date descending. If topic is
// non-empty, results are filtered to that topic.
func (s *Store) ListPosts(topic string) ([]BlogPost, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if topic == "" {
		rows, err = s.db.Query(`SELECT ` + postColumns + ` FROM posts ORDER BY date DESC, slug`)
	} else {
		rows, err = s.db.Query(`SELECT `+postColumns+` FROM posts WHERE topic = ? ORDER BY date DESC, slug`, normalizeTag(topic))
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []BlogPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ListTopics returns the sorted, distinct topics of all posts.
func (s *Store) ListTopics() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT topic FROM posts WHERE topic != '' ORDER BY topic`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var topics []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// ListTags returns a sorted, deduplicated slice of all tags.
func (s *Store) ListTags() ([]string, error) {
	rows, err := s.db.Query(`SELECT tags FROM posts`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, err
		}
		for _, t := range ParseTags(tags) {
			set[t] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	result := make([]string, 0, len(set))
	for t := range set {
		result = append(result, t)
	}
	sort.Strings(result)
	return result, nil
}

// GetPost returns a single post by slug, or ErrNotFound.
func (s *Store) GetPost(slug string) (BlogPost, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE slug = ?`, slug)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return BlogPost{}, ErrNotFound
	}
	return p, err
}

// Count returns the number of stored posts.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (BlogPost, error) {
	var (
		p          BlogPost
		date, tags string
	)
	if err := row.Scan(&p.Slug, &p.Title, &p.Description, &p.Author, &date, &p.Topic,
		&tags, &p.Image, &p.ShareMessage, &p.Content, &p.ReadTime); err != nil {
		return BlogPost{}, err
	}
	t, err := time.Parse(time.RFC3339, date)
	if err != nil {
		return BlogPost{}, fmt.Errorf("post %s: bad date %q: %w", p.Slug, date, err)
	}
	p.Date = t
	p.Tags = ParseTags(tags)
	p.Link = PostPath(p.Slug)
	return p, nil
}

// joinTags stores tags as ",a,b," so a single tag can be matched with instr.
func joinTags(tags []string) string {
	normalized := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = normalizeTag(t); t != "" {
			normalized = append(normalized, t)
		}
	}
	if len(normalized) == 0 {
		return ""
	}
	return "," + strings.Join(normalized, ",") + ","
}

// ParseTags splits a comma-delimited tag string (e.g. ",go,web,") into a slice.
func ParseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
