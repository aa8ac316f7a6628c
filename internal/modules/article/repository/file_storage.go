package repository

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reshetovitsme/rss-digest-feed/internal/modules/article/domain"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// FileStorage implements article.Repository using the file system: one
// JSON file per article, named after the hash of its URL so the URL
// uniqueness invariant holds by construction.
type FileStorage struct {
	basePath string
	mu       sync.RWMutex
}

// NewFileStorage creates a new file-based article repository
func NewFileStorage(basePath string) (Repository, error) {
	articlePath := filepath.Join(basePath, "articles")
	if err := os.MkdirAll(articlePath, 0755); err != nil {
		return nil, oops.With("base_path", basePath, "context", "failed to create articles directory").Wrap(err)
	}

	return &FileStorage{basePath: articlePath}, nil
}

func (s *FileStorage) GetByURL(url string) (*domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.articlePath(url))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, oops.With("url", url, "context", "failed to read article").Wrap(err)
	}

	var article domain.Article
	if err := json.Unmarshal(data, &article); err != nil {
		return nil, oops.With("url", url, "context", "failed to unmarshal article").Wrap(err)
	}

	return &article, nil
}

func (s *FileStorage) Save(article *domain.Article) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if article.ID == "" {
		article.ID = uuid.NewString()
	}
	if article.CreatedAt.IsZero() {
		article.CreatedAt = now
	}
	article.UpdatedAt = now

	data, err := json.MarshalIndent(article, "", "  ")
	if err != nil {
		return "", oops.With("url", article.URL, "context", "failed to marshal article").Wrap(err)
	}

	if err := os.WriteFile(s.articlePath(article.URL), data, 0644); err != nil {
		return "", oops.With("url", article.URL, "context", "failed to write article").Wrap(err)
	}

	return article.ID, nil
}

func (s *FileStorage) List(filter domain.Filter) (*domain.Page, error) {
	s.mu.RLock()
	articles, err := s.readAll()
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	if filter.Source != "" && filter.Source != "all" {
		articles = lo.Filter(articles, func(a *domain.Article, _ int) bool {
			return a.FeedSource == filter.Source
		})
	}

	// Newest first; published dates are canonical ISO-8601 so the
	// lexicographic order is the chronological order.
	sort.Slice(articles, func(i, j int) bool {
		return articles[i].PublishedDate > articles[j].PublishedDate
	})

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 || limit > maxPageLimit {
		limit = defaultPageLimit
	}

	total := len(articles)
	totalPages := (total + limit - 1) / limit

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &domain.Page{
		Data:       articles[start:end],
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

func (s *FileStorage) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return 0, oops.With("base_path", s.basePath, "context", "failed to read articles directory").Wrap(err)
	}

	count := 0
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			count++
		}
	}
	return count, nil
}

func (s *FileStorage) DeleteOlderThan(cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	articles, err := s.readAll()
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, article := range articles {
		if article.CreatedAt.Before(cutoff) {
			if err := os.Remove(s.articlePath(article.URL)); err == nil {
				deleted++
			}
		}
	}
	return deleted, nil
}

// readAll loads every stored article, skipping unreadable files the
// same way listing skips them elsewhere. Callers hold the lock.
func (s *FileStorage) readAll() ([]*domain.Article, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, oops.With("base_path", s.basePath, "context", "failed to read articles directory").Wrap(err)
	}

	articles := lo.FilterMap(entries, func(entry os.DirEntry, _ int) (*domain.Article, bool) {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			return nil, false
		}

		data, err := os.ReadFile(filepath.Join(s.basePath, entry.Name()))
		if err != nil {
			return nil, false
		}

		var article domain.Article
		if err := json.Unmarshal(data, &article); err != nil {
			return nil, false
		}

		return &article, true
	})

	return articles, nil
}

func (s *FileStorage) articlePath(url string) string {
	sum := sha256.Sum256([]byte(url))
	return filepath.Join(s.basePath, hex.EncodeToString(sum[:])+".json")
}
