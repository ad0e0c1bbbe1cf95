package mailbox

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"WardrobeScanner/internal/domain"
	"WardrobeScanner/internal/ports"
)

// DirectorySource serves .eml files from a directory, oldest first.
type DirectorySource struct {
	dir    string
	logger *slog.Logger
}

var _ ports.MessageSource = (*DirectorySource)(nil)

// NewDirectorySource reads messages from dir.
func NewDirectorySource(dir string, logger *slog.Logger) *DirectorySource {
	return &DirectorySource{dir: dir, logger: logger}
}

// Authenticate checks that the directory is readable.
func (s *DirectorySource) Authenticate(_ context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("mail directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("mail directory %s is not a directory", s.dir)
	}
	return nil
}

// Search returns the messages received within the query range whose subject
// or body mentions one of the keywords. Unparseable files are skipped.
func (s *DirectorySource) Search(ctx context.Context, query ports.SearchQuery) ([]domain.RawDocument, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*.eml"))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.dir, err)
	}
	sort.Strings(paths)

	docs := make([]domain.RawDocument, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		doc, err := s.readFile(path)
		if err != nil {
			s.warn("skipping message", "path", path, "error", err)
			continue
		}
		if !inRange(doc.ReceivedAt, query.Since, query.Until) || !mentionsAny(doc, query.Keywords) {
			continue
		}
		docs = append(docs, doc)
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].ReceivedAt.Before(docs[j].ReceivedAt)
	})
	return docs, nil
}

func (s *DirectorySource) readFile(path string) (domain.RawDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.RawDocument{}, err
	}
	defer f.Close()

	doc, err := ParseMessage(f)
	if err != nil {
		return domain.RawDocument{}, err
	}
	if doc.ID == "" {
		doc.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return doc, nil
}

func (s *DirectorySource) warn(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

func mentionsAny(doc domain.RawDocument, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	text := strings.ToLower(doc.Subject + "\n" + doc.Body)
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
