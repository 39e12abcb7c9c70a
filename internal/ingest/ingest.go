// Package ingest loads documentation and past-project corpora from disk
// into the search engine: markdown files with TOML front matter for the
// docs index, a devpost-style JSON file for the projects index. Watch mode
// reingests files as they change.
package ingest

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/akontos/hackmate/internal/api"
	"github.com/akontos/hackmate/internal/search"
	"github.com/akontos/hackmate/internal/util"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// frontMatter is the optional TOML block between "+++" fences at the top of
// a markdown document.
type frontMatter struct {
	Title  string `toml:"title"`
	URL    string `toml:"url"`
	Origin string `toml:"origin"`
}

// project is one entry of the projects JSON corpus.
type project struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Tags        []string `json:"tags"`
	Year        string   `json:"year"`
}

// Ingester feeds documents into the search engine.
type Ingester struct {
	engine *search.Engine
}

func New(engine *search.Engine) *Ingester {
	util.Assert(engine != nil, "ingest.New nil engine")
	return &Ingester{engine: engine}
}

func splitFrontMatter(raw []byte) (frontMatter, string, error) {
	text := string(raw)
	var fm frontMatter

	if !strings.HasPrefix(text, "+++") {
		return fm, text, nil
	}

	rest := text[3:]
	end := strings.Index(rest, "+++")
	if end < 0 {
		return fm, text, nil
	}

	if err := toml.Unmarshal([]byte(rest[:end]), &fm); err != nil {
		return fm, "", errors.Wrap(err, "decode front matter")
	}
	return fm, strings.TrimSpace(rest[end+3:]), nil
}

// docID derives a stable document ID from the filename.
func docID(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.ReplaceAll(base, " ", "-")
}

func titleFromBody(body, fallback string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(line[2:])
		}
	}
	return fallback
}

// IngestDoc indexes one markdown file into the docs index.
func (ing *Ingester) IngestDoc(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}

	fm, body, err := splitFrontMatter(raw)
	if err != nil {
		return errors.Wrapf(err, "parse %s", path)
	}

	id := docID(path)
	if err := util.ValidateDocID(id); err != nil {
		return errors.Wrapf(err, "derived from %s", path)
	}

	title := fm.Title
	if title == "" {
		title = titleFromBody(body, id)
	}
	origin := fm.Origin
	if origin == "" {
		origin = "docs"
	}

	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(err, "stat %s", path)
	}

	return ing.engine.Index(ctx, search.Document{
		ID:        "doc_" + id,
		Index:     api.IndexDocs,
		Title:     title,
		Content:   body,
		URL:       fm.URL,
		Origin:    origin,
		CreatedAt: info.ModTime(),
	})
}

// IngestDocsDir indexes every markdown file under dir. Individual file
// failures are logged and skipped.
func (ing *Ingester) IngestDocsDir(ctx context.Context, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, errors.Wrapf(err, "read docs dir %s", dir)
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := ing.IngestDoc(ctx, path); err != nil {
			slog.Warn("document ingestion failed", "path", path, "error", err)
			continue
		}
		count++
	}
	slog.Info("docs ingested", "dir", dir, "count", count)
	return count, nil
}

// IngestProjects indexes a projects JSON corpus into the projects index.
func (ing *Ingester) IngestProjects(ctx context.Context, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, errors.Wrapf(err, "read %s", path)
	}

	var projects []project
	if err := json.Unmarshal(raw, &projects); err != nil {
		return 0, errors.Wrapf(err, "decode %s", path)
	}

	count := 0
	for _, p := range projects {
		if p.Name == "" {
			continue
		}
		metadata := map[string]string{}
		if len(p.Tags) > 0 {
			metadata["tags"] = strings.Join(p.Tags, " ")
		}
		if p.Year != "" {
			metadata["year"] = p.Year
		}
		doc := search.Document{
			ID:        "project_" + docID(strings.ToLower(p.Name)),
			Index:     api.IndexProjects,
			Title:     p.Name,
			Content:   p.Description,
			URL:       p.URL,
			Origin:    "devpost",
			Metadata:  metadata,
			CreatedAt: time.Now().UTC(),
		}
		if err := ing.engine.Index(ctx, doc); err != nil {
			slog.Warn("project ingestion failed", "name", p.Name, "error", err)
			continue
		}
		count++
	}
	slog.Info("projects ingested", "path", path, "count", count)
	return count, nil
}

// Watch reingests markdown files under dir as they are written. Blocks
// until ctx is done.
func (ing *Ingester) Watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return errors.Wrapf(err, "watch %s", dir)
	}
	slog.Info("watching for document changes", "dir", dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !strings.HasSuffix(event.Name, ".md") {
				continue
			}
			if err := ing.IngestDoc(ctx, event.Name); err != nil {
				slog.Warn("reingestion failed", "path", event.Name, "error", err)
			} else {
				slog.Info("document reingested", "path", event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "error", err)
		}
	}
}
