package corpus

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/dejo1307/hdrgraph/internal/config"
)

// Load walks cfg.Root and reads every file whose extension is configured.
// Files matching an ignore pattern or .gitignore are not visited. A file
// that cannot be read, or is larger than cfg.MaxFileBytes, is logged and
// recorded in Skipped; loading continues. Load fails only when the root
// itself cannot be walked or ctx is cancelled.
func Load(ctx context.Context, cfg *config.Config) (*Corpus, error) {
	start := time.Now()

	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving root path: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("reading root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", root)
	}

	var gi *ignore.GitIgnore
	if cfg.RespectGitignore {
		gi = loadGitignore(root)
	}

	files := make(map[string]string)
	var skipped []SkippedFile

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root {
				return err
			}
			log.Printf("[corpus] skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if isIgnored(cfg.Ignore, rel) || (gi != nil && gi.MatchesPath(rel)) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() || !cfg.IsExtension(filepath.Ext(rel)) {
			return nil
		}

		text, reason := readFile(path, d, cfg.MaxFileBytes)
		if reason != "" {
			log.Printf("[corpus] skipping %s: %s", rel, reason)
			skipped = append(skipped, SkippedFile{Path: rel, Reason: reason})
			return nil
		}
		files[rel] = text
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	c, err := newCorpus(root, files, skipped, cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating corpus: %w", err)
	}
	log.Printf("[corpus] loaded %d files (%s) from %s in %s, %d skipped",
		c.Len(), humanize.Bytes(uint64(c.Size())), root, time.Since(start).Round(time.Millisecond), len(skipped))
	return c, nil
}

// readFile returns the file text, or a non-empty reason when the file is
// left out.
func readFile(path string, d fs.DirEntry, maxBytes int64) (string, string) {
	info, err := d.Info()
	if err != nil {
		return "", err.Error()
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		return "", fmt.Sprintf("size %s exceeds limit %s",
			humanize.Bytes(uint64(info.Size())), humanize.Bytes(uint64(maxBytes)))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err.Error()
	}
	return string(data), ""
}

// isIgnored checks whether a slash separated path matches any ignore
// pattern. "dir/**" matches the directory and everything below it, and
// "**/pattern" matches the base name at any depth.
func isIgnored(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if strings.HasSuffix(pattern, "/**") {
			prefix := strings.TrimSuffix(pattern, "/**")
			depth := strings.Count(prefix, "/") + 1
			if parts := strings.Split(rel, "/"); len(parts) >= depth {
				if matched, err := filepath.Match(prefix, strings.Join(parts[:depth], "/")); err == nil && matched {
					return true
				}
			}
		}

		if matched, err := filepath.Match(pattern, rel); err == nil && matched {
			return true
		}

		if strings.HasPrefix(pattern, "**/") {
			sub := strings.TrimPrefix(pattern, "**/")
			if matched, err := filepath.Match(sub, filepath.Base(rel)); err == nil && matched {
				return true
			}
			if matched, err := filepath.Match(sub, rel); err == nil && matched {
				return true
			}
		}
	}
	return false
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}
