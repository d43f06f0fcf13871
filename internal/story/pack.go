package story

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// PackMajor is the story pack format major version this build reads.
const PackMajor = "v1"

// Pack is a YAML file of extra stories for the fallback pool.
//
//	version: v1.0.0
//	stories:
//	  - title: ...
//	    paragraphs: [...]
//	    questions:
//	      - text: ...
//	        paragraph_index: 0
//	        kind: multiple_choice
//	        choices: [...]
//	        correct_index: 1
type Pack struct {
	Version string  `yaml:"version"`
	Stories []Story `yaml:"stories"`
}

// ErrPackVersion is returned for packs written for another major version.
var ErrPackVersion = errors.New("unsupported story pack version")

// ParsePack decodes and validates a pack.
func ParsePack(data []byte) (Pack, error) {
	var p Pack
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Pack{}, fmt.Errorf("decode pack: %w", err)
	}

	v := p.Version
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return Pack{}, fmt.Errorf("%w: %q is not a semantic version", ErrPackVersion, p.Version)
	}
	if semver.Major(v) != PackMajor {
		return Pack{}, fmt.Errorf("%w: %s, want %s.x", ErrPackVersion, p.Version, PackMajor)
	}
	p.Version = semver.Canonical(v)

	if len(p.Stories) == 0 {
		return Pack{}, errors.New("pack has no stories")
	}
	var errs []error
	for i, s := range p.Stories {
		if err := s.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("story %d (%q): %w", i+1, s.Title, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return Pack{}, err
	}
	return p, nil
}

// LoadPack reads a pack file from disk.
func LoadPack(path string) (Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Pack{}, fmt.Errorf("read pack: %w", err)
	}
	p, err := ParsePack(data)
	if err != nil {
		return Pack{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// LoadPackDir loads every *.yaml and *.yml pack under dir, in lexical order.
// Invalid packs are logged and skipped so one bad file does not hide the
// rest.
func LoadPackDir(dir string, logger *slog.Logger) ([]Story, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan story dir: %w", err)
	}
	sort.Strings(paths)

	var stories []Story
	for _, path := range paths {
		p, err := LoadPack(path)
		if err != nil {
			logger.Warn("skipping story pack", "path", path, "error", err)
			continue
		}
		stories = append(stories, p.Stories...)
	}

	logger.Info("story packs loaded", "dir", dir, "files", len(paths), "stories", len(stories))
	return stories, nil
}
