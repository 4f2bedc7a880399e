// Package library loads directories of script files into a session at
// startup, so their function definitions are available before the first
// statement runs.
package library

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/reckonlang/reckon"
)

type Diagnostic interface {
	Debug(msg string)
	Error(msg string, err error)
	Loading(file string)
}

type Service struct {
	mu     sync.Mutex
	config Config

	// files loaded during the last Open, in load order
	loaded []string

	diag Diagnostic
}

func NewService(c Config, d Diagnostic) *Service {
	return &Service{
		config: c,
		diag:   d,
	}
}

// Open loads every script in the configured directory into the session.
// Files load in lexical order, so definitions may depend on files that
// sort before them.
func (s *Service) Open(session *reckon.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.config.Enabled {
		s.diag.Debug("library loading disabled")
		return nil
	}
	return s.load(session, s.config.Dir)
}

func (s *Service) Close() error {
	return nil
}

// Loaded lists the files sourced by the last Open, in load order.
func (s *Service) Loaded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.loaded))
	copy(out, s.loaded)
	return out
}

func (s *Service) load(session *reckon.Session, dir string) error {
	s.loaded = s.loaded[:0]

	files, err := scriptFiles(dir)
	if err != nil {
		return errors.Wrapf(err, "failed to scan library directory %q", dir)
	}

	for _, file := range files {
		s.diag.Loading(file)
		if _, err := session.EvalFile(file); err != nil {
			s.diag.Error("failed to load library file", err)
			return errors.Wrapf(err, "failed to load library file %q", file)
		}
		s.loaded = append(s.loaded, file)
	}
	return nil
}

// scriptFiles lists the script files directly inside dir, sorted.
func scriptFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.HasSuffix(entry.Name(), reckon.FileExtension) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}
