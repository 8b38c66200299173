// Package jsonl reads raw review records from line-delimited JSON
// files, the distribution format of the upstream review dumps. Files
// ending in .gz are decompressed transparently.
package jsonl

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/reviewlens/reviewlens-cli/internal/core/domain"
	"github.com/reviewlens/reviewlens-cli/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.RecordSource = (*Source)(nil)

// Lines in the upstream dumps can run long; a review text alone may be
// several kilobytes.
const maxLineBytes = 1 << 20

// Source streams records from one line-delimited JSON file. Each line
// is an independent JSON object; a malformed line is reported on the
// error channel and skipped without stopping the stream.
type Source struct {
	category string
	path     string

	file   *os.File
	reader io.Reader
	gz     *gzip.Reader
}

// NewSource opens the file at path as a record source for the given
// category.
func NewSource(category, path string) (*Source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source %s: %w", path, err)
	}

	s := &Source{category: category, path: path, file: file, reader: file}

	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("open source %s: %w", path, err)
		}
		s.gz = gz
		s.reader = gz
	}

	return s, nil
}

// Category returns the source category.
func (s *Source) Category() string {
	return s.category
}

// Records starts streaming. Both channels close when the file is
// exhausted or the context is cancelled.
func (s *Source) Records(ctx context.Context) (<-chan domain.RawRecord, <-chan error) {
	records := make(chan domain.RawRecord)
	errs := make(chan error)

	go func() {
		defer close(records)
		defer close(errs)

		scanner := bufio.NewScanner(s.reader)
		scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

		line := 0
		for scanner.Scan() {
			line++
			text := strings.TrimSpace(scanner.Text())
			if text == "" {
				continue
			}

			var rec domain.RawRecord
			if err := json.Unmarshal([]byte(text), &rec); err != nil {
				select {
				case errs <- fmt.Errorf("%s line %d: %w", s.path, line, err):
				case <-ctx.Done():
					return
				}
				continue
			}

			select {
			case records <- rec:
			case <-ctx.Done():
				return
			}
		}

		if err := scanner.Err(); err != nil {
			select {
			case errs <- fmt.Errorf("%s: %w", s.path, err):
			case <-ctx.Done():
			}
		}
	}()

	return records, errs
}

// Close closes the underlying file.
func (s *Source) Close() error {
	if s.gz != nil {
		if err := s.gz.Close(); err != nil {
			s.file.Close()
			return fmt.Errorf("close source %s: %w", s.path, err)
		}
	}
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("close source %s: %w", s.path, err)
	}
	return nil
}
