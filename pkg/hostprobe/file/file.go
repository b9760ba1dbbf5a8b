// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package file provides the filesystem probes behind the fast-tier
// /etc/os-release reader, the condition AST's file_exists case, and the
// deep-tier filesystem category (disk space, /tmp writability).
package file

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"
)

// Option configures a Parser.
type Option func(*Parser)

// Parser parses simple delimited key=value configuration files such as
// /etc/os-release.
type Parser struct {
	delimiter       string
	maxSize         int
	skipComments    bool
	kvDelimiter     string
	vDefault        string
	vTrimChars      string
	skipEmptyValues bool
}

// WithSkipComments controls whether lines beginning with '#' are dropped.
func WithSkipComments(skip bool) Option {
	return func(p *Parser) { p.skipComments = skip }
}

// WithKVDelimiter sets the key-value delimiter used in GetMap. Default "=".
func WithKVDelimiter(kvDelim string) Option {
	return func(p *Parser) { p.kvDelimiter = kvDelim }
}

// WithVDefault sets the default value for keys with no associated value.
func WithVDefault(vDefault string) Option {
	return func(p *Parser) { p.vDefault = vDefault }
}

// WithVTrimChars sets characters trimmed from parsed values.
func WithVTrimChars(trimChars string) Option {
	return func(p *Parser) { p.vTrimChars = trimChars }
}

// WithSkipEmptyValues drops key-only or empty-value lines.
func WithSkipEmptyValues(skip bool) Option {
	return func(p *Parser) { p.skipEmptyValues = skip }
}

// NewParser builds a Parser with newline delimiter and a 1MB size guard.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		delimiter:    "\n",
		maxSize:      1 << 20,
		skipComments: true,
		kvDelimiter:  "=",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetMap reads path and parses it into a key-value map.
func (p *Parser) GetMap(path string) (map[string]string, error) {
	lines, err := p.GetLines(path)
	if err != nil {
		return nil, err
	}

	result := make(map[string]string, len(lines))
	for _, line := range lines {
		kv := strings.SplitN(line, p.kvDelimiter, 2)
		if len(kv) != 2 {
			key := strings.TrimSpace(kv[0])
			if p.skipEmptyValues && p.vDefault == "" {
				continue
			}
			result[key] = p.vDefault
			continue
		}

		key := strings.TrimSpace(kv[0])
		value := strings.TrimSpace(kv[1])
		if p.vTrimChars != "" {
			value = strings.Trim(value, p.vTrimChars)
		}
		if p.skipEmptyValues && value == "" {
			continue
		}
		result[key] = value
	}
	return result, nil
}

// GetLines reads path and returns its non-empty, non-comment lines.
func (p *Parser) GetLines(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", path, err)
	}
	if !utf8.Valid(b) {
		return nil, fmt.Errorf("content of file %q is not valid UTF-8", path)
	}
	if len(b) > p.maxSize {
		return nil, fmt.Errorf("file %q exceeds maximum size of %d bytes", path, p.maxSize)
	}

	parts := strings.Split(string(b), p.delimiter)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		clean := strings.TrimSpace(part)
		if clean == "" {
			continue
		}
		if p.skipComments && strings.HasPrefix(clean, "#") {
			continue
		}
		result = append(result, clean)
	}
	return result, nil
}

// Exists reports whether path exists, swallowing all errors to false per
// the fast-tier "never raise" invariant.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// DiskFreeMB reports free space in MB for the filesystem containing path,
// or nil if the platform-specific statfs call is unavailable.
func DiskFreeMB(path string) *int64 {
	free, ok := diskFree(path)
	if !ok {
		slog.Debug("disk free probe unavailable", "path", path)
		return nil
	}
	mb := free / (1024 * 1024)
	return &mb
}
