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

package logging

import (
	"log"
	"log/slog"
	"os"
	"strings"
)

// envLogLevel is the environment variable that controls default verbosity.
const envLogLevel = "LOG_LEVEL"

// ParseLevel parses a case-insensitive level name, defaulting to Info for
// unrecognized or empty input.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// levelFromEnv resolves LOG_LEVEL, defaulting to Info when unset.
func levelFromEnv() slog.Level {
	if v, ok := os.LookupEnv(envLogLevel); ok {
		return ParseLevel(v)
	}
	return slog.LevelInfo
}

// NewStructuredLogger builds a JSON-to-stderr slog.Logger stamped with
// module and version context, at the given level name (see ParseLevel).
func NewStructuredLogger(module, version, level string) *slog.Logger {
	return newLogger(module, version, ParseLevel(level))
}

// NewStructuredLoggerFromEnv builds a logger at the LOG_LEVEL-derived level.
func NewStructuredLoggerFromEnv(module, version string) *slog.Logger {
	return newLogger(module, version, levelFromEnv())
}

func newLogger(module, version string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	logger := slog.New(handler)
	if module != "" {
		logger = logger.With("module", module)
	}
	if version != "" {
		logger = logger.With("version", version)
	}
	return logger
}

// SetDefaultStructuredLogger installs a LOG_LEVEL-driven structured logger
// as the process-wide slog default. Call once near the top of main().
func SetDefaultStructuredLogger(module, version string) {
	slog.SetDefault(NewStructuredLoggerFromEnv(module, version))
}

// SetDefaultStructuredLoggerWithLevel installs a structured logger at an
// explicit level, overriding LOG_LEVEL.
func SetDefaultStructuredLoggerWithLevel(module, version, level string) {
	slog.SetDefault(NewStructuredLogger(module, version, level))
}

// NewLogLogger adapts the default slog handler to a standard library
// *log.Logger at the given level, for code that still expects one
// (e.g. http.Server.ErrorLog).
func NewLogLogger(level slog.Level, addSource bool) *log.Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: addSource,
	})
	return slog.NewLogLogger(handler, level)
}
