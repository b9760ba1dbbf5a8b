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

// Package cnserr provides the structured error type shared by every
// toolplane component, extending the transport-level error codes with the
// failure-category taxonomy the resolver, executor and remediation engine
// classify errors into.
package cnserr

import "fmt"

// ErrorCode represents a structured error classification.
type ErrorCode string

const (
	// Transport-level codes, carried from the original error taxonomy.
	ErrCodeNotFound          ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized      ErrorCode = "UNAUTHORIZED"
	ErrCodeTimeout           ErrorCode = "TIMEOUT"
	ErrCodeInternal          ErrorCode = "INTERNAL"
	ErrCodeInvalidRequest    ErrorCode = "INVALID_REQUEST"
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	ErrCodeMethodNotAllowed  ErrorCode = "METHOD_NOT_ALLOWED"
	ErrCodeUnavailable       ErrorCode = "SERVICE_UNAVAILABLE"

	// Failure-category codes used by the resolver/executor/remediation
	// pipeline to classify a step failure before matching it against a
	// handler record.
	CategoryEnvironment            ErrorCode = "environment"
	CategoryDependency              ErrorCode = "dependency"
	CategoryPermissions             ErrorCode = "permissions"
	CategoryNetwork                 ErrorCode = "network"
	CategoryDisk                    ErrorCode = "disk"
	CategoryResources                ErrorCode = "resources"
	CategoryTimeout                 ErrorCode = "timeout"
	CategoryCompiler                 ErrorCode = "compiler"
	CategoryPackageManager           ErrorCode = "package_manager"
	CategoryBootstrap                ErrorCode = "bootstrap"
	CategoryNoRecipe                 ErrorCode = "no_recipe"
	CategoryNoMethodAvailable        ErrorCode = "no_method_available"
	CategoryConstraintUnsatisfiable  ErrorCode = "constraint_unsatisfiable"
	CategoryCycle                    ErrorCode = "cycle"
	CategoryMaxDepthExceeded         ErrorCode = "max_depth_exceeded"
	CategoryUnknown                  ErrorCode = "unknown"
)

// StructuredError provides structured error information for better
// observability: a code for programmatic handling, a human-readable
// message, the underlying cause, and optional context for debugging.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// WithContext returns a copy of e with key set in Context.
func (e *StructuredError) WithContext(key string, value any) *StructuredError {
	cp := *e
	cp.Context = make(map[string]any, len(e.Context)+1)
	for k, v := range e.Context {
		cp.Context[k] = v
	}
	cp.Context[key] = value
	return &cp
}

// New creates a new StructuredError with the given code and message.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{Code: code, Message: message}
}

// NewWithContext creates a new StructuredError with context information.
func NewWithContext(code ErrorCode, message string, context map[string]any) *StructuredError {
	return &StructuredError{Code: code, Message: message, Context: context}
}

// Wrap wraps an existing error with additional context.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{Code: code, Message: message, Cause: cause}
}

// WrapWithContext wraps an error with additional context information.
func WrapWithContext(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	return &StructuredError{Code: code, Message: message, Cause: cause, Context: context}
}
