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

// Package serializer encodes CLI output data to JSON, YAML, or a
// flattened table, for writing to stdout or a file.
//
// # Supported Formats
//
// JSON:
//   - Machine-parseable, indented via encoding/json
//
// YAML:
//   - Human-readable, via gopkg.in/yaml.v3
//
// Table:
//   - Reflection-flattened FIELD/VALUE rows, rendered with
//     text/tabwriter. Write-only; there is no table decoder.
//
// # Usage
//
//	w, err := serializer.NewFileWriterOrStdout(serializer.FormatYAML, outputPath)
//	if err != nil {
//	    return err
//	}
//	defer func() {
//	    if c, ok := w.(serializer.Closer); ok {
//	        _ = c.Close()
//	    }
//	}()
//
//	if err := w.Serialize(ctx, plan); err != nil {
//	    return err
//	}
//
// NewFileWriterOrStdout treats an empty path or "-" as stdout, in
// which case Close is a no-op; callers still type-assert to Closer
// rather than assume every Serializer needs releasing.
//
// # Table Format
//
// A struct is flattened to dotted field paths:
//
//	FIELD                  VALUE
//	-----                  -----
//	Profile.OS.Name        ubuntu
//	Profile.OS.Version     22.04
//	Steps[0].Command       apt-get install -y kubectl
//
// Maps and slices contribute "key" and "[index]" path segments; nil
// pointers/interfaces render as "<nil>" instead of panicking.
//
// # Integration
//
// pkg/cli's writeResult is the package's only caller: it selects a
// Format from the --format flag and a destination from --output,
// then serializes the command's result (a host profile, a plan, a
// remediation response, or a chain record).
package serializer
