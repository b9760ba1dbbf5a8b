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

package plan

import (
	"os"
	"strings"

	"github.com/mnemonic-labs/toolplane/pkg/hostprobe"
)

// EvalCondition replaces the source's ad-hoc condition strings
// ("has_systemd", "file_exists:/x", "not_root") with a small typed
// grammar evaluated against the profile: the named conditions
// has_systemd, has_openrc, not_root, is_root, not_container and
// has_docker, a bare dotted path resolved and compared truthy,
// `path == value`, `not <expr>`, or the single `file_exists(path)`
// builtin. Re-evaluated at execution time, not just
// at plan-build, since prior steps can flip profile-derived facts.
func EvalCondition(condition string, profile *hostprobe.HostProfile) bool {
	condition = strings.TrimSpace(condition)
	if condition == "" {
		return true
	}

	if strings.HasPrefix(condition, "not ") {
		return !EvalCondition(strings.TrimPrefix(condition, "not "), profile)
	}
	if strings.HasPrefix(condition, "!") {
		return !EvalCondition(strings.TrimPrefix(condition, "!"), profile)
	}

	if strings.HasPrefix(condition, "file_exists(") && strings.HasSuffix(condition, ")") {
		path := strings.TrimSuffix(strings.TrimPrefix(condition, "file_exists("), ")")
		path = strings.Trim(path, `"'`)
		_, err := os.Stat(path)
		return err == nil
	}

	if condition == "not_root" {
		v, ok := profile.Resolve("permission.is_root")
		return ok && v == "false"
	}
	if condition == "has_systemd" {
		v, ok := profile.Resolve("capabilities.has_systemd")
		return ok && v == "true"
	}
	switch condition {
	case "is_root":
		v, ok := profile.Resolve("permission.is_root")
		return ok && v == "true"
	case "not_container":
		v, ok := profile.Resolve("container.in_container")
		return ok && v == "false"
	case "has_openrc":
		return profile.InitSystem != nil && profile.InitSystem.HasOpenRC
	case "has_docker":
		v, ok := profile.Resolve("binary.docker")
		return ok && v == "true"
	}

	if idx := strings.Index(condition, "=="); idx >= 0 {
		path := strings.TrimSpace(condition[:idx])
		want := strings.TrimSpace(condition[idx+2:])
		got, ok := profile.Resolve(path)
		return ok && got == want
	}

	got, ok := profile.Resolve(condition)
	if !ok {
		return false
	}
	return got != "" && got != "false" && got != "0"
}
