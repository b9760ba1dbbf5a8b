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

package cli

import (
	"reflect"
	"testing"
)

func TestParseChoiceFlags(t *testing.T) {
	tests := []struct {
		name      string
		raw       []string
		want      map[string]any
		wantError bool
	}{
		{
			name: "single-select answer",
			raw:  []string{"python_env=pipx"},
			want: map[string]any{"python_env": "pipx"},
		},
		{
			name: "multi-select answer splits on comma",
			raw:  []string{"extras=lint,format"},
			want: map[string]any{"extras": []string{"lint", "format"}},
		},
		{
			name:      "missing equals is an error",
			raw:       []string{"python_env"},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseChoiceFlags(tt.raw)
			if tt.wantError {
				if err == nil {
					t.Fatal("expected an error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseChoiceFlags(%v) = %#v, want %#v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseInputFlags(t *testing.T) {
	got, err := parseInputFlags([]string{"registry=https://example.com/mirror", "version=1.2.3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]string{"registry": "https://example.com/mirror", "version": "1.2.3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseInputFlags = %#v, want %#v", got, want)
	}

	if _, err := parseInputFlags([]string{"no-equals-sign"}); err == nil {
		t.Error("expected an error for a malformed --input")
	}
}

func TestRootCommandAssemblesSubcommands(t *testing.T) {
	root := RootCommand()
	want := map[string]bool{"install": false, "resume": false, "chains": false}
	for _, c := range root.Commands {
		if _, ok := want[c.Name]; ok {
			want[c.Name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}
