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

// Package systemd probes the system D-Bus for service-manager state and
// per-unit activity, degrading gracefully when D-Bus is unavailable (macOS,
// containers without a running systemd, minimal distros).
package systemd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/coreos/go-systemd/v22/dbus"
)

// State mirrors `systemctl is-system-running`.
type State string

const (
	StateRunning  State = "running"
	StateDegraded State = "degraded"
	StateOffline  State = "offline"
	StateStarting State = "starting"
)

// Probe reports whether a system D-Bus connection succeeded and, if so,
// the manager's running state. has_systemd is true iff the connection
// succeeds and the state is running or degraded.
func Probe(ctx context.Context) (hasSystemD bool, state *State) {
	conn, err := dbus.NewSystemdConnectionContext(ctx)
	if err != nil {
		slog.Debug("systemd D-Bus unavailable", "error", err)
		return false, nil
	}
	defer conn.Close()

	raw, err := conn.GetManagerProperty("SystemState")
	if err != nil {
		slog.Debug("systemd state query failed", "error", err)
		return false, nil
	}

	s := State(strings.Trim(raw, `"`))
	switch s {
	case StateRunning, StateDegraded:
		return true, &s
	default:
		return false, &s
	}
}

// UnitState is the deep-tier activity record for one systemd unit.
type UnitState struct {
	Name   string
	Active bool
	Found  bool
}

// Units queries ActiveState for each of the given unit names, degrading a
// single unit to Found:false rather than failing the whole probe.
func Units(ctx context.Context, names []string) []UnitState {
	out := make([]UnitState, 0, len(names))

	conn, err := dbus.NewSystemdConnectionContext(ctx)
	if err != nil {
		slog.Debug("systemd D-Bus unavailable for unit query", "error", err)
		for _, n := range names {
			out = append(out, UnitState{Name: n})
		}
		return out
	}
	defer conn.Close()

	for _, name := range names {
		props, err := conn.GetUnitPropertiesContext(ctx, name)
		if err != nil {
			out = append(out, UnitState{Name: name})
			continue
		}
		active, _ := props["ActiveState"].(string)
		out = append(out, UnitState{
			Name:   name,
			Found:  true,
			Active: active == "active",
		})
	}
	return out
}
