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

// Package gpu probes for accelerator presence via `nvidia-smi`, the
// deep-tier "gpu" category. A missing or failing binary yields no
// devices rather than an error, per the detector's per-field swallow rule.
package gpu

import (
	"context"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Device describes one detected GPU.
type Device struct {
	Vendor            string
	Model             string
	DriverVersion     string
	ComputeCapability string
	MemoryMB          *int
}

const probeTimeout = 5 * time.Second

// nvidiaSMIQuery is the CSV field list used for a single nvidia-smi call.
const nvidiaSMIQuery = "name,driver_version,memory.total,compute_cap"

// Probe shells out to nvidia-smi and parses its CSV output into Devices.
// Returns an empty slice (never an error) when nvidia-smi is absent or
// fails, consistent with the host-probe "never raise" invariant.
func Probe(ctx context.Context) []Device {
	if _, err := exec.LookPath("nvidia-smi"); err != nil {
		return nil
	}

	cctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, "nvidia-smi",
		"--query-gpu="+nvidiaSMIQuery, "--format=csv,noheader,nounits")
	out, err := cmd.Output()
	if err != nil {
		slog.Debug("nvidia-smi probe failed", "error", err)
		return nil
	}

	var devices []Device
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		if len(fields) < 4 {
			continue
		}
		d := Device{
			Vendor:            "nvidia",
			Model:             fields[0],
			DriverVersion:     fields[1],
			ComputeCapability: fields[3],
		}
		if mb, err := strconv.Atoi(fields[2]); err == nil {
			d.MemoryMB = &mb
		}
		devices = append(devices, d)
	}
	return devices
}
