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

package hostprobe

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/mnemonic-labs/toolplane/pkg/defaults"
	hpfile "github.com/mnemonic-labs/toolplane/pkg/hostprobe/file"
	"github.com/mnemonic-labs/toolplane/pkg/hostprobe/gpu"
	hpk8s "github.com/mnemonic-labs/toolplane/pkg/hostprobe/k8s"
	hpos "github.com/mnemonic-labs/toolplane/pkg/hostprobe/os"
	"github.com/mnemonic-labs/toolplane/pkg/hostprobe/systemd"
)

// defaultServices is probed for the "services" deep-tier category when the
// caller does not specify otherwise.
var defaultServices = []string{"containerd.service", "docker.service", "kubelet.service"}

// ProbeDeep runs the deep-tier probes selected by needs, merging their
// results into a copy of profile. Each category is independently cached
// and single-flighted by cache; probes run concurrently under errgroup,
// writing into the shared result under mu, matching the fast-tier "never
// fail the whole profile" contract — a failing category yields a nil/empty
// field, never an error.
func ProbeDeep(ctx context.Context, profile *HostProfile, needs []Category, cache *DeepCache) *HostProfile {
	merged := *profile
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)

	for _, category := range needs {
		category := category
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(gctx, defaults.ProbeDeepCollectorTimeout)
			defer cancel()

			timer := prometheus.NewTimer(deepCollectorDuration.WithLabelValues(string(category)))
			result := cache.resolve(category, func() any {
				return collectCategory(cctx, category, &merged)
			})
			timer.ObserveDuration()

			mu.Lock()
			applyCategory(&merged, category, result)
			mu.Unlock()
			return nil
		})
	}

	// errgroup.Wait never returns an error here: collectors swallow their
	// own failures per the detector's per-field contract.
	_ = g.Wait()

	return &merged
}

func collectCategory(ctx context.Context, category Category, profile *HostProfile) any {
	switch category {
	case CategoryShell:
		return &Shell{Name: shellName(), ProfileFile: shellProfileFile()}
	case CategoryInitSystem:
		name := "unknown"
		if profile.Capabilities.HasSystemD {
			name = "systemd"
		} else if hpfile.Exists("/sbin/openrc") {
			name = "openrc"
		}
		return &InitSystem{Name: name, HasOpenRC: hpfile.Exists("/sbin/openrc")}
	case CategoryNetwork:
		return probeNetwork(ctx)
	case CategoryBuild:
		return probeBuild(ctx)
	case CategoryGPU:
		devices := gpu.Probe(ctx)
		g := &GPU{}
		for _, d := range devices {
			gd := GPUDevice{
				Vendor:            d.Vendor,
				Model:             d.Model,
				DriverVersion:     d.DriverVersion,
				ComputeCapability: d.ComputeCapability,
				MemoryMB:          d.MemoryMB,
			}
			g.Devices = append(g.Devices, gd)
			switch d.Vendor {
			case "nvidia":
				g.NvidiaPresent = true
			case "amd":
				g.AMDPresent = true
			}
		}
		return g
	case CategoryKernel:
		return probeKernel()
	case CategoryWSLInterop:
		return probeWSLInterop(profile)
	case CategoryServices:
		units := systemd.Units(ctx, defaultServices)
		s := &Services{}
		for _, u := range units {
			s.Units = append(s.Units, ServiceState{Name: u.Name, Active: u.Active, Found: u.Found})
		}
		return s
	case CategoryFilesystem:
		return &Filesystem{
			DiskFreeMB:  hpfile.DiskFreeMB("/"),
			WritableTmp: isWritable("/tmp"),
		}
	case CategorySecurity:
		return probeSecurity()
	case CategoryKubernetes:
		info := hpk8s.Probe(ctx)
		return &Kubernetes{Reachable: info.Reachable, ServerVersion: info.ServerVersion, NodeCount: info.NodeCount}
	default:
		slog.Warn("unknown deep-tier category requested", "category", category)
		return nil
	}
}

func applyCategory(profile *HostProfile, category Category, result any) {
	if result == nil {
		return
	}
	switch category {
	case CategoryShell:
		profile.Shell, _ = result.(*Shell)
	case CategoryInitSystem:
		profile.InitSystem, _ = result.(*InitSystem)
	case CategoryNetwork:
		profile.Network, _ = result.(*Network)
	case CategoryBuild:
		profile.Build, _ = result.(*Build)
	case CategoryGPU:
		profile.GPU, _ = result.(*GPU)
	case CategoryKernel:
		profile.Kernel, _ = result.(*Kernel)
	case CategoryWSLInterop:
		profile.WSLInterop, _ = result.(*WSLInterop)
	case CategoryServices:
		profile.Services, _ = result.(*Services)
	case CategoryFilesystem:
		profile.Filesystem, _ = result.(*Filesystem)
	case CategorySecurity:
		profile.Security, _ = result.(*Security)
	case CategoryKubernetes:
		profile.Kubernetes, _ = result.(*Kubernetes)
	}
}

func shellName() string {
	if s := hpos.ShellEnv(); s != "" {
		return s
	}
	return "unknown"
}

func shellProfileFile() string {
	return hpos.ShellProfileFile()
}

func isWritable(dir string) bool {
	return hpos.IsWritableDir(dir)
}
