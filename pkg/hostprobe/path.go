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
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Resolve extracts a string value from the profile at a dot-notation path,
// the single entry point the Choice Resolver's constraint evaluation walks
// to read hardware/software/version/permission/network/auth facts. The
// bool return is false when the path is unknown or the referenced data is
// absent (nullable deep-tier field never probed), never by panicking.
func (p *HostProfile) Resolve(path string) (string, bool) {
	parts := strings.Split(path, ".")
	if len(parts) == 0 {
		return "", false
	}

	switch parts[0] {
	case "arch":
		return p.Arch, true
	case "distro":
		return resolveDistro(p, parts[1:])
	case "capabilities", "permission":
		return resolveCapabilities(p, parts[1:])
	case "package_manager":
		return resolvePackageManager(p, parts[1:])
	case "libraries":
		return resolveLibraries(p, parts[1:])
	case "hardware", "gpu":
		return resolveGPU(p, parts[1:])
	case "kubernetes":
		return resolveKubernetes(p, parts[1:])
	case "network":
		return resolveNetwork(p, parts[1:])
	case "filesystem":
		return resolveFilesystem(p, parts[1:])
	case "container":
		return resolveContainer(p, parts[1:])
	case "binary", "software":
		if len(parts) < 2 {
			return "", false
		}
		name := strings.Join(parts[1:], ".")
		if _, err := exec.LookPath(name); err != nil {
			return "false", true
		}
		return "true", true
	case "env", "auth":
		if len(parts) < 2 {
			return "", false
		}
		key := strings.Join(parts[1:], ".")
		v, ok := os.LookupEnv(key)
		if !ok {
			return "", false
		}
		return v, true
	default:
		return "", false
	}
}

func resolveDistro(p *HostProfile, rest []string) (string, bool) {
	if len(rest) == 0 {
		return "", false
	}
	switch rest[0] {
	case "id":
		return p.Distro.ID, true
	case "name":
		return p.Distro.Name, true
	case "version":
		return p.Distro.Version, true
	case "family":
		return string(p.Distro.Family), true
	case "codename":
		return p.Distro.Codename, true
	default:
		return "", false
	}
}

func resolveCapabilities(p *HostProfile, rest []string) (string, bool) {
	if len(rest) == 0 {
		return "", false
	}
	switch rest[0] {
	case "has_systemd":
		return strconv.FormatBool(p.Capabilities.HasSystemD), true
	case "systemd_state":
		if p.Capabilities.SystemDState == nil {
			return "", false
		}
		return string(*p.Capabilities.SystemDState), true
	case "has_sudo", "sudo":
		return strconv.FormatBool(p.Capabilities.HasSudo), true
	case "passwordless_sudo":
		return strconv.FormatBool(p.Capabilities.PasswordlessSudo), true
	case "is_root", "root":
		return strconv.FormatBool(p.Capabilities.IsRoot), true
	default:
		return "", false
	}
}

func resolvePackageManager(p *HostProfile, rest []string) (string, bool) {
	if len(rest) == 0 {
		return "", false
	}
	switch rest[0] {
	case "primary":
		if p.PackageManager.Primary == "" {
			return "", false
		}
		return p.PackageManager.Primary, true
	case "snap_available":
		return strconv.FormatBool(p.PackageManager.SnapAvailable), true
	default:
		return "", false
	}
}

func resolveLibraries(p *HostProfile, rest []string) (string, bool) {
	if len(rest) == 0 {
		return "", false
	}
	switch rest[0] {
	case "openssl_version":
		if p.Libraries.OpenSSLVersion == "" {
			return "", false
		}
		return p.Libraries.OpenSSLVersion, true
	case "glibc_version":
		if p.Libraries.GlibcVersion == "" {
			return "", false
		}
		return p.Libraries.GlibcVersion, true
	case "libc_type":
		return p.Libraries.LibcType, true
	default:
		return "", false
	}
}

// resolveGPU answers both "hardware.gpu.*" and "gpu.*" prefixed paths.
func resolveGPU(p *HostProfile, rest []string) (string, bool) {
	if p.GPU == nil {
		return "", false
	}
	// Allow "hardware.gpu.nvidia.present" and "gpu.nvidia_present".
	if len(rest) > 0 && rest[0] == "gpu" {
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return "", false
	}

	switch rest[0] {
	case "nvidia":
		if len(rest) > 1 && rest[1] == "present" {
			return strconv.FormatBool(p.GPU.NvidiaPresent), true
		}
	case "amd":
		if len(rest) > 1 && rest[1] == "present" {
			return strconv.FormatBool(p.GPU.AMDPresent), true
		}
	case "nvidia_present":
		return strconv.FormatBool(p.GPU.NvidiaPresent), true
	case "amd_present":
		return strconv.FormatBool(p.GPU.AMDPresent), true
	case "driver_version":
		if len(p.GPU.Devices) == 0 {
			return "", false
		}
		return p.GPU.Devices[0].DriverVersion, true
	case "compute_capability":
		if len(p.GPU.Devices) == 0 {
			return "", false
		}
		return p.GPU.Devices[0].ComputeCapability, true
	case "memory_mb":
		if len(p.GPU.Devices) == 0 || p.GPU.Devices[0].MemoryMB == nil {
			return "", false
		}
		return strconv.Itoa(*p.GPU.Devices[0].MemoryMB), true
	}
	return "", false
}

func resolveKubernetes(p *HostProfile, rest []string) (string, bool) {
	if p.Kubernetes == nil || len(rest) == 0 {
		return "", false
	}
	switch rest[0] {
	case "reachable":
		return strconv.FormatBool(p.Kubernetes.Reachable), true
	case "server_version":
		if p.Kubernetes.ServerVersion == "" {
			return "", false
		}
		return p.Kubernetes.ServerVersion, true
	case "node_count":
		return strconv.Itoa(p.Kubernetes.NodeCount), true
	default:
		return "", false
	}
}

func resolveNetwork(p *HostProfile, rest []string) (string, bool) {
	if p.Network == nil || len(rest) < 2 {
		return "", false
	}
	host := rest[0]
	for _, ep := range p.Network.Endpoints {
		if !strings.HasPrefix(ep.Host, host) {
			continue
		}
		switch rest[1] {
		case "reachable":
			return strconv.FormatBool(ep.Reachable), true
		case "latency_ms":
			if ep.LatencyMS == nil {
				return "", false
			}
			return fmt.Sprintf("%.2f", *ep.LatencyMS), true
		}
	}
	return "", false
}

func resolveFilesystem(p *HostProfile, rest []string) (string, bool) {
	if p.Filesystem == nil || len(rest) == 0 {
		return "", false
	}
	switch rest[0] {
	case "disk_free_mb":
		if p.Filesystem.DiskFreeMB == nil {
			return "", false
		}
		return strconv.FormatInt(*p.Filesystem.DiskFreeMB, 10), true
	case "writable_tmp":
		return strconv.FormatBool(p.Filesystem.WritableTmp), true
	default:
		return "", false
	}
}

func resolveContainer(p *HostProfile, rest []string) (string, bool) {
	if len(rest) == 0 {
		return "", false
	}
	switch rest[0] {
	case "in_container":
		return strconv.FormatBool(p.Container.InContainer), true
	case "runtime":
		if p.Container.Runtime == "" {
			return "", false
		}
		return p.Container.Runtime, true
	case "in_k8s":
		return strconv.FormatBool(p.Container.InK8s), true
	default:
		return "", false
	}
}
