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

// Package hostprobe builds the structured host profile the rest of the
// engine resolves install plans and remediation options against. It is
// pure I/O: no recipe knowledge lives here.
package hostprobe

import "time"

// DistroFamily is the coarse package-naming grouping derived from distro id.
type DistroFamily string

const (
	FamilyDebian  DistroFamily = "debian"
	FamilyRHEL    DistroFamily = "rhel"
	FamilyAlpine  DistroFamily = "alpine"
	FamilyArch    DistroFamily = "arch"
	FamilySUSE    DistroFamily = "suse"
	FamilyMacOS   DistroFamily = "macos"
	FamilyUnknown DistroFamily = "unknown"
)

// SystemDState mirrors `systemctl is-system-running`.
type SystemDState string

const (
	SystemDRunning  SystemDState = "running"
	SystemDDegraded SystemDState = "degraded"
	SystemDOffline  SystemDState = "offline"
	SystemDStarting SystemDState = "starting"
)

// Category names a deep-tier probe group, selectable via Needs.
type Category string

const (
	CategoryShell       Category = "shell"
	CategoryInitSystem  Category = "init_system"
	CategoryNetwork     Category = "network"
	CategoryBuild       Category = "build"
	CategoryGPU         Category = "gpu"
	CategoryKernel      Category = "kernel"
	CategoryWSLInterop  Category = "wsl_interop"
	CategoryServices    Category = "services"
	CategoryFilesystem  Category = "filesystem"
	CategorySecurity    Category = "security"
	CategoryKubernetes  Category = "kubernetes"
)

// AllCategories lists every deep-tier category, in probe order.
var AllCategories = []Category{
	CategoryShell, CategoryInitSystem, CategoryNetwork, CategoryBuild,
	CategoryGPU, CategoryKernel, CategoryWSLInterop, CategoryServices,
	CategoryFilesystem, CategorySecurity, CategoryKubernetes,
}

// Distro describes the detected OS distribution.
type Distro struct {
	ID           string       `json:"id" yaml:"id"`
	Name         string       `json:"name" yaml:"name"`
	Version      string       `json:"version" yaml:"version"`
	VersionTuple []int        `json:"version_tuple,omitempty" yaml:"version_tuple,omitempty"`
	Family       DistroFamily `json:"family" yaml:"family"`
	Codename     string       `json:"codename,omitempty" yaml:"codename,omitempty"`
}

// Container describes container/Kubernetes detection signals.
type Container struct {
	InContainer bool   `json:"in_container" yaml:"in_container"`
	Runtime     string `json:"runtime,omitempty" yaml:"runtime,omitempty"`
	InK8s       bool   `json:"in_k8s" yaml:"in_k8s"`
}

// Capabilities describes init-system and privilege detection.
type Capabilities struct {
	HasSystemD       bool          `json:"has_systemd" yaml:"has_systemd"`
	SystemDState     *SystemDState `json:"systemd_state,omitempty" yaml:"systemd_state,omitempty"`
	HasSudo          bool          `json:"has_sudo" yaml:"has_sudo"`
	PasswordlessSudo bool          `json:"passwordless_sudo" yaml:"passwordless_sudo"`
	IsRoot           bool          `json:"is_root" yaml:"is_root"`
}

// PackageManager describes the detected system package manager(s).
type PackageManager struct {
	Primary       string   `json:"primary,omitempty" yaml:"primary,omitempty"`
	Available     []string `json:"available" yaml:"available"`
	SnapAvailable bool     `json:"snap_available" yaml:"snap_available"`
}

// Libraries describes detected C library / TLS library versions.
type Libraries struct {
	OpenSSLVersion string `json:"openssl_version,omitempty" yaml:"openssl_version,omitempty"`
	GlibcVersion   string `json:"glibc_version,omitempty" yaml:"glibc_version,omitempty"`
	LibcType       string `json:"libc_type" yaml:"libc_type"` // glibc | musl | system | unknown
}

// Shell describes the deep-tier shell/login environment.
type Shell struct {
	Name       string `json:"name,omitempty" yaml:"name,omitempty"`
	ProfileFile string `json:"profile_file,omitempty" yaml:"profile_file,omitempty"`
}

// InitSystem describes the deep-tier init-system detection (beyond has_systemd).
type InitSystem struct {
	Name       string `json:"name,omitempty" yaml:"name,omitempty"` // systemd | openrc | sysvinit | launchd | unknown
	HasOpenRC  bool   `json:"has_openrc" yaml:"has_openrc"`
}

// NetworkEndpoint is a single reachability probe result.
type NetworkEndpoint struct {
	Host      string        `json:"host" yaml:"host"`
	Reachable bool          `json:"reachable" yaml:"reachable"`
	LatencyMS *float64      `json:"latency_ms,omitempty" yaml:"latency_ms,omitempty"`
	Error     string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// Network is the deep-tier network reachability record.
type Network struct {
	Endpoints []NetworkEndpoint `json:"endpoints" yaml:"endpoints"`
}

// Compiler describes a detected toolchain entry.
type Compiler struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	Path    string `json:"path,omitempty" yaml:"path,omitempty"`
}

// Build is the deep-tier build-toolchain record.
type Build struct {
	Compilers []Compiler `json:"compilers" yaml:"compilers"`
	HasMake   bool       `json:"has_make" yaml:"has_make"`
	HasCMake  bool       `json:"has_cmake" yaml:"has_cmake"`
}

// GPUDevice describes one detected GPU.
type GPUDevice struct {
	Vendor            string  `json:"vendor" yaml:"vendor"` // nvidia | amd | intel
	Model             string  `json:"model,omitempty" yaml:"model,omitempty"`
	DriverVersion     string  `json:"driver_version,omitempty" yaml:"driver_version,omitempty"`
	ComputeCapability string  `json:"compute_capability,omitempty" yaml:"compute_capability,omitempty"`
	MemoryMB          *int    `json:"memory_mb,omitempty" yaml:"memory_mb,omitempty"`
}

// GPU is the deep-tier accelerator record.
type GPU struct {
	Devices       []GPUDevice `json:"devices" yaml:"devices"`
	NvidiaPresent bool        `json:"nvidia_present" yaml:"nvidia_present"`
	AMDPresent    bool        `json:"amd_present" yaml:"amd_present"`
}

// Kernel describes the deep-tier kernel module state.
type Kernel struct {
	Release       string   `json:"release,omitempty" yaml:"release,omitempty"`
	LoadedModules []string `json:"loaded_modules,omitempty" yaml:"loaded_modules,omitempty"`
}

// WSLInterop describes Windows-interop details when running under WSL.
type WSLInterop struct {
	Enabled    bool   `json:"enabled" yaml:"enabled"`
	WinPathRoot string `json:"win_path_root,omitempty" yaml:"win_path_root,omitempty"`
}

// ServiceState describes a single systemd unit's detected state.
type ServiceState struct {
	Name   string `json:"name" yaml:"name"`
	Active bool   `json:"active" yaml:"active"`
	Found  bool   `json:"found" yaml:"found"`
}

// Services is the deep-tier systemd services record.
type Services struct {
	Units []ServiceState `json:"units" yaml:"units"`
}

// Filesystem is the deep-tier disk/path record.
type Filesystem struct {
	DiskFreeMB *int64 `json:"disk_free_mb,omitempty" yaml:"disk_free_mb,omitempty"`
	WritableTmp bool  `json:"writable_tmp" yaml:"writable_tmp"`
}

// Security describes SELinux/AppArmor state.
type Security struct {
	SELinuxMode  string `json:"selinux_mode,omitempty" yaml:"selinux_mode,omitempty"`  // enforcing | permissive | disabled
	AppArmor     bool   `json:"apparmor" yaml:"apparmor"`
}

// Kubernetes is the deep-tier cluster-reachability record, populated via
// client-go when a kubeconfig or in-cluster config is available.
type Kubernetes struct {
	Reachable     bool   `json:"reachable" yaml:"reachable"`
	ServerVersion string `json:"server_version,omitempty" yaml:"server_version,omitempty"`
	NodeCount     int    `json:"node_count" yaml:"node_count"`
}

// HostProfile is the single nested record produced by C1.
type HostProfile struct {
	System  string `json:"system" yaml:"system"`
	Release string `json:"release" yaml:"release"`
	Machine string `json:"machine" yaml:"machine"`
	Arch    string `json:"arch" yaml:"arch"`

	Distro Distro `json:"distro" yaml:"distro"`

	WSL        bool   `json:"wsl" yaml:"wsl"`
	WSLVersion string `json:"wsl_version,omitempty" yaml:"wsl_version,omitempty"`

	Container Container `json:"container" yaml:"container"`

	Capabilities   Capabilities   `json:"capabilities" yaml:"capabilities"`
	PackageManager PackageManager `json:"package_manager" yaml:"package_manager"`
	Libraries      Libraries      `json:"libraries" yaml:"libraries"`

	// Deep tier, selectively populated by ProbeDeep.
	Shell      *Shell      `json:"shell,omitempty" yaml:"shell,omitempty"`
	InitSystem *InitSystem `json:"init_system,omitempty" yaml:"init_system,omitempty"`
	Network    *Network    `json:"network,omitempty" yaml:"network,omitempty"`
	Build      *Build      `json:"build,omitempty" yaml:"build,omitempty"`
	GPU        *GPU        `json:"gpu,omitempty" yaml:"gpu,omitempty"`
	Kernel     *Kernel     `json:"kernel,omitempty" yaml:"kernel,omitempty"`
	WSLInterop *WSLInterop `json:"wsl_interop,omitempty" yaml:"wsl_interop,omitempty"`
	Services   *Services   `json:"services,omitempty" yaml:"services,omitempty"`
	Filesystem *Filesystem `json:"filesystem,omitempty" yaml:"filesystem,omitempty"`
	Security   *Security   `json:"security,omitempty" yaml:"security,omitempty"`
	Kubernetes *Kubernetes `json:"kubernetes,omitempty" yaml:"kubernetes,omitempty"`

	// ProbedAt records when the fast tier completed, for cache diagnostics.
	ProbedAt time.Time `json:"probed_at" yaml:"probed_at"`
}

// HasCategory reports whether the deep-tier field for category is populated.
func (p *HostProfile) HasCategory(c Category) bool {
	switch c {
	case CategoryShell:
		return p.Shell != nil
	case CategoryInitSystem:
		return p.InitSystem != nil
	case CategoryNetwork:
		return p.Network != nil
	case CategoryBuild:
		return p.Build != nil
	case CategoryGPU:
		return p.GPU != nil
	case CategoryKernel:
		return p.Kernel != nil
	case CategoryWSLInterop:
		return p.WSLInterop != nil
	case CategoryServices:
		return p.Services != nil
	case CategoryFilesystem:
		return p.Filesystem != nil
	case CategorySecurity:
		return p.Security != nil
	case CategoryKubernetes:
		return p.Kubernetes != nil
	default:
		return false
	}
}
