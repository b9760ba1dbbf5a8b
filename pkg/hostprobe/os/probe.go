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

package os

import (
	"context"
	"os"
	"os/exec"
	"os/user"
	"strconv"
	"strings"
	"time"

	"github.com/mnemonic-labs/toolplane/pkg/hostprobe/file"
)

const subprocessTimeout = 5 * time.Second

var (
	osReleasePrimary  = "/etc/os-release"
	osReleaseFallback = "/usr/lib/os-release"
)

// ReadOSRelease reads /etc/os-release (falling back to /usr/lib/os-release
// per freedesktop.org spec), returning an empty map on any failure — the
// fast tier never raises.
func ReadOSRelease() map[string]string {
	root := osReleasePrimary
	if !file.Exists(root) {
		root = osReleaseFallback
	}

	parser := file.NewParser(
		file.WithKVDelimiter("="),
		file.WithVTrimChars(`"'`),
		file.WithSkipComments(true),
		file.WithSkipEmptyValues(true),
	)

	params, err := parser.GetMap(root)
	if err != nil {
		return map[string]string{}
	}
	return params
}

// packageManagerPriority is the fixed detection priority order.
var packageManagerPriority = []string{"apt", "dnf", "yum", "apk", "pacman", "zypper", "brew"}

// pmProbeBinary maps a PM name to the binary whose presence on PATH
// indicates that PM is installed.
var pmProbeBinary = map[string]string{
	"apt":    "apt-get",
	"dnf":    "dnf",
	"yum":    "yum",
	"apk":    "apk",
	"pacman": "pacman",
	"zypper": "zypper",
	"brew":   "brew",
}

// DetectPackageManagers returns the primary PM (first match in priority
// order) and the full set detected present.
func DetectPackageManagers() (primary string, available []string) {
	for _, pm := range packageManagerPriority {
		if HasBinary(pmProbeBinary[pm]) {
			available = append(available, pm)
			if primary == "" {
				primary = pm
			}
		}
	}
	return primary, available
}

// HasBinary reports whether name is resolvable on PATH.
func HasBinary(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// SnapAvailable reports whether `snap` is on PATH. The caller must also
// gate on has_systemd per the fast-tier capability rule.
func SnapAvailable() bool {
	return HasBinary("snap")
}

// IsRoot reports whether the current process is running as uid 0.
func IsRoot() bool {
	return os.Geteuid() == 0
}

// SudoCheck reports whether sudo is usable, and whether it is usable
// without a password prompt (`sudo -n true`).
func SudoCheck(ctx context.Context) (hasSudo, passwordless bool) {
	if !HasBinary("sudo") {
		return false, false
	}
	hasSudo = true

	cctx, cancel := context.WithTimeout(ctx, subprocessTimeout)
	defer cancel()
	cmd := exec.CommandContext(cctx, "sudo", "-n", "true")
	if err := cmd.Run(); err == nil {
		passwordless = true
	}
	return hasSudo, passwordless
}

// OpenSSLVersion runs `openssl version` and extracts the version token,
// returning "" on any failure.
func OpenSSLVersion(ctx context.Context) string {
	if !HasBinary("openssl") {
		return ""
	}
	cctx, cancel := context.WithTimeout(ctx, subprocessTimeout)
	defer cancel()
	out, err := exec.CommandContext(cctx, "openssl", "version").Output()
	if err != nil {
		return ""
	}
	fields := strings.Fields(string(out))
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

// LibcType inspects ldd's own version banner to distinguish glibc from musl.
func LibcType(ctx context.Context) string {
	if !HasBinary("ldd") {
		return "unknown"
	}
	cctx, cancel := context.WithTimeout(ctx, subprocessTimeout)
	defer cancel()
	out, err := exec.CommandContext(cctx, "ldd", "--version").CombinedOutput()
	if err != nil && out == nil {
		return "unknown"
	}
	lower := strings.ToLower(string(out))
	switch {
	case strings.Contains(lower, "musl"):
		return "musl"
	case strings.Contains(lower, "glibc") || strings.Contains(lower, "gnu libc"):
		return "glibc"
	default:
		return "unknown"
	}
}

// GlibcVersion extracts a trailing version token from `ldd --version`
// output when the libc is glibc; "" otherwise.
func GlibcVersion(ctx context.Context) string {
	if !HasBinary("ldd") {
		return ""
	}
	cctx, cancel := context.WithTimeout(ctx, subprocessTimeout)
	defer cancel()
	out, err := exec.CommandContext(cctx, "ldd", "--version").CombinedOutput()
	if err != nil && out == nil {
		return ""
	}
	lines := strings.Split(string(out), "\n")
	if len(lines) == 0 {
		return ""
	}
	fields := strings.Fields(lines[0])
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// DetectContainer checks the four signals the spec enumerates: dockerenv
// file, cgroup containing a known runtime, PID-1 environ hints, and
// Kubernetes env vars.
func DetectContainer() (inContainer bool, runtime string, inK8s bool) {
	if file.Exists("/.dockerenv") {
		inContainer = true
		runtime = "docker"
	}

	if cgroup, err := os.ReadFile("/proc/1/cgroup"); err == nil {
		content := string(cgroup)
		for _, rt := range []string{"docker", "containerd", "kubepods", "crio", "lxc"} {
			if strings.Contains(content, rt) {
				inContainer = true
				if runtime == "" {
					runtime = rt
				}
			}
		}
	}

	if environ, err := os.ReadFile("/proc/1/environ"); err == nil {
		if strings.Contains(string(environ), "container=") {
			inContainer = true
		}
	}

	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		inContainer = true
		inK8s = true
	}

	return inContainer, runtime, inK8s
}

// DetectWSL inspects /proc/version for the "microsoft" / "WSL2" markers.
func DetectWSL() (wsl bool, version string) {
	b, err := os.ReadFile("/proc/version")
	if err != nil {
		return false, ""
	}
	content := strings.ToLower(string(b))
	if !strings.Contains(content, "microsoft") {
		return false, ""
	}
	if strings.Contains(content, "wsl2") {
		return true, "2"
	}
	return true, "1"
}

// CurrentUserUID returns the numeric uid of the running process, or -1 if
// it cannot be determined.
func CurrentUserUID() int {
	u, err := user.Current()
	if err != nil {
		return -1
	}
	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return -1
	}
	return uid
}

// ShellEnv returns the basename of $SHELL, or "" if unset.
func ShellEnv() string {
	sh := os.Getenv("SHELL")
	if sh == "" {
		return ""
	}
	parts := strings.Split(sh, "/")
	return parts[len(parts)-1]
}

// ShellProfileFile guesses the shell's rc/profile file under $HOME for the
// detected login shell, defaulting to .profile.
func ShellProfileFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	switch ShellEnv() {
	case "zsh":
		return home + "/.zshrc"
	case "bash":
		return home + "/.bashrc"
	case "fish":
		return home + "/.config/fish/config.fish"
	default:
		return home + "/.profile"
	}
}

// IsWritableDir reports whether dir accepts a test file write, cleaning up
// after itself.
func IsWritableDir(dir string) bool {
	f, err := os.CreateTemp(dir, ".toolplane-write-test-*")
	if err != nil {
		return false
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return true
}
