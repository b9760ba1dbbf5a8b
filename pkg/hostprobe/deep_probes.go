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
	"net"
	"os/exec"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"k8s.io/utils/ptr"

	hpfile "github.com/mnemonic-labs/toolplane/pkg/hostprobe/file"
)

// probeEndpoints is the fixed set of reachability targets used by the
// "network" deep-tier category: origins recipes commonly download from.
var probeEndpoints = []string{"github.com:443", "registry.npmjs.org:443", "pypi.org:443"}

// networkDialLimiter caps outbound reachability dials across concurrent
// ProbeDeep calls (e.g. several tools resolved back-to-back) so a probe
// pass never opens more than a handful of sockets per second.
var networkDialLimiter = rate.NewLimiter(rate.Limit(5), 3)

// probeNetwork dials every probeEndpoints entry concurrently, matching
// ProbeDeep's own errgroup fan-out idiom one level down, rate-limited by
// networkDialLimiter so a burst of deep probes doesn't hammer the network.
func probeNetwork(ctx context.Context) *Network {
	n := &Network{}
	var mu sync.Mutex
	dialer := net.Dialer{Timeout: 3 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	for _, addr := range probeEndpoints {
		addr := addr
		g.Go(func() error {
			if err := networkDialLimiter.Wait(gctx); err != nil {
				return nil
			}
			start := time.Now()
			conn, err := dialer.DialContext(gctx, "tcp", addr)
			ep := NetworkEndpoint{Host: addr}
			if err != nil {
				ep.Reachable = false
				ep.Error = err.Error()
			} else {
				ep.Reachable = true
				ep.LatencyMS = ptr.To(float64(time.Since(start).Microseconds()) / 1000.0)
				_ = conn.Close()
			}
			mu.Lock()
			n.Endpoints = append(n.Endpoints, ep)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return n
}

// compilerProbes maps a toolchain binary to how to extract its version.
var compilerProbes = []string{"gcc", "clang", "cc", "rustc", "go"}

func probeBuild(ctx context.Context) *Build {
	b := &Build{
		HasMake:  hpfile.Exists("/usr/bin/make") || binaryOnPath("make"),
		HasCMake: binaryOnPath("cmake"),
	}
	for _, name := range compilerProbes {
		path, err := exec.LookPath(name)
		if err != nil {
			continue
		}
		version := compilerVersion(ctx, name)
		b.Compilers = append(b.Compilers, Compiler{Name: name, Version: version, Path: path})
	}
	return b
}

func binaryOnPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func compilerVersion(ctx context.Context, name string) string {
	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	out, err := exec.CommandContext(cctx, name, "--version").Output()
	if err != nil {
		return ""
	}
	lines := strings.SplitN(string(out), "\n", 2)
	return strings.TrimSpace(lines[0])
}

func probeKernel() *Kernel {
	k := &Kernel{}
	if out, err := exec.Command("uname", "-r").Output(); err == nil {
		k.Release = strings.TrimSpace(string(out))
	}
	if out, err := exec.Command("lsmod").Output(); err == nil {
		for _, line := range strings.Split(string(out), "\n")[1:] {
			fields := strings.Fields(line)
			if len(fields) > 0 {
				k.LoadedModules = append(k.LoadedModules, fields[0])
			}
		}
	}
	return k
}

func probeWSLInterop(profile *HostProfile) *WSLInterop {
	if !profile.WSL {
		return &WSLInterop{Enabled: false}
	}
	root := "/mnt/c"
	return &WSLInterop{Enabled: hpfile.Exists(root), WinPathRoot: root}
}

func probeSecurity() *Security {
	s := &Security{}
	if hpfile.Exists("/sys/fs/selinux") {
		if out, err := exec.Command("getenforce").Output(); err == nil {
			s.SELinuxMode = strings.ToLower(strings.TrimSpace(string(out)))
		} else {
			s.SELinuxMode = "enabled"
		}
	} else {
		s.SELinuxMode = "disabled"
	}
	s.AppArmor = hpfile.Exists("/sys/kernel/security/apparmor")
	return s
}
