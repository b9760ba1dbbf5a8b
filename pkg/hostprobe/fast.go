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
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mnemonic-labs/toolplane/pkg/defaults"
	hpos "github.com/mnemonic-labs/toolplane/pkg/hostprobe/os"
	"github.com/mnemonic-labs/toolplane/pkg/hostprobe/systemd"
)

// ProbeFast builds the always-on tier of the host profile. It is pure of
// intent, swallows every probe failure per-field, and must complete well
// within the fast-tier budget on a healthy host.
func ProbeFast(ctx context.Context) *HostProfile {
	timer := prometheus.NewTimer(fastProbeDuration)
	defer timer.ObserveDuration()

	cctx, cancel := context.WithTimeout(ctx, defaults.ProbeFastTimeout)
	defer cancel()

	release := hpos.ReadOSRelease()
	machine := runtime.GOARCH
	if m := unameMachine(); m != "" {
		machine = m
	}

	distro := buildDistro(release)
	wsl, wslVersion := hpos.DetectWSL()
	inContainer, containerRuntime, inK8s := hpos.DetectContainer()

	hasSystemD, state := systemd.Probe(cctx)
	var systemdState *SystemDState
	if state != nil {
		s := SystemDState(*state)
		systemdState = &s
	}

	hasSudo, passwordless := hpos.SudoCheck(cctx)
	primary, available := hpos.DetectPackageManagers()
	snapAvailable := hasSystemD && hpos.SnapAvailable()

	profile := &HostProfile{
		System:  runtime.GOOS,
		Release: release["VERSION_ID"],
		Machine: machine,
		Arch:    hpos.NormalizeArch(machine),
		Distro:  distro,

		WSL:        wsl,
		WSLVersion: wslVersion,

		Container: Container{
			InContainer: inContainer,
			Runtime:     containerRuntime,
			InK8s:       inK8s,
		},

		Capabilities: Capabilities{
			HasSystemD:       hasSystemD,
			SystemDState:     systemdState,
			HasSudo:          hasSudo,
			PasswordlessSudo: passwordless,
			IsRoot:           hpos.IsRoot(),
		},

		PackageManager: PackageManager{
			Primary:       primary,
			Available:     available,
			SnapAvailable: snapAvailable,
		},

		Libraries: Libraries{
			OpenSSLVersion: hpos.OpenSSLVersion(cctx),
			GlibcVersion:   hpos.GlibcVersion(cctx),
			LibcType:       hpos.LibcType(cctx),
		},

		ProbedAt: time.Now().UTC(),
	}

	slog.Debug("fast host profile collected",
		"distro", profile.Distro.ID,
		"family", profile.Distro.Family,
		"arch", profile.Arch,
		"primary_pm", profile.PackageManager.Primary)

	return profile
}

func buildDistro(release map[string]string) Distro {
	id := release["ID"]
	family := hpos.DistroFamily(id, release["ID_LIKE"])
	return Distro{
		ID:       id,
		Name:     release["NAME"],
		Version:  release["VERSION_ID"],
		Family:   DistroFamily(family),
		Codename: release["VERSION_CODENAME"],
	}
}
