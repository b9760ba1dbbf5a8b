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

// Package k8s is the deep-tier "kubernetes" category: cluster reachability,
// server version, and node count, feeding Choice Resolver constraints like
// `kubernetes.server_version >= 1.28` for tool recipes whose install
// method is helm-based.
package k8s

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// Info is the deep-tier cluster-reachability record.
type Info struct {
	Reachable     bool
	ServerVersion string
	NodeCount     int
}

// Probe attempts in-cluster config first, then the default kubeconfig
// path, returning a zero-value Info (Reachable: false) on any failure —
// no cluster is a normal, common outcome, not a probe error.
func Probe(ctx context.Context) Info {
	cfg, err := clusterConfig()
	if err != nil {
		slog.Debug("kubernetes config unavailable", "error", err)
		return Info{}
	}

	client, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		slog.Debug("kubernetes client construction failed", "error", err)
		return Info{}
	}

	version, err := client.Discovery().ServerVersion()
	if err != nil {
		slog.Debug("kubernetes server version probe failed", "error", err)
		return Info{}
	}

	info := Info{Reachable: true, ServerVersion: version.GitVersion}

	nodes, err := client.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err == nil {
		info.NodeCount = len(nodes.Items)
	} else {
		slog.Debug("kubernetes node list probe failed", "error", err)
	}

	return info
}

func clusterConfig() (*rest.Config, error) {
	if cfg, err := rest.InClusterConfig(); err == nil {
		return cfg, nil
	}

	kubeconfig := os.Getenv("KUBECONFIG")
	if kubeconfig == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		kubeconfig = filepath.Join(home, ".kube", "config")
	}
	return clientcmd.BuildConfigFromFlags("", kubeconfig)
}
