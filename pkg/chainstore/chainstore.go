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

// Package chainstore persists remediation escalation chains to disk, one
// file per chain_id, crash-safe via write-temp-then-rename (C9 Chain
// Store). No sudo password ever reaches this package: it is held only as
// an in-memory transient on the executor's per-call Options and never
// becomes part of a remediation.Chain.
package chainstore

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mnemonic-labs/toolplane/pkg/remediation"
)

// Store persists chains as YAML files under Dir, moving completed chains
// into Dir/archive on Archive.
type Store struct {
	Dir string
}

// NewStore builds a Store rooted at dir, creating dir and its archive
// subdirectory if they do not already exist.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating chain store dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "archive"), 0700); err != nil {
		return nil, fmt.Errorf("creating chain store archive dir: %w", err)
	}
	return &Store{Dir: dir}, nil
}

func (s *Store) path(chainID string) string {
	return filepath.Join(s.Dir, chainID+".yaml")
}

func (s *Store) archivePath(chainID string) string {
	return filepath.Join(s.Dir, "archive", chainID+".yaml")
}

// Save writes chain to disk atomically: marshal to a temp file in the
// same directory, then rename over the final path, so a crash mid-write
// never leaves a half-written chain record behind.
func (s *Store) Save(chain *remediation.Chain) error {
	data, err := yaml.Marshal(chain)
	if err != nil {
		return fmt.Errorf("serializing chain %s: %w", chain.ChainID, err)
	}

	final := s.path(chain.ChainID)
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("writing chain %s: %w", chain.ChainID, err)
	}
	if err := os.Rename(tmp, final); err != nil {
		return fmt.Errorf("committing chain %s: %w", chain.ChainID, err)
	}
	slog.Debug("saved remediation chain", "chain_id", chain.ChainID, "depth", chain.Depth())
	return nil
}

// Load reads one chain by id.
func (s *Store) Load(chainID string) (*remediation.Chain, error) {
	data, err := os.ReadFile(s.path(chainID))
	if err != nil {
		return nil, fmt.Errorf("reading chain %s: %w", chainID, err)
	}
	var chain remediation.Chain
	if err := yaml.Unmarshal(data, &chain); err != nil {
		return nil, fmt.Errorf("parsing chain %s: %w", chainID, err)
	}
	return &chain, nil
}

// ListPending returns every chain whose top frame (or the chain itself,
// if its stack is empty) has not reached a terminal status.
func (s *Store) ListPending() ([]*remediation.Chain, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("listing chain store: %w", err)
	}

	var pending []*remediation.Chain
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		chainID := strings.TrimSuffix(entry.Name(), ".yaml")
		chain, err := s.Load(chainID)
		if err != nil {
			slog.Warn("skipping unreadable chain file", "chain_id", chainID, "error", err)
			continue
		}
		if !isTerminal(chain) {
			pending = append(pending, chain)
		}
	}
	return pending, nil
}

func isTerminal(chain *remediation.Chain) bool {
	if len(chain.Stack) == 0 {
		return false
	}
	status := chain.Stack[len(chain.Stack)-1].Status
	return status == remediation.FrameStatusDone || status == remediation.FrameStatusCancelled
}

// Cancel marks the top frame cancelled and persists the chain in place.
func (s *Store) Cancel(chainID string) error {
	chain, err := s.Load(chainID)
	if err != nil {
		return err
	}
	if len(chain.Stack) == 0 {
		return fmt.Errorf("chain %s has no frames to cancel", chainID)
	}
	chain.Stack[len(chain.Stack)-1].Status = remediation.FrameStatusCancelled
	return s.Save(chain)
}

// Archive moves a completed chain's file into the archive subdirectory,
// removing it from ListPending's scan without deleting its history.
func (s *Store) Archive(chainID string) error {
	if err := os.Rename(s.path(chainID), s.archivePath(chainID)); err != nil {
		return fmt.Errorf("archiving chain %s: %w", chainID, err)
	}
	slog.Debug("archived remediation chain", "chain_id", chainID)
	return nil
}
