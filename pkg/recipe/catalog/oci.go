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

package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/distribution/reference"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"

	"github.com/mnemonic-labs/toolplane/pkg/recipe"
)

// ArtifactType is the media type a recipe catalog is pushed/pulled as.
const ArtifactType = "application/vnd.toolplane.recipe-catalog"

// OCIPullOptions configures a catalog fetch from an OCI registry.
type OCIPullOptions struct {
	// Reference is a full image reference, e.g. "ghcr.io/org/recipes:v3".
	Reference string
	// PlainHTTP uses HTTP instead of HTTPS for the registry connection.
	PlainHTTP bool
}

// LoadOCI pulls a recipe catalog artifact from an OCI registry into a
// temporary directory and parses it the same way LoadDir does. It is the
// pull-side mirror of the teacher's push-only OCI support: a recipe
// catalog can be distributed and versioned as an OCI artifact instead of
// being baked into the binary.
func LoadOCI(ctx context.Context, opts OCIPullOptions) (*recipe.Catalog, error) {
	named, err := reference.ParseNormalizedNamed(opts.Reference)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog reference %q: %w", opts.Reference, err)
	}
	registryHost := reference.Domain(named)
	repoPath := reference.Path(named)
	tag := "latest"
	if tagged, ok := named.(reference.Tagged); ok {
		tag = tagged.Tag()
	}

	tempDir, err := os.MkdirTemp("", "toolplane-catalog-*")
	if err != nil {
		return nil, fmt.Errorf("creating catalog pull dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	fs, err := file.New(tempDir)
	if err != nil {
		return nil, fmt.Errorf("creating local oras store: %w", err)
	}
	defer func() { _ = fs.Close() }()

	repo, err := remote.NewRepository(fmt.Sprintf("%s/%s", registryHost, repoPath))
	if err != nil {
		return nil, fmt.Errorf("initializing remote repository: %w", err)
	}
	repo.PlainHTTP = opts.PlainHTTP
	repo.Client = pullAuthClient()

	desc, err := repo.Resolve(ctx, tag)
	if err != nil {
		return nil, fmt.Errorf("resolving catalog manifest %s: %w", opts.Reference, err)
	}
	if desc.MediaType != ocispec.MediaTypeImageManifest && desc.ArtifactType != ArtifactType {
		slog.Warn("catalog artifact has an unexpected media type",
			"reference", opts.Reference, "mediaType", desc.MediaType, "artifactType", desc.ArtifactType)
	}

	if _, err := oras.Copy(ctx, repo, tag, fs, tag, oras.DefaultCopyOptions); err != nil {
		return nil, fmt.Errorf("pulling catalog artifact %s: %w", opts.Reference, err)
	}

	return LoadDir(tempDir)
}

func pullAuthClient() *auth.Client {
	credStore, _ := credentials.NewStoreFromDocker(credentials.StoreOptions{})
	return &auth.Client{
		Client:     http.DefaultClient,
		Cache:      auth.NewCache(),
		Credential: credentials.Credential(credStore),
	}
}
