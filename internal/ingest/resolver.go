package ingest

import (
	"context"
	"fmt"
	"strings"
)

// CatalogDefaults exposes the catalog-level default universe, if one exists.
type CatalogDefaults interface {
	DefaultUniverse(ctx context.Context) (code string, ok bool, err error)
}

// UniverseResolver resolves a requested universe code with a three-tier
// precedence: explicit request, catalog default, static fallback. The
// precedence is part of the contract — callers who omit the parameter must
// land on the same universe every time.
type UniverseResolver struct {
	catalog  CatalogDefaults
	fallback string
}

// NewUniverseResolver creates a resolver with the given static fallback code.
func NewUniverseResolver(catalog CatalogDefaults, fallback string) *UniverseResolver {
	return &UniverseResolver{catalog: catalog, fallback: fallback}
}

// Resolve returns the universe code to ingest.
func (r *UniverseResolver) Resolve(ctx context.Context, requested string) (string, error) {
	if strings.TrimSpace(requested) != "" {
		return requested, nil
	}

	code, ok, err := r.catalog.DefaultUniverse(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve universe: %w", err)
	}
	if ok && strings.TrimSpace(code) != "" {
		return code, nil
	}

	return r.fallback, nil
}
