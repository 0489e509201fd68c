package storage

import (
	"strings"

	"github.com/cukedoh/bakery-backend/pkg/config"
)

// Resolver turns stored image object keys into public URLs. Catalog rows keep
// only the object key; absolute URLs (seeded data, external images) pass
// through untouched.
type Resolver struct {
	baseURL string
}

func NewResolver(cfg config.StorageConfig) *Resolver {
	return &Resolver{baseURL: strings.TrimRight(cfg.ImageBaseURL, "/")}
}

// Resolve returns the public URL for an image reference, or "" for nil/empty.
func (r *Resolver) Resolve(ref *string) string {
	if ref == nil {
		return ""
	}
	key := strings.TrimSpace(*ref)
	if key == "" {
		return ""
	}
	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key
	}
	return r.baseURL + "/" + strings.TrimLeft(key, "/")
}
