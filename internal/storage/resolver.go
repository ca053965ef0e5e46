// Package storage maps stored object paths to public Supabase storage URLs.
// Stored paths are either bucket-relative keys owned by us or already-absolute
// URLs pointing at external hosts; the two must not be conflated.
package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	// BannersBucket holds event banner images.
	BannersBucket = "banners"
	// AvatarsBucket holds profile pictures.
	AvatarsBucket = "avatars"
)

// Resolver composes public object URLs against a Supabase project. It does no
// network calls; URLs are cheap to recompute so nothing is cached.
type Resolver struct {
	baseURL       string
	defaultBucket string
}

// NewResolver returns a Resolver for the given project base URL. An empty
// defaultBucket falls back to the banners bucket.
func NewResolver(baseURL, defaultBucket string) *Resolver {
	if defaultBucket == "" {
		defaultBucket = BannersBucket
	}
	return &Resolver{
		baseURL:       strings.TrimRight(baseURL, "/"),
		defaultBucket: defaultBucket,
	}
}

// Resolve turns a stored path into a fetchable URL. Empty paths resolve to an
// empty string (nothing to show), absolute URLs pass through unchanged, and
// bucket-relative keys are composed against the public object endpoint. An
// empty bucket selects the resolver's default.
func (r *Resolver) Resolve(path, bucket string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http") {
		return path
	}
	if bucket == "" {
		bucket = r.defaultBucket
	}
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", r.baseURL, bucket, path)
}

// ObjectPath builds the bucket-relative key for an uploaded file, namespaced by
// the owning user so storage policies can scope writes per user.
func ObjectPath(userID uuid.UUID, filename string) string {
	ext := filepath.Ext(filename)
	return fmt.Sprintf("%s/%s%s", userID.String(), uuid.New().String(), ext)
}
