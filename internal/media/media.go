// Package media adapts external image hosts (Cloudinary, S3-compatible object
// storage) to the small contract the gallery needs: store bytes, delete by
// handle, and map a public URL back to its handle.
package media

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUpload wraps every failure to store an image.
	ErrUpload = errors.New("upload error")
	// ErrDelete wraps every failure to delete a stored image.
	ErrDelete = errors.New("delete error")
	// ErrBadURL is returned by DeriveHandle for URLs the backend did not issue.
	ErrBadURL = errors.New("cannot derive handle from url")
	// ErrListUnsupported is returned when the backend cannot enumerate objects.
	ErrListUnsupported = errors.New("backend cannot list objects")
)

// File is an upload as received from a client.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// StoredImage describes an object accepted by the host.
type StoredImage struct {
	URL    string
	Handle string
	Size   int64
}

// Object is a stored object as reported by Lister.
type Object struct {
	Handle    string
	CreatedAt time.Time
	Size      int64
}

// Store is the media host contract.
type Store interface {
	Store(ctx context.Context, f File) (StoredImage, error)
	Delete(ctx context.Context, handle string) error
	// DeriveHandle must invert the URL layout produced by Store.
	DeriveHandle(url string) (string, error)
}

// Lister is implemented by backends that can enumerate their objects.
type Lister interface {
	List(ctx context.Context) ([]Object, error)
}
