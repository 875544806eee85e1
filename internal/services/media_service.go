package services

import (
	"context"
	"fmt"
	"io"
	"log"
)

// ImageStore abstracts the external media host.
type ImageStore interface {
	Upload(ctx context.Context, file io.Reader) (url, publicID string, err error)
	UploadBase64(ctx context.Context, data string) (url, publicID string, err error)
	Delete(ctx context.Context, publicID string) error
}

// UploadResult identifies a stored image.
type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// MediaService delegates image storage to an external host. Host failures
// surface as ErrUpstream with the cause logged server-side only.
type MediaService struct {
	store  ImageStore
	folder string
}

// NewMediaService creates a new MediaService. A nil store means no media
// host is configured; every operation then fails upstream.
func NewMediaService(store ImageStore, folder string) *MediaService {
	return &MediaService{
		store:  store,
		folder: folder,
	}
}

// Upload stores a raw image stream on the media host.
func (s *MediaService) Upload(ctx context.Context, file io.Reader) (*UploadResult, error) {
	if s.store == nil {
		return nil, fmt.Errorf("media host not configured: %w", ErrUpstream)
	}
	url, publicID, err := s.store.Upload(ctx, file)
	if err != nil {
		log.Printf("Image upload failed: %v", err)
		return nil, fmt.Errorf("error uploading image: %w", ErrUpstream)
	}
	return &UploadResult{URL: url, PublicID: publicID}, nil
}

// UploadBase64 stores a base64 data-URI image, letting the host apply the
// fixed resize policy.
func (s *MediaService) UploadBase64(ctx context.Context, data string) (*UploadResult, error) {
	if s.store == nil {
		return nil, fmt.Errorf("media host not configured: %w", ErrUpstream)
	}
	url, publicID, err := s.store.UploadBase64(ctx, data)
	if err != nil {
		log.Printf("Base64 image upload failed: %v", err)
		return nil, fmt.Errorf("error uploading image: %w", ErrUpstream)
	}
	return &UploadResult{URL: url, PublicID: publicID}, nil
}

// Delete removes an image from the media host. The public ID from the API
// path is relative to the app's folder.
func (s *MediaService) Delete(ctx context.Context, publicID string) error {
	if s.store == nil {
		return fmt.Errorf("media host not configured: %w", ErrUpstream)
	}
	if err := s.store.Delete(ctx, s.folder+"/"+publicID); err != nil {
		log.Printf("Image delete failed: %v", err)
		return fmt.Errorf("error deleting image: %w", ErrUpstream)
	}
	return nil
}
