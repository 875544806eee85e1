package cloudinary

import (
	"context"
	"fmt"
	"io"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// uploadTransformation bounds incoming images to 800x800 with automatic
// quality. Applied on the base64 path only, matching the API contract.
const uploadTransformation = "c_limit,w_800,h_800,q_auto"

// Client wraps the Cloudinary SDK behind the small surface the media service
// needs.
type Client struct {
	cld    *cld.Cloudinary
	folder string
}

// Config holds Cloudinary credentials and the target folder.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// NewClient creates a new Cloudinary client.
func NewClient(cfg Config) (*Client, error) {
	c, err := cld.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	folder := cfg.Folder
	if folder == "" {
		folder = "cafequest"
	}
	return &Client{
		cld:    c,
		folder: folder,
	}, nil
}

// Upload stores a raw image stream and returns its secure URL and public ID.
func (c *Client) Upload(ctx context.Context, file io.Reader) (string, string, error) {
	res, err := c.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder: c.folder,
	})
	if err := uploadError(res, err); err != nil {
		return "", "", fmt.Errorf("cloudinary upload failed: %w", err)
	}
	return res.SecureURL, res.PublicID, nil
}

// UploadBase64 stores a base64 data-URI image, applying the fixed resize
// transformation.
func (c *Client) UploadBase64(ctx context.Context, data string) (string, string, error) {
	res, err := c.cld.Upload.Upload(ctx, data, uploader.UploadParams{
		Folder:         c.folder,
		Transformation: uploadTransformation,
	})
	if err := uploadError(res, err); err != nil {
		return "", "", fmt.Errorf("cloudinary base64 upload failed: %w", err)
	}
	return res.SecureURL, res.PublicID, nil
}

// Delete removes an image by its full public ID (folder included).
func (c *Client) Delete(ctx context.Context, publicID string) error {
	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID: publicID,
	})
	if err != nil {
		return fmt.Errorf("cloudinary destroy failed: %w", err)
	}
	if res != nil && res.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy failed: %s", res.Error.Message)
	}
	return nil
}

// uploadError folds the SDK's two failure channels (transport error and
// in-body API error) into one.
func uploadError(res *uploader.UploadResult, err error) error {
	if err != nil {
		return err
	}
	if res == nil {
		return fmt.Errorf("empty response")
	}
	if res.Error.Message != "" {
		return fmt.Errorf("%s", res.Error.Message)
	}
	return nil
}
