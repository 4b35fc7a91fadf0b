package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"mytreviews/internal/reviews"
	"mytreviews/internal/store"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

const folder = "reviews"

// Cloudinary hosts review photos on Cloudinary instead of the WordPress media library.
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	logger *zap.SugaredLogger
}

var _ store.PhotoUploader = (*Cloudinary)(nil)

func NewCloudinary(cloudinaryURL string, logger *zap.SugaredLogger) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config: %w", err)
	}
	return &Cloudinary{cld: cld, logger: logger}, nil
}

func (c *Cloudinary) UploadPhoto(ctx context.Context, photo *reviews.Photo) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, store.UploadTimeout)
	defer cancel()

	resp, err := c.cld.Upload.Upload(ctx, bytes.NewReader(photo.Data), uploader.UploadParams{
		Folder:    folder,
		PublicID:  PublicID(store.PhotoFilename(photo.Data)),
		Overwrite: api.Bool(false),
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", resp.Error.Message)
	}

	c.logger.Infow("photo uploaded to cloudinary", "public_id", resp.PublicID)
	return resp.SecureURL, nil
}

// Delete removes a previously uploaded photo by its delivery URL.
func (c *Cloudinary) Delete(ctx context.Context, photoURL string) error {
	publicID, err := PublicIDFromURL(photoURL)
	if err != nil {
		return fmt.Errorf("failed to extract public ID: %w", err)
	}

	if _, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("failed to delete photo from Cloudinary: %w", err)
	}
	return nil
}

// PublicID drops the extension; Cloudinary appends its own.
func PublicID(filename string) string {
	if i := strings.LastIndex(filename, "."); i > 0 {
		return filename[:i]
	}
	return filename
}

// PublicIDFromURL turns
// https://res.cloudinary.com/demo/image/upload/v1740815725/reviews/review-photo-x.png
// into reviews/review-photo-x.
func PublicIDFromURL(photoURL string) (string, error) {
	parsed, err := url.Parse(photoURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}

	parts := strings.Split(parsed.Path, "/")
	for i, part := range parts {
		if part != "upload" || i+1 >= len(parts) {
			continue
		}
		rest := parts[i+1:]
		if len(rest) > 1 && strings.HasPrefix(rest[0], "v") {
			rest = rest[1:]
		}
		return PublicID(strings.Join(rest, "/")), nil
	}

	return "", errors.New("failed to extract public ID from URL")
}
