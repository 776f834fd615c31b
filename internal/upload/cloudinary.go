package upload

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Cloudinary streams image blobs to the cloudinary account from config and
// hands back the hosted URL.
type Cloudinary struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinary(cloudName, apiKey, apiSecret string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &Cloudinary{cld: cld}, nil
}

func (u *Cloudinary) Upload(ctx context.Context, r io.Reader) (string, error) {
	res, err := u.cld.Upload.Upload(ctx, r, uploader.UploadParams{Folder: "products"})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if res.SecureURL == "" {
		return "", errors.New("cloudinary upload: empty url in response")
	}
	return res.SecureURL, nil
}
