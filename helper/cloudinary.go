package helper

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gosimple/slug"
)

const menuImageFolder = "campus_eats/menu"

func InitCloudinary(cloudName, apiKey, apiSecret string) (*cloudinary.Cloudinary, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, errors.New("cloudinary credentials are not configured")
	}
	return cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
}

// CloudinaryImages stores menu pictures and hands back their public URL.
type CloudinaryImages struct {
	Cld *cloudinary.Cloudinary
}

func (s *CloudinaryImages) UploadMenuImage(ctx context.Context, file io.Reader, name string) (string, error) {
	overwrite := true
	result, err := s.Cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       menuImageFolder,
		PublicID:     slug.Make(name),
		Overwrite:    &overwrite,
		ResourceType: "image",
	})
	if err != nil {
		return "", err
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary: %s", result.Error.Message)
	}
	return result.SecureURL, nil
}
