package media

import (
	"fmt"

	"Gallerist/internal/config"
)

// FromConfig builds the configured backend wrapped in a Guard.
func FromConfig(cfg *config.Config) (*Guard, error) {
	var (
		next Store
		err  error
	)
	switch cfg.MediaBackend {
	case config.MediaMinio:
		m := cfg.Minio
		if m.Endpoint == "" {
			return nil, fmt.Errorf("minio backend requires MINIO_ENDPOINT")
		}
		next, err = NewMinioStore(m.Endpoint, m.AccessKey, m.SecretKey, m.Bucket, cfg.MediaFolder, m.PublicURL, m.UseSSL)
	default:
		c := cfg.Cloudinary
		if c.CloudName == "" || c.APIKey == "" || c.APISecret == "" {
			return nil, fmt.Errorf("cloudinary backend requires CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET")
		}
		next, err = NewCloudinaryStore(c.CloudName, c.APIKey, c.APISecret, cfg.MediaFolder)
	}
	if err != nil {
		return nil, err
	}
	return NewGuard(next, cfg.MediaMaxBytes()), nil
}
