package media

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// uploadTransformation is applied by Cloudinary on ingest: cap at 2000x2000,
// automatic quality and delivery format.
const uploadTransformation = "c_limit,f_auto,h_2000,q_auto:good,w_2000"

// cloudinaryAPI is the subset of the SDK used by CloudinaryStore.
type cloudinaryAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
	Assets(ctx context.Context, params admin.AssetsParams) (*admin.AssetsResult, error)
}

// sdkAPI binds cloudinaryAPI to a real SDK instance.
type sdkAPI struct {
	cld *cloudinary.Cloudinary
}

func (s sdkAPI) Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	return s.cld.Upload.Upload(ctx, file, params)
}

func (s sdkAPI) Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error) {
	return s.cld.Upload.Destroy(ctx, params)
}

func (s sdkAPI) Assets(ctx context.Context, params admin.AssetsParams) (*admin.AssetsResult, error) {
	return s.cld.Admin.Assets(ctx, params)
}

// CloudinaryStore stores images in a Cloudinary folder.
type CloudinaryStore struct {
	api    cloudinaryAPI
	folder string
}

// NewCloudinaryStore builds a store from account credentials.
func NewCloudinaryStore(cloudName, apiKey, apiSecret, folder string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true
	return newCloudinaryStore(sdkAPI{cld: cld}, folder), nil
}

func newCloudinaryStore(a cloudinaryAPI, folder string) *CloudinaryStore {
	return &CloudinaryStore{api: a, folder: strings.Trim(folder, "/")}
}

func (s *CloudinaryStore) Store(ctx context.Context, f File) (StoredImage, error) {
	res, err := s.api.Upload(ctx, bytes.NewReader(f.Data), uploader.UploadParams{
		Folder:         s.folder,
		ResourceType:   "image",
		AllowedFormats: api.CldAPIArray(AllowedFormats),
		Transformation: uploadTransformation,
	})
	if err != nil {
		return StoredImage{}, fmt.Errorf("%w: %v", ErrUpload, err)
	}
	if res == nil {
		return StoredImage{}, fmt.Errorf("%w: empty response", ErrUpload)
	}
	if res.Error.Message != "" {
		return StoredImage{}, fmt.Errorf("%w: %s", ErrUpload, res.Error.Message)
	}
	u := res.SecureURL
	if u == "" {
		u = res.URL
	}
	return StoredImage{URL: u, Handle: res.PublicID, Size: int64(res.Bytes)}, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, handle string) error {
	res, err := s.api.Destroy(ctx, uploader.DestroyParams{PublicID: handle})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDelete, err)
	}
	if res == nil {
		return fmt.Errorf("%w: empty response", ErrDelete)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("%w: %s", ErrDelete, res.Error.Message)
	}
	// "not found": объекта уже нет, удаление идемпотентно
	if res.Result != "ok" && res.Result != "not found" {
		return fmt.Errorf("%w: unexpected result %q", ErrDelete, res.Result)
	}
	return nil
}

// DeriveHandle maps
//
//	https://res.cloudinary.com/<cloud>/image/upload/<transforms>/v123/<folder>/<name>.<ext>
//
// back to "<folder>/<name>".
func (s *CloudinaryStore) DeriveHandle(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Path == "" {
		return "", fmt.Errorf("%w: %q", ErrBadURL, raw)
	}
	p := u.Path
	if s.folder != "" {
		if i := strings.Index(p, "/"+s.folder+"/"); i >= 0 {
			return stripExt(p[i+1:]), nil
		}
	}
	base := path.Base(p)
	if base == "/" || base == "." {
		return "", fmt.Errorf("%w: %q", ErrBadURL, raw)
	}
	if s.folder == "" {
		return stripExt(base), nil
	}
	return s.folder + "/" + stripExt(base), nil
}

// List pages through every image under the folder.
func (s *CloudinaryStore) List(ctx context.Context) ([]Object, error) {
	var (
		out    []Object
		cursor string
	)
	prefix := ""
	if s.folder != "" {
		prefix = s.folder + "/"
	}
	for {
		res, err := s.api.Assets(ctx, admin.AssetsParams{
			AssetType:    api.Image,
			DeliveryType: string(api.Upload),
			Prefix:       prefix,
			MaxResults:   500,
			NextCursor:   cursor,
		})
		if err != nil {
			return nil, fmt.Errorf("list assets: %w", err)
		}
		if res.Error.Message != "" {
			return nil, fmt.Errorf("list assets: %s", res.Error.Message)
		}
		for _, a := range res.Assets {
			out = append(out, Object{Handle: a.PublicID, CreatedAt: a.CreatedAt, Size: int64(a.Bytes)})
		}
		if res.NextCursor == "" {
			return out, nil
		}
		cursor = res.NextCursor
	}
}

func stripExt(p string) string {
	dir, file := path.Split(p)
	if i := strings.Index(file, "."); i >= 0 {
		file = file[:i]
	}
	return dir + file
}
