package uploads

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/teeshirtate/storefront-backend/pkg/config"
	pkgerrors "github.com/teeshirtate/storefront-backend/pkg/errors"
	"github.com/teeshirtate/storefront-backend/pkg/logger"
	"github.com/teeshirtate/storefront-backend/pkg/storage/gcs"
)

// ObjectStore is the bucket surface the service relies on.
type ObjectStore interface {
	Upload(ctx context.Context, objectName, contentType string, payload []byte) (string, error)
	List(ctx context.Context, prefix string) ([]gcs.Object, error)
}

type uploadMetrics interface {
	IncUpload(backend string)
}

// Image is one browsable asset for the admin design picker.
type Image struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

// Result reports where a relayed upload landed.
type Result struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Backend  string `json:"backend"`
}

// Service relays design uploads to disk with a bucket fallback and lists
// the assets available to the admin UI.
type Service interface {
	Save(ctx context.Context, filename, contentType string, payload []byte) (*Result, error)
	ListImages(ctx context.Context) ([]Image, error)
}

type service struct {
	cfg     config.UploadsConfig
	prefix  string
	store   ObjectStore
	metrics uploadMetrics
	logg    *logger.Logger
}

// NewService builds the uploads service. store may be nil when no bucket
// is configured; disk is then the only backend.
func NewService(cfg config.UploadsConfig, objectPrefix string, store ObjectStore, metrics uploadMetrics, logg *logger.Logger) (Service, error) {
	if cfg.LocalDir == "" {
		return nil, errors.New("uploads local dir required")
	}
	if cfg.MaxUploadMB <= 0 {
		return nil, errors.New("uploads max size must be positive")
	}
	return &service{cfg: cfg, prefix: objectPrefix, store: store, metrics: metrics, logg: logg}, nil
}

// Save writes the payload to the local uploads directory first and falls
// back to the bucket when the disk write fails. Both failures surface
// together so operators see the full picture.
func (s *service) Save(ctx context.Context, filename, contentType string, payload []byte) (*Result, error) {
	if len(payload) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "upload payload is empty")
	}
	if len(payload) > s.cfg.MaxUploadMB*1024*1024 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("upload exceeds %dMB limit", s.cfg.MaxUploadMB))
	}

	name := s.generateName(filename)

	localErr := s.saveLocal(name, payload)
	if localErr == nil {
		if s.metrics != nil {
			s.metrics.IncUpload("local")
		}
		return &Result{
			URL:      path.Join(s.cfg.PublicPath, name),
			Filename: name,
			Backend:  "local",
		}, nil
	}
	if s.logg != nil {
		s.logg.Warn(ctx, "local upload failed, trying bucket")
	}

	if s.store == nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, localErr, "save upload")
	}

	objectName := name
	if s.prefix != "" {
		objectName = s.prefix + "/" + name
	}
	url, gcsErr := s.store.Upload(ctx, objectName, contentType, payload)
	if gcsErr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency,
			multierr.Append(localErr, gcsErr), "save upload")
	}
	if s.metrics != nil {
		s.metrics.IncUpload("gcs")
	}
	return &Result{URL: url, Filename: name, Backend: "gcs"}, nil
}

// ListImages merges the local uploads directory with the bucket listing.
// With neither backend reachable the static samples keep the picker usable.
func (s *service) ListImages(ctx context.Context) ([]Image, error) {
	var images []Image

	if entries, err := os.ReadDir(s.cfg.LocalDir); err == nil {
		for _, entry := range entries {
			if entry.IsDir() || !isImageName(entry.Name()) {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			images = append(images, Image{
				Name: entry.Name(),
				URL:  path.Join(s.cfg.PublicPath, entry.Name()),
				Size: info.Size(),
			})
		}
	}

	if s.store != nil {
		objects, err := s.store.List(ctx, s.prefix)
		if err != nil {
			if s.logg != nil {
				s.logg.Warn(ctx, "bucket listing failed")
			}
		} else {
			for _, obj := range objects {
				if !isImageName(obj.Name) {
					continue
				}
				images = append(images, Image{
					Name: path.Base(obj.Name),
					URL:  obj.URL,
					Size: obj.Size,
				})
			}
		}
	}

	if len(images) == 0 {
		return sampleImages(), nil
	}
	sort.Slice(images, func(i, j int) bool { return images[i].Name < images[j].Name })
	return images, nil
}

func (s *service) saveLocal(name string, payload []byte) error {
	if err := os.MkdirAll(s.cfg.LocalDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.cfg.LocalDir, name), payload, 0o644)
}

// generateName prefixes a timestamp and random tag so concurrent uploads
// of identically named files never collide.
func (s *service) generateName(filename string) string {
	base := sanitizeFilename(filename)
	return fmt.Sprintf("%d-%06d-%s", time.Now().UnixMilli(), rand.Intn(1000000), base)
}

func sanitizeFilename(filename string) string {
	base := filepath.Base(strings.TrimSpace(filename))
	if base == "." || base == string(filepath.Separator) || base == "" {
		base = "upload"
	}
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}

func isImageName(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg":
		return true
	}
	return false
}

func sampleImages() []Image {
	return []Image{
		{Name: "sample-design-1.png", URL: "/uploads/samples/sample-design-1.png"},
		{Name: "sample-design-2.png", URL: "/uploads/samples/sample-design-2.png"},
		{Name: "sample-design-3.png", URL: "/uploads/samples/sample-design-3.png"},
	}
}
