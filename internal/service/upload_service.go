package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"os"
	"path/filepath"

	"ripple/internal/config"
	"ripple/internal/models"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	defaultUploadDir   = "/tmp/ripple/uploads/images"
	defaultUploadMaxMB = 10
	masterMaxSize      = 2048
	thumbnailSize      = 256
	jpegQuality        = 82
	webpQuality        = 70
)

// UploadService is the blob-store collaborator: it accepts raw image bytes
// and returns a durable URL. Posts store only the URL, never the bytes.
// Storage is a local content-addressed directory; the address doubles as
// dedup (re-uploading identical bytes is a no-op).
type UploadService struct {
	uploadDir    string
	maxSizeBytes int64
	baseURL      string
}

type UploadInput struct {
	UserID      uint
	Filename    string
	ContentType string
	Content     []byte
}

type UploadResult struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

func NewUploadService(cfg *config.Config) *UploadService {
	uploadDir := defaultUploadDir
	maxMB := defaultUploadMaxMB
	baseURL := "/media"

	if cfg != nil {
		if cfg.UploadDir != "" {
			uploadDir = cfg.UploadDir
		}
		if cfg.UploadMaxMB > 0 {
			maxMB = cfg.UploadMaxMB
		}
		if cfg.MediaBaseURL != "" {
			baseURL = cfg.MediaBaseURL
		}
	}

	return &UploadService{
		uploadDir:    uploadDir,
		maxSizeBytes: int64(maxMB) * 1024 * 1024,
		baseURL:      baseURL,
	}
}

// Dir returns the storage root, for wiring the static file route.
func (s *UploadService) Dir() string {
	return s.uploadDir
}

// Upload validates, normalizes and stores an image, returning its durable
// URLs. The master is re-encoded as JPEG bounded to 2048px; a 256px WebP
// thumbnail is stored alongside it.
func (s *UploadService) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("Empty upload")
	}
	if int64(len(in.Content)) > s.maxSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("Upload exceeds %d MB limit", s.maxSizeBytes/(1024*1024)))
	}

	src, _, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return nil, models.NewValidationError("Unsupported or corrupt image")
	}

	sum := sha256.Sum256(in.Content)
	hash := hex.EncodeToString(sum[:])[:20]
	dir := filepath.Join(s.uploadDir, hash)

	master := bound(src, masterMaxSize)
	thumb := bound(src, thumbnailSize)

	var masterBuf bytes.Buffer
	if err := jpeg.Encode(&masterBuf, master, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, models.NewUpstreamError("Image encoding failed", err)
	}
	var thumbBuf bytes.Buffer
	if err := webp.Encode(&thumbBuf, thumb, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, models.NewUpstreamError("Thumbnail encoding failed", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, models.NewUpstreamError("Image storage failed", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "master.jpg"), masterBuf.Bytes(), 0o644); err != nil {
		return nil, models.NewUpstreamError("Image storage failed", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "thumb.webp"), thumbBuf.Bytes(), 0o644); err != nil {
		return nil, models.NewUpstreamError("Image storage failed", err)
	}

	return &UploadResult{
		URL:          fmt.Sprintf("%s/%s/master.jpg", s.baseURL, hash),
		ThumbnailURL: fmt.Sprintf("%s/%s/thumb.webp", s.baseURL, hash),
	}, nil
}

// bound scales an image down so its longest side is at most maxSize,
// preserving aspect ratio. Images already within bounds pass through.
func bound(src image.Image, maxSize int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxSize && h <= maxSize {
		return src
	}

	scale := float64(maxSize) / float64(w)
	if h > w {
		scale = float64(maxSize) / float64(h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}
