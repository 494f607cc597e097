package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
)

// maxDownloadBytes caps the size of images fetched over HTTP.
const maxDownloadBytes = 32 << 20

// ImageCache provides thread-safe caching of acquired images keyed by their
// source string (a file path or an http(s) URL).
//
// Cached images are already normalized (see Normalize), so every consumer of
// the cache sees a 3-channel *image.NRGBA with its origin at (0,0).
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// Cached images remain in memory until explicitly removed via Evict() or Clear().
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]*image.NRGBA
	client *http.Client
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return NewImageCacheWithClient(&http.Client{Timeout: 30 * time.Second})
}

// NewImageCacheWithClient creates a cache that fetches URLs with client.
func NewImageCacheWithClient(client *http.Client) *ImageCache {
	return &ImageCache{
		images: make(map[string]*image.NRGBA),
		client: client,
	}
}

// Load retrieves an image from the cache or acquires it if not cached.
//
// Sources starting with http:// or https:// are downloaded; anything else is
// treated as a file path. Different spellings of the same file are cached
// separately.
func (c *ImageCache) Load(source string) (*image.NRGBA, error) {
	return c.LoadContext(context.Background(), source)
}

// LoadContext is Load with a context bounding any network fetch.
func (c *ImageCache) LoadContext(ctx context.Context, source string) (*image.NRGBA, error) {
	c.mu.RLock()
	if img, ok := c.images[source]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := Acquire(ctx, c.client, source)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[source] = img
	c.mu.Unlock()

	return img, nil
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]*image.NRGBA)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its source.
// If the source is not in the cache, this method does nothing.
func (c *ImageCache) Evict(source string) {
	c.mu.Lock()
	delete(c.images, source)
	c.mu.Unlock()
}

// Acquire reads an image from a file path or an http(s) URL and normalizes it.
//
// A nil client falls back to http.DefaultClient. The context bounds the
// download; file reads are not interruptible.
func Acquire(ctx context.Context, client *http.Client, source string) (*image.NRGBA, error) {
	if source == "" {
		return nil, fmt.Errorf("empty image source")
	}

	if isURL(source) {
		data, err := fetch(ctx, client, source)
		if err != nil {
			return nil, err
		}
		return DecodeBytes(data)
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	return decode(f)
}

// DecodeBytes decodes an in-memory PNG, JPEG or GIF and normalizes it.
func DecodeBytes(data []byte) (*image.NRGBA, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("failed to decode image: no data")
	}
	return decode(bytes.NewReader(data))
}

func decode(r io.Reader) (*image.NRGBA, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return Normalize(img), nil
}

// Normalize converts any image into a fully opaque *image.NRGBA whose
// bounds start at (0,0).
//
// Grayscale sources become three equal color channels; alpha is discarded by
// forcing every pixel opaque. Callers get a fresh copy even when img is
// already an NRGBA, so the result may be mutated freely.
func Normalize(img image.Image) *image.NRGBA {
	out := imaging.Clone(img)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 0xff
	}
	return out
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build image request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}
	if len(data) > maxDownloadBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", maxDownloadBytes)
	}
	return data, nil
}

// ImageInfo contains metadata about a loaded image.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the detected image format: "png", "jpeg", "gif", or "unknown".
	// Detection is based on the extension of the path or URL.
	Format string `json:"format"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	// Zero for images fetched over HTTP.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image into the cache and returns its metadata.
func LoadImageInfo(cache *ImageCache, source string) (*ImageInfo, error) {
	img, err := cache.Load(source)
	if err != nil {
		return nil, err
	}

	var size int64
	if !isURL(source) {
		stat, err := os.Stat(source)
		if err != nil {
			return nil, fmt.Errorf("failed to stat file: %w", err)
		}
		size = stat.Size()
	}

	ext := strings.ToLower(filepath.Ext(source))
	format := "unknown"
	switch ext {
	case ".png":
		format = "png"
	case ".jpg", ".jpeg":
		format = "jpeg"
	case ".gif":
		format = "gif"
	}

	return &ImageInfo{
		Width:         img.Rect.Dx(),
		Height:        img.Rect.Dy(),
		Format:        format,
		FileSizeBytes: size,
	}, nil
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`
}

// GetDimensions returns the dimensions of an image without additional metadata.
func GetDimensions(cache *ImageCache, source string) (*DimensionsResult, error) {
	img, err := cache.Load(source)
	if err != nil {
		return nil, err
	}

	return &DimensionsResult{
		Width:  img.Rect.Dx(),
		Height: img.Rect.Dy(),
	}, nil
}
