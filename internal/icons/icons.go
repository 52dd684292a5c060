// Package icons loads the "goed gezien" rating icons used on the weekly
// poster. Real PNG and JPEG files decode natively; anything else (the icon
// library ships vector MVG/SVG payloads saved with a .png extension) is
// rasterized through ImageMagick.
package icons

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"log/slog"

	xdraw "golang.org/x/image/draw"
)

// Executor runs an external binary and returns its stdout.
type Executor interface {
	Output(ctx context.Context, binary string, args []string) ([]byte, error)
}

// Option customizes a Loader.
type Option func(*Loader)

// WithExecutor overrides command execution, primarily for tests.
func WithExecutor(exec Executor) Option {
	return func(l *Loader) {
		if exec != nil {
			l.exec = exec
		}
	}
}

// Loader resolves icon names to rasterized, square-fitted images. Results
// are cached per (name, size) because the poster repeats icons across rows.
type Loader struct {
	dir      string
	binaries []string
	exec     Executor
	logger   *slog.Logger

	mu    sync.Mutex
	cache map[cacheKey]image.Image
}

type cacheKey struct {
	name string
	size int
}

// NewLoader builds a loader over the configured icons directory. binaries
// lists the ImageMagick entry points to try in order.
func NewLoader(dir string, binaries []string, logger *slog.Logger, opts ...Option) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{
		dir:      dir,
		binaries: binaries,
		exec:     commandExecutor{},
		logger:   logger.With("component", "icons"),
		cache:    map[cacheKey]image.Image{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the named icon scaled to fit a size×size box. The name may
// omit the file extension.
func (l *Loader) Load(ctx context.Context, name string, size int) (image.Image, error) {
	key := cacheKey{name: name, size: size}

	l.mu.Lock()
	if img, ok := l.cache[key]; ok {
		l.mu.Unlock()
		return img, nil
	}
	l.mu.Unlock()

	path, err := l.resolve(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read icon: %w", err)
	}

	var img image.Image
	switch {
	case bytes.HasPrefix(data, pngMagic):
		img, err = png.Decode(bytes.NewReader(data))
	case bytes.HasPrefix(data, jpegMagic):
		img, err = jpeg.Decode(bytes.NewReader(data))
	default:
		img, err = l.rasterize(ctx, path, size)
	}
	if err != nil {
		return nil, fmt.Errorf("decode icon %s: %w", filepath.Base(path), err)
	}

	img = FitWithin(img, size, size)

	l.mu.Lock()
	l.cache[key] = img
	l.mu.Unlock()
	return img, nil
}

var (
	pngMagic  = []byte("\x89PNG\r\n\x1a\n")
	jpegMagic = []byte{0xFF, 0xD8}
)

var iconExtensions = []string{"", ".png", ".jpg", ".jpeg"}

func (l *Loader) resolve(name string) (string, error) {
	for _, ext := range iconExtensions {
		candidate := filepath.Join(l.dir, name+ext)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("icon %q not found in %s", name, l.dir)
}

// rasterize converts a vector payload into PNG pixels via ImageMagick. Each
// configured binary is tried in turn; "magick" on current installs,
// "convert" on older ones.
func (l *Loader) rasterize(ctx context.Context, path string, size int) (image.Image, error) {
	geometry := fmt.Sprintf("%dx%d", size, size)
	var lastErr error
	for _, binary := range l.binaries {
		if _, err := exec.LookPath(binary); err != nil {
			lastErr = err
			continue
		}
		out, err := l.exec.Output(ctx, binary, []string{path, "-resize", geometry, "png:-"})
		if err != nil {
			lastErr = err
			l.logger.Warn("icon rasterization failed", "binary", binary, "icon", filepath.Base(path), "error", err)
			continue
		}
		img, err := png.Decode(bytes.NewReader(out))
		if err != nil {
			lastErr = err
			continue
		}
		return img, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no ImageMagick binary configured")
	}
	return nil, fmt.Errorf("rasterize %s: %w", filepath.Base(path), lastErr)
}

// FitWithin scales img down (or up) to fit a w×h box while keeping its
// aspect ratio. Images already at the target size pass through untouched.
func FitWithin(img image.Image, w, h int) image.Image {
	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW <= 0 || srcH <= 0 || w <= 0 || h <= 0 {
		return img
	}

	scale := min(float64(w)/float64(srcW), float64(h)/float64(srcH))
	dstW := int(float64(srcW) * scale)
	dstH := int(float64(srcH) * scale)
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}
	if dstW == srcW && dstH == srcH {
		return img
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)
	return dst
}

type commandExecutor struct{}

func (commandExecutor) Output(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return nil, fmt.Errorf("%s: %w: %s", binary, err, detail)
		}
		return nil, fmt.Errorf("%s: %w", binary, err)
	}
	return stdout.Bytes(), nil
}
