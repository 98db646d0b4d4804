package images

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/yourorg/eztech-media/internal/config"
	"github.com/yourorg/eztech-media/internal/logging"
	"github.com/yourorg/eztech-media/internal/metrics"
	"github.com/yourorg/eztech-media/internal/storage"
)

// Uploads are always tagged as PNG whatever the real format is.
const uploadContentType = "image/png"

var (
	// ErrFilenameRequired is the only error Fetch returns.
	ErrFilenameRequired = errors.New("filename is required")
	// ErrWipeDisabled guards Wipe outside development environments.
	ErrWipeDisabled = errors.New("wipe is disabled in this environment")
)

//go:embed assets/no-image.png
var bundledPlaceholder []byte

// Status is the numeric half of a two-part result.
type Status int

const (
	StatusFailed Status = 0
	StatusOK     Status = 1
)

// Result carries the status code and a human-readable message.
type Result struct {
	Code    Status
	Message string
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool { return r.Code == StatusOK }

const (
	msgAlreadyExists = "Image already exists"
	msgNotUploaded   = "Image not uploaded"
	msgDeleted       = "Image deleted"
	msgNotFound      = "Image not found"
)

// Gateway gives CRUD-style access to the image blobs of one container.
type Gateway struct {
	store     storage.ObjectStore
	cfg       config.Storage
	allowWipe bool
	log       *zap.Logger

	mu    sync.Mutex
	ready bool
}

// Options carries what New cannot read from config.Storage.
type Options struct {
	Logger *zap.Logger
	// Production disables Wipe regardless of config.Storage.AllowWipe.
	Production bool
}

func New(store storage.ObjectStore, cfg config.Storage, opts Options) *Gateway {
	return &Gateway{
		store:     store,
		cfg:       cfg,
		allowWipe: cfg.AllowWipe && !opts.Production,
		log:       logging.OrNop(opts.Logger).With(zap.String("component", "images")),
	}
}

func (g *Gateway) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.cfg.OpTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, g.cfg.OpTimeout)
}

// ensureContainer provisions the container once per gateway. A failure is not
// remembered, so the next call tries again.
func (g *Gateway) ensureContainer(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ready {
		return nil
	}
	if err := g.store.EnsureContainer(ctx); err != nil {
		return fmt.Errorf("ensure container %s: %w", g.cfg.Container, err)
	}
	g.ready = true
	return nil
}

func (g *Gateway) record(op string, ok bool) {
	metrics.ImageOps.WithLabelValues(op, metrics.Outcome(ok)).Inc()
}
