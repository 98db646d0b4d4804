package images

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/yourorg/eztech-media/internal/metrics"
	"github.com/yourorg/eztech-media/internal/storage"
)

// Source tells where the bytes of a fetch came from.
type Source int

const (
	SourceStored Source = iota
	SourcePlaceholder
)

func (s Source) String() string {
	if s == SourcePlaceholder {
		return "placeholder"
	}
	return "stored"
}

// FetchResult is the detailed outcome behind Fetch. Cause is nil for stored
// content; NotFound separates a missing blob from an unreachable store.
type FetchResult struct {
	Body     io.ReadCloser
	Source   Source
	NotFound bool
	Cause    error
}

// Fetch returns the blob's bytes, or the placeholder image when the download
// fails for any reason. Only an empty filename is reported as an error.
func (g *Gateway) Fetch(ctx context.Context, filename string) (io.ReadCloser, error) {
	res, err := g.Lookup(ctx, filename)
	if err != nil {
		return nil, err
	}
	return res.Body, nil
}

// Lookup is Fetch with the substitution made visible to the caller.
func (g *Gateway) Lookup(ctx context.Context, filename string) (FetchResult, error) {
	if filename == "" {
		return FetchResult{}, ErrFilenameRequired
	}
	ctx, cancel := g.opContext(ctx)
	defer cancel()

	data, err := g.download(ctx, filename)
	if err == nil {
		g.record("fetch", true)
		return FetchResult{Body: io.NopCloser(bytes.NewReader(data)), Source: SourceStored}, nil
	}

	notFound := errors.Is(err, storage.ErrNotFound)
	if notFound {
		g.log.Warn("image not found, serving placeholder", zap.String("filename", filename))
		metrics.FetchFallbacks.WithLabelValues("not_found").Inc()
	} else {
		g.log.Error("image download failed, serving placeholder", zap.String("filename", filename), zap.Error(err))
		metrics.FetchFallbacks.WithLabelValues("error").Inc()
	}
	g.record("fetch", false)
	return FetchResult{
		Body:     io.NopCloser(bytes.NewReader(g.placeholder())),
		Source:   SourcePlaceholder,
		NotFound: notFound,
		Cause:    err,
	}, nil
}

// download buffers the whole object so the reader outlives the op deadline.
func (g *Gateway) download(ctx context.Context, filename string) ([]byte, error) {
	if err := g.ensureContainer(ctx); err != nil {
		return nil, err
	}
	rc, err := g.store.Get(ctx, filename)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// placeholder reads the configured file at call time and falls back to the
// bundled image when it is unset or unreadable.
func (g *Gateway) placeholder() []byte {
	if g.cfg.PlaceholderPath == "" {
		return bundledPlaceholder
	}
	b, err := os.ReadFile(g.cfg.PlaceholderPath)
	if err != nil {
		g.log.Error("placeholder unreadable, using bundled image", zap.String("path", g.cfg.PlaceholderPath), zap.Error(err))
		return bundledPlaceholder
	}
	return b
}

// Store uploads content under filename unless a blob with that name already
// exists. Existing blobs are never overwritten.
func (g *Gateway) Store(ctx context.Context, filename string, content io.Reader) Result {
	res := g.storeBlob(ctx, filename, content)
	g.record("store", res.OK())
	return res
}

func (g *Gateway) storeBlob(ctx context.Context, filename string, content io.Reader) Result {
	log := g.log.With(zap.String("filename", filename))
	if filename == "" {
		log.Warn("upload rejected: empty filename")
		return Result{Code: StatusFailed, Message: msgNotUploaded}
	}
	if content == nil {
		log.Warn("upload rejected: no content")
		return Result{Code: StatusFailed, Message: msgNotUploaded}
	}
	data, err := io.ReadAll(content)
	if err != nil {
		log.Error("reading upload failed", zap.Error(err))
		return Result{Code: StatusFailed, Message: msgNotUploaded}
	}

	ctx, cancel := g.opContext(ctx)
	defer cancel()

	if err := g.ensureContainer(ctx); err != nil {
		log.Error("upload failed", zap.Error(err))
		return Result{Code: StatusFailed, Message: msgNotUploaded}
	}
	exists, err := g.store.Exists(ctx, filename)
	if err != nil {
		log.Error("existence probe failed, upload skipped", zap.Error(err))
		return Result{Code: StatusFailed, Message: msgNotUploaded}
	}
	if exists {
		return Result{Code: StatusFailed, Message: msgAlreadyExists}
	}

	status, err := g.store.Put(ctx, filename, data, uploadContentType)
	if err != nil {
		log.Error("upload failed", zap.Int("status", status), zap.Error(err))
		return Result{Code: StatusFailed, Message: msgNotUploaded}
	}
	if status != http.StatusCreated {
		log.Warn("upload not confirmed", zap.Int("status", status))
		return Result{Code: StatusFailed, Message: msgNotUploaded}
	}
	log.Debug("image stored", zap.Int("bytes", len(data)))
	return Result{Code: StatusOK, Message: filename}
}

// Remove deletes the blob if it exists. Both outcomes are ordinary results.
func (g *Gateway) Remove(ctx context.Context, filename string) Result {
	ctx, cancel := g.opContext(ctx)
	defer cancel()

	deleted, err := g.deleteIfExists(ctx, filename)
	if err != nil {
		g.log.Error("delete failed", zap.String("filename", filename), zap.Error(err))
	}
	g.record("remove", deleted)
	if deleted {
		return Result{Code: StatusOK, Message: msgDeleted}
	}
	return Result{Code: StatusFailed, Message: msgNotFound}
}

func (g *Gateway) deleteIfExists(ctx context.Context, filename string) (bool, error) {
	if err := g.ensureContainer(ctx); err != nil {
		return false, err
	}
	return g.store.DeleteIfExists(ctx, filename)
}

// Exists probes for filename without side effects. Store errors read as false.
func (g *Gateway) Exists(ctx context.Context, filename string) bool {
	ctx, cancel := g.opContext(ctx)
	defer cancel()

	if err := g.ensureContainer(ctx); err != nil {
		g.log.Error("exists probe failed", zap.String("filename", filename), zap.Error(err))
		return false
	}
	ok, err := g.store.Exists(ctx, filename)
	if err != nil {
		g.log.Error("exists probe failed", zap.String("filename", filename), zap.Error(err))
		return false
	}
	return ok
}

// Count enumerates the whole container on every call, O(n) in its size.
// If listing fails the count seen so far is returned.
func (g *Gateway) Count(ctx context.Context) int {
	ctx, cancel := g.opContext(ctx)
	defer cancel()

	n := 0
	err := g.ensureContainer(ctx)
	if err == nil {
		err = g.store.Walk(ctx, func(string) error {
			n++
			return nil
		})
	}
	if err != nil {
		g.log.Error("count incomplete", zap.Int("counted", n), zap.Error(err))
	}
	g.record("count", err == nil)
	return n
}

// Wipe deletes every blob in the container. Individual delete failures are
// logged and skipped; the result is true whenever the wipe was allowed to run.
func (g *Gateway) Wipe(ctx context.Context) (bool, error) {
	if !g.allowWipe {
		g.log.Warn("wipe refused")
		return false, ErrWipeDisabled
	}
	keys, err := g.listKeys(ctx)
	if err != nil {
		g.log.Error("wipe listing aborted", zap.Int("listed", len(keys)), zap.Error(err))
	}

	deleted, failed := 0, 0
	for _, key := range keys {
		if g.deleteForWipe(ctx, key) {
			deleted++
		} else {
			failed++
		}
	}
	g.log.Info("container wiped", zap.String("container", g.cfg.Container), zap.Int("deleted", deleted), zap.Int("failed", failed))
	g.record("wipe", err == nil && failed == 0)
	return true, nil
}

// listKeys snapshots the container under one per-call deadline.
func (g *Gateway) listKeys(ctx context.Context) ([]string, error) {
	ctx, cancel := g.opContext(ctx)
	defer cancel()

	var keys []string
	if err := g.ensureContainer(ctx); err != nil {
		return nil, err
	}
	err := g.store.Walk(ctx, func(key string) error {
		keys = append(keys, key)
		return nil
	})
	return keys, err
}

func (g *Gateway) deleteForWipe(ctx context.Context, key string) bool {
	ctx, cancel := g.opContext(ctx)
	defer cancel()
	if _, err := g.store.DeleteIfExists(ctx, key); err != nil {
		metrics.WipeFailures.Inc()
		g.log.Warn("wipe: delete failed", zap.String("filename", key), zap.Error(err))
		return false
	}
	return true
}
