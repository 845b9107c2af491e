package usecase

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/fekuna/penstore/internal/media"
	"github.com/fekuna/penstore/internal/media/dto"
	"github.com/fekuna/penstore/internal/media/processor"
	"github.com/fekuna/penstore/internal/model"
	"github.com/fekuna/penstore/pkg/cache"
	"github.com/fekuna/penstore/pkg/format"
	"github.com/fekuna/penstore/pkg/logger"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var allowedMimeTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

const backfillBatch = 1000

// Catalog lists embed media URLs and placeholders.
var catalogCachePatterns = []string{"products:*", "collections:*"}

type mediaUseCase struct {
	repo      media.Repository
	storage   media.Storage
	cache     *cache.RedisClient
	client    *http.Client
	publicURL string
	logger    logger.ZapLogger
}

// NewMediaUseCase builds the media use case. publicURL resolves relative media
// URLs when a backfill has to fetch an image over HTTP. cache may be nil.
func NewMediaUseCase(repo media.Repository, storage media.Storage, cache *cache.RedisClient, client *http.Client, publicURL string, log logger.ZapLogger) media.UseCase {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &mediaUseCase{
		repo:      repo,
		storage:   storage,
		cache:     cache,
		client:    client,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    log,
	}
}

func (uc *mediaUseCase) Upload(ctx context.Context, input *dto.UploadInput) (*model.Media, error) {
	if strings.TrimSpace(input.Alt) == "" {
		return nil, errors.Wrap(model.ErrInvalid, "alt text is required")
	}
	if len(input.Data) == 0 {
		return nil, errors.Wrap(model.ErrInvalid, "file is empty")
	}

	mimeType := http.DetectContentType(input.Data)
	ext, ok := allowedMimeTypes[mimeType]
	if !ok {
		return nil, errors.Wrapf(model.ErrUnsupportedMedia, "detected %s", mimeType)
	}

	stem := format.Slugify(strings.TrimSuffix(filepath.Base(input.Filename), filepath.Ext(input.Filename)))
	if stem == "" {
		stem = "image"
	}
	stem = fmt.Sprintf("%s-%s", stem, uuid.New().String()[:8])
	filename := stem + ext

	now := time.Now().UTC()
	m := &model.Media{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Filename:  filename,
		MimeType:  mimeType,
		Filesize:  int64(len(input.Data)),
		Alt:       strings.TrimSpace(input.Alt),
		URL:       uc.storage.URL(filename),
	}

	if err := uc.storage.Save(ctx, filename, input.Data); err != nil {
		return nil, err
	}
	written := []string{filename}

	img, err := processor.Decode(input.Data)
	if err != nil {
		uc.logger.Warn("image decode failed, storing original only", zap.String("filename", filename), zap.Error(err))
	} else {
		b := img.Bounds()
		m.Width, m.Height = b.Dx(), b.Dy()

		if blur, err := processor.Placeholder(img); err != nil {
			uc.logger.Warn("placeholder generation failed, skipping blur_data_url", zap.String("filename", filename), zap.Error(err))
		} else {
			m.BlurDataURL = &blur
		}

		variants, err := processor.Variants(img, mimeType)
		if err != nil {
			uc.logger.Warn("size variants failed", zap.String("filename", filename), zap.Error(err))
		}
		for _, v := range variants {
			name := fmt.Sprintf("%s-%s-%dx%d%s", stem, v.Name, v.Width, v.Height, v.Ext)
			if err := uc.storage.Save(ctx, name, v.Data); err != nil {
				uc.logger.Warn("failed to store size variant", zap.String("size", v.Name), zap.Error(err))
				continue
			}
			written = append(written, name)
			m.Sizes = append(m.Sizes, model.MediaSize{
				MediaID:  m.ID,
				Name:     v.Name,
				Filename: name,
				Width:    v.Width,
				Height:   v.Height,
				URL:      uc.storage.URL(name),
			})
		}
	}

	if err := uc.repo.Create(ctx, m); err != nil {
		for _, name := range written {
			_ = uc.storage.Remove(ctx, name)
		}
		return nil, errors.Wrap(err, "create media")
	}

	uc.logger.Info("media uploaded",
		zap.String("id", m.ID),
		zap.String("filename", filename),
		zap.Int("sizes", len(m.Sizes)),
	)
	return m, nil
}

func (uc *mediaUseCase) GetMedia(ctx context.Context, id string) (*model.Media, error) {
	m, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.Wrapf(model.ErrNotFound, "media %s", id)
	}
	return m, nil
}

func (uc *mediaUseCase) ListMedia(ctx context.Context, opts model.QueryOptions) (*model.Page[model.Media], error) {
	opts = opts.Normalize(24, 100, "-createdAt")
	items, count, err := uc.repo.FindAll(ctx, &dto.MediaFilters{Page: opts.Page, PageSize: opts.Limit})
	if err != nil {
		return nil, err
	}
	return model.NewPage(items, count, opts.Page, opts.Limit), nil
}

// DeleteMedia refuses while a product or collection still uses the media.
func (uc *mediaUseCase) DeleteMedia(ctx context.Context, id string) error {
	m, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return errors.Wrapf(model.ErrNotFound, "media %s", id)
	}
	if err := uc.delete(ctx, m); err != nil {
		return err
	}
	go uc.invalidateCache(context.Background())
	return nil
}

// DeleteAll removes every media record and its files, returning the count.
// It stops at the first record that is still referenced.
func (uc *mediaUseCase) DeleteAll(ctx context.Context) (int, error) {
	items, _, err := uc.repo.FindAll(ctx, &dto.MediaFilters{})
	if err != nil {
		return 0, err
	}
	for i := range items {
		if err := uc.delete(ctx, &items[i]); err != nil {
			return i, err
		}
	}
	if len(items) > 0 {
		go uc.invalidateCache(context.Background())
	}
	return len(items), nil
}

func (uc *mediaUseCase) delete(ctx context.Context, m *model.Media) error {
	n, err := uc.repo.CountReferences(ctx, m.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return errors.Wrapf(model.ErrConflict, "media %s is used %d times", m.Filename, n)
	}
	if err := uc.repo.Delete(ctx, m.ID); err != nil {
		return err
	}
	uc.removeFiles(ctx, m)
	uc.logger.Info("media deleted", zap.String("id", m.ID), zap.String("filename", m.Filename))
	return nil
}

func (uc *mediaUseCase) removeFiles(ctx context.Context, m *model.Media) {
	names := []string{m.Filename}
	for _, s := range m.Sizes {
		names = append(names, s.Filename)
	}
	for _, name := range names {
		if name == "" {
			continue
		}
		if err := uc.storage.Remove(ctx, name); err != nil {
			uc.logger.Warn("failed to remove media file", zap.String("filename", name), zap.Error(err))
		}
	}
}

// BackfillBlur computes the placeholder for every record that lacks one.
// Local files are preferred; otherwise the image is fetched by URL.
func (uc *mediaUseCase) BackfillBlur(ctx context.Context) (*dto.BackfillReport, error) {
	items, total, err := uc.repo.FindAll(ctx, &dto.MediaFilters{MissingBlur: true, Page: 1, PageSize: backfillBatch})
	if err != nil {
		return nil, err
	}
	report := &dto.BackfillReport{Total: total}
	uc.logger.Info("backfilling placeholders", zap.Int("total", total))

	for i := range items {
		m := &items[i]
		name := m.Filename
		if name == "" {
			name = m.ID
		}
		if m.Filename == "" && m.URL == "" {
			uc.logger.Warn("skipping media without filename or url", zap.String("id", m.ID))
			report.Skipped++
			continue
		}

		blur, err := uc.placeholderFor(ctx, m)
		if err == nil {
			err = uc.repo.UpdateBlur(ctx, m.ID, blur)
		}
		if err != nil {
			uc.logger.Error("placeholder backfill failed", zap.String("media", name), zap.Error(err))
			report.Failed++
			report.Failures = append(report.Failures, dto.BackfillFailure{ID: m.ID, Name: name, Reason: err.Error()})
			continue
		}
		uc.logger.Info("placeholder stored", zap.String("media", name))
		report.Success++
	}
	if report.Success > 0 {
		uc.invalidateCache(ctx)
	}
	return report, nil
}

func (uc *mediaUseCase) invalidateCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	for _, pattern := range catalogCachePatterns {
		if err := uc.cache.DeleteByPattern(ctx, pattern); err != nil {
			uc.logger.Warn("failed to invalidate cache", zap.String("pattern", pattern), zap.Error(err))
		}
	}
}

func (uc *mediaUseCase) placeholderFor(ctx context.Context, m *model.Media) (string, error) {
	data, err := uc.imageBytes(ctx, m)
	if err != nil {
		return "", err
	}
	img, err := processor.Decode(data)
	if err != nil {
		return "", err
	}
	return processor.Placeholder(img)
}

func (uc *mediaUseCase) imageBytes(ctx context.Context, m *model.Media) ([]byte, error) {
	if m.Filename != "" {
		data, err := uc.storage.Read(ctx, m.Filename)
		if err == nil {
			return data, nil
		}
		uc.logger.Debug("local file unavailable, fetching by url", zap.String("filename", m.Filename), zap.Error(err))
	}
	if m.URL == "" {
		return nil, errors.New("no url or filename available")
	}

	url := m.URL
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = uc.publicURL + "/" + strings.TrimLeft(url, "/")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	res, err := uc.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %s", url)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, errors.Errorf("HTTP %d fetching %s", res.StatusCode, url)
	}
	return io.ReadAll(res.Body)
}
