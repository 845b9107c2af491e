package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/penstore/internal/collection"
	"github.com/fekuna/penstore/internal/collection/dto"
	"github.com/fekuna/penstore/internal/media"
	"github.com/fekuna/penstore/internal/model"
	"github.com/fekuna/penstore/pkg/cache"
	"github.com/fekuna/penstore/pkg/database"
	"github.com/fekuna/penstore/pkg/format"
	"github.com/fekuna/penstore/pkg/logger"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	defaultLimit  = 100
	featuredLimit = 4
	cachePrefix   = "collections"
)

var sortKeys = map[string]string{
	"name":      "name",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

type collectionUseCase struct {
	repo     collection.Repository
	media    media.Repository
	cache    *cache.RedisClient
	cacheTTL time.Duration
	logger   logger.ZapLogger
}

// NewCollectionUseCase builds the use case; cache may be nil.
func NewCollectionUseCase(repo collection.Repository, mediaRepo media.Repository, cache *cache.RedisClient, cacheTTL time.Duration, log logger.ZapLogger) collection.UseCase {
	return &collectionUseCase{
		repo:     repo,
		media:    mediaRepo,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   log,
	}
}

func (uc *collectionUseCase) ListCollections(ctx context.Context, opts model.QueryOptions) (*model.Page[model.Collection], error) {
	opts = opts.Normalize(defaultLimit, defaultLimit, "name")

	cacheKey := uc.cacheKey("list", opts)
	var cached model.Page[model.Collection]
	if uc.getCached(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	field, desc := opts.SortField()
	sortBy, ok := sortKeys[field]
	if !ok {
		sortBy, desc = "name", false
	}

	items, count, err := uc.repo.FindAll(ctx, &dto.CollectionFilters{
		SortBy:   sortBy,
		Desc:     desc,
		Page:     opts.Page,
		PageSize: opts.Limit,
	})
	if err != nil {
		return nil, err
	}
	if err := uc.expand(ctx, items); err != nil {
		return nil, err
	}

	page := model.NewPage(items, count, opts.Page, opts.Limit)
	uc.setCached(ctx, cacheKey, page)
	return page, nil
}

// GetCollectionBySlug returns nil without error when the slug is unknown.
func (uc *collectionUseCase) GetCollectionBySlug(ctx context.Context, slug string) (*model.Collection, error) {
	c, err := uc.repo.FindBySlug(ctx, slug)
	if err != nil || c == nil {
		return nil, err
	}
	return uc.withHero(ctx, c)
}

func (uc *collectionUseCase) ListFeaturedCollections(ctx context.Context) ([]model.Collection, error) {
	cacheKey := cachePrefix + ":featured"
	var cached []model.Collection
	if uc.getCached(ctx, cacheKey, &cached) {
		return cached, nil
	}

	featured := true
	items, _, err := uc.repo.FindAll(ctx, &dto.CollectionFilters{
		Featured: &featured,
		SortBy:   "created_at",
		Desc:     true,
		Page:     1,
		PageSize: featuredLimit,
	})
	if err != nil {
		return nil, err
	}
	if err := uc.expand(ctx, items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Collection{}
	}

	uc.setCached(ctx, cacheKey, items)
	return items, nil
}

func (uc *collectionUseCase) CreateCollection(ctx context.Context, input *dto.CreateCollectionInput) (*model.Collection, error) {
	now := time.Now().UTC()
	c := &model.Collection{
		BaseModel:   model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:        strings.TrimSpace(input.Name),
		Slug:        strings.TrimSpace(input.Slug),
		Description: input.Description,
		HeroImageID: normalizeID(input.HeroImageID),
		Featured:    input.Featured,
	}
	if err := uc.validate(ctx, c); err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, c); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, errors.Wrapf(model.ErrConflict, "slug %q already exists", c.Slug)
		}
		return nil, err
	}
	uc.logger.Info("collection created", zap.String("id", c.ID), zap.String("slug", c.Slug))

	go uc.invalidateCache(context.Background())
	return uc.withHero(ctx, c)
}

func (uc *collectionUseCase) GetCollection(ctx context.Context, id string) (*model.Collection, error) {
	c, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, errors.Wrapf(model.ErrNotFound, "collection %s", id)
	}
	return uc.withHero(ctx, c)
}

func (uc *collectionUseCase) UpdateCollection(ctx context.Context, input *dto.UpdateCollectionInput) (*model.Collection, error) {
	c, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, errors.Wrapf(model.ErrNotFound, "collection %s", input.ID)
	}

	c.Name = strings.TrimSpace(input.Name)
	c.Slug = strings.TrimSpace(input.Slug)
	c.Description = input.Description
	c.HeroImageID = normalizeID(input.HeroImageID)
	c.Featured = input.Featured
	c.UpdatedAt = time.Now().UTC()

	if err := uc.validate(ctx, c); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, c); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, errors.Wrapf(model.ErrConflict, "slug %q already exists", c.Slug)
		}
		return nil, err
	}

	go uc.invalidateCache(context.Background())
	return uc.withHero(ctx, c)
}

// DeleteCollection refuses while products still belong to the collection.
func (uc *collectionUseCase) DeleteCollection(ctx context.Context, id string) error {
	c, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return errors.Wrapf(model.ErrNotFound, "collection %s", id)
	}

	n, err := uc.repo.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return errors.Wrapf(model.ErrConflict, "collection %s still has %d products", c.Slug, n)
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("collection deleted", zap.String("id", id), zap.String("slug", c.Slug))

	go uc.invalidateCache(context.Background())
	return nil
}

func (uc *collectionUseCase) DeleteAll(ctx context.Context) (int, error) {
	items, _, err := uc.repo.FindAll(ctx, &dto.CollectionFilters{})
	if err != nil {
		return 0, err
	}
	for i := range items {
		if err := uc.DeleteCollection(ctx, items[i].ID); err != nil {
			return i, err
		}
	}
	return len(items), nil
}

func (uc *collectionUseCase) validate(ctx context.Context, c *model.Collection) error {
	if c.Name == "" {
		return errors.Wrap(model.ErrInvalid, "name is required")
	}
	if c.Slug == "" {
		c.Slug = format.Slugify(c.Name)
	}
	if !format.IsSlug(c.Slug) {
		return errors.Wrapf(model.ErrInvalid, "slug %q is not URL-safe", c.Slug)
	}

	unique, err := uc.repo.IsSlugUnique(ctx, c.Slug, c.ID)
	if err != nil {
		return err
	}
	if !unique {
		return errors.Wrapf(model.ErrConflict, "slug %q already exists", c.Slug)
	}

	if c.HeroImageID != nil {
		m, err := uc.media.FindByID(ctx, *c.HeroImageID)
		if err != nil {
			return err
		}
		if m == nil {
			return errors.Wrapf(model.ErrInvalid, "hero image %s does not exist", *c.HeroImageID)
		}
	}
	return nil
}

// expand fills HeroImage on every collection in place.
func (uc *collectionUseCase) expand(ctx context.Context, items []model.Collection) error {
	ids := make([]string, 0, len(items))
	for _, c := range items {
		if c.HeroImageID != nil {
			ids = append(ids, *c.HeroImageID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	images, err := uc.media.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].HeroImageID != nil {
			items[i].HeroImage = images[*items[i].HeroImageID]
		}
	}
	return nil
}

func (uc *collectionUseCase) withHero(ctx context.Context, c *model.Collection) (*model.Collection, error) {
	items := []model.Collection{*c}
	if err := uc.expand(ctx, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (uc *collectionUseCase) cacheKey(kind string, v interface{}) string {
	if uc.cache == nil {
		return ""
	}
	key, err := cache.Key(cachePrefix+":"+kind, v)
	if err != nil {
		return ""
	}
	return key
}

func (uc *collectionUseCase) getCached(ctx context.Context, key string, dst interface{}) bool {
	if uc.cache == nil || key == "" {
		return false
	}
	return uc.cache.GetJSON(ctx, key, dst) == nil
}

func (uc *collectionUseCase) setCached(ctx context.Context, key string, v interface{}) {
	if uc.cache == nil || key == "" {
		return
	}
	if err := uc.cache.SetJSON(ctx, key, v, uc.cacheTTL); err != nil {
		uc.logger.Warn("failed to cache collections", zap.String("key", key), zap.Error(err))
	}
}

// invalidateCache drops collection lists and product lists, which embed collections.
func (uc *collectionUseCase) invalidateCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	for _, pattern := range []string{cachePrefix + ":*", "products:*"} {
		if err := uc.cache.DeleteByPattern(ctx, pattern); err != nil {
			uc.logger.Warn("failed to invalidate cache", zap.String("pattern", pattern), zap.Error(err))
		}
	}
}

func normalizeID(id *string) *string {
	if id == nil || strings.TrimSpace(*id) == "" {
		return nil
	}
	v := strings.TrimSpace(*id)
	return &v
}
