package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fekuna/penstore/internal/collection"
	"github.com/fekuna/penstore/internal/media"
	"github.com/fekuna/penstore/internal/model"
	"github.com/fekuna/penstore/internal/product"
	"github.com/fekuna/penstore/internal/product/dto"
	"github.com/fekuna/penstore/pkg/cache"
	"github.com/fekuna/penstore/pkg/database"
	"github.com/fekuna/penstore/pkg/format"
	"github.com/fekuna/penstore/pkg/logger"
	"github.com/fekuna/penstore/pkg/search"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	cachePrefix  = "products"
	relatedLimit = 4
	featuredSize = 4
	defaultSort  = "-createdAt"
)

var sortKeys = map[string]string{
	"name":      "name",
	"price":     "price",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"stock":     "stock",
}

const indexMapping = `{
	"mappings": {
		"properties": {
			"name": { "type": "text" },
			"slug": { "type": "keyword" },
			"sku": { "type": "keyword" },
			"short_description": { "type": "text" },
			"description": { "type": "text" },
			"collection_id": { "type": "keyword" },
			"price": { "type": "double" },
			"featured": { "type": "boolean" },
			"created_at": { "type": "date" }
		}
	}
}`

type Options struct {
	CacheTTL        time.Duration
	SearchIndex     string
	DefaultPageSize int
	MaxPageSize     int
}

type productUseCase struct {
	repo        product.Repository
	collections collection.Repository
	media       media.Repository
	cache       *cache.RedisClient
	es          *search.Client
	opts        Options
	logger      logger.ZapLogger
	indexOnce   sync.Once
}

// NewProductUseCase builds the use case; cache and es may be nil.
func NewProductUseCase(
	repo product.Repository,
	collections collection.Repository,
	mediaRepo media.Repository,
	cache *cache.RedisClient,
	es *search.Client,
	opts Options,
	log logger.ZapLogger,
) product.UseCase {
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = 12
	}
	if opts.MaxPageSize <= 0 {
		opts.MaxPageSize = 100
	}
	if opts.SearchIndex == "" {
		opts.SearchIndex = "products"
	}
	return &productUseCase{
		repo:        repo,
		collections: collections,
		media:       mediaRepo,
		cache:       cache,
		es:          es,
		opts:        opts,
		logger:      log,
	}
}

// --- storefront reads ---

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters, opts model.QueryOptions) (*model.Page[model.Product], error) {
	if filters == nil {
		filters = &dto.ProductFilters{}
	}
	opts = opts.Normalize(uc.opts.DefaultPageSize, uc.opts.MaxPageSize, defaultSort)

	f := *filters
	f.SortBy, f.Desc = sortColumn(opts)
	f.Page = opts.Page
	f.PageSize = opts.Limit

	cacheKey := uc.cacheKey("list", struct {
		Filters dto.ProductFilters
		Depth   int
	}{f, opts.Depth})
	var cached model.Page[model.Product]
	if uc.getCached(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	items, count, err := uc.repo.FindAll(ctx, &f)
	if err != nil {
		return nil, err
	}
	if err := uc.expand(ctx, items, opts.Depth); err != nil {
		return nil, err
	}

	page := model.NewPage(items, count, opts.Page, opts.Limit)
	uc.setCached(ctx, cacheKey, page)
	return page, nil
}

// GetProductBySlug returns nil without error when the slug is unknown.
func (uc *productUseCase) GetProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	p, err := uc.repo.FindBySlug(ctx, slug)
	if err != nil || p == nil {
		return nil, err
	}
	return uc.expandOne(ctx, p)
}

func (uc *productUseCase) ListFeaturedProducts(ctx context.Context, limit int) ([]model.Product, error) {
	if limit <= 0 {
		limit = featuredSize
	}
	featured := true
	page, err := uc.ListProducts(ctx, &dto.ProductFilters{Featured: &featured}, model.QueryOptions{Limit: limit})
	if err != nil {
		return nil, err
	}
	return page.Docs, nil
}

// ListProductsByCollection yields an empty page when the collection is unknown.
func (uc *productUseCase) ListProductsByCollection(ctx context.Context, collectionSlug string, opts model.QueryOptions) (*model.Page[model.Product], error) {
	c, err := uc.collections.FindBySlug(ctx, collectionSlug)
	if err != nil {
		return nil, err
	}
	if c == nil {
		opts = opts.Normalize(uc.opts.DefaultPageSize, uc.opts.MaxPageSize, defaultSort)
		return model.NewPage[model.Product](nil, 0, opts.Page, opts.Limit), nil
	}
	return uc.ListProducts(ctx, &dto.ProductFilters{CollectionID: c.ID}, opts)
}

// ListRelatedProducts returns other products of the same collection; an empty
// collection id matches nothing.
func (uc *productUseCase) ListRelatedProducts(ctx context.Context, productID, collectionID string, limit int) ([]model.Product, error) {
	if strings.TrimSpace(collectionID) == "" {
		return []model.Product{}, nil
	}
	if limit <= 0 {
		limit = relatedLimit
	}
	page, err := uc.ListProducts(ctx, &dto.ProductFilters{
		CollectionID: collectionID,
		ExcludeID:    productID,
	}, model.QueryOptions{Limit: limit})
	if err != nil {
		return nil, err
	}
	return page.Docs, nil
}

// SearchProducts ranks with Elasticsearch when available and falls back to
// a substring match in the database.
func (uc *productUseCase) SearchProducts(ctx context.Context, query string, opts model.QueryOptions) (*model.Page[model.Product], error) {
	query = strings.TrimSpace(query)
	opts = opts.Normalize(uc.opts.DefaultPageSize, uc.opts.MaxPageSize, defaultSort)
	if query == "" {
		return uc.ListProducts(ctx, nil, opts)
	}

	if uc.es != nil {
		page, err := uc.searchElastic(ctx, query, opts)
		if err == nil {
			return page, nil
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.String("query", query), zap.Error(err))
	}
	return uc.ListProducts(ctx, &dto.ProductFilters{SearchQuery: query}, opts)
}

func (uc *productUseCase) searchElastic(ctx context.Context, query string, opts model.QueryOptions) (*model.Page[model.Product], error) {
	q := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name^3", "sku", "short_description", "description"},
				"fuzziness": "AUTO",
			},
		},
		"_source": false,
		"from":    opts.Offset(),
		"size":    opts.Limit,
	}
	res, err := uc.es.Search(ctx, uc.opts.SearchIndex, q)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		ids = append(ids, hit.ID)
	}
	if len(ids) == 0 {
		return model.NewPage[model.Product](nil, res.Hits.Total.Value, opts.Page, opts.Limit), nil
	}

	found, _, err := uc.repo.FindAll(ctx, &dto.ProductFilters{IDs: ids})
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	// keep relevance order; ids deleted since indexing are dropped
	items := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			items = append(items, p)
		}
	}
	if err := uc.expand(ctx, items, opts.Depth); err != nil {
		return nil, err
	}
	return model.NewPage(items, res.Hits.Total.Value, opts.Page, opts.Limit), nil
}

// --- admin ---

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	now := time.Now().UTC()
	p := &model.Product{
		BaseModel:        model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:             strings.TrimSpace(input.Name),
		Slug:             strings.TrimSpace(input.Slug),
		CollectionID:     strings.TrimSpace(input.CollectionID),
		Price:            input.Price,
		SKU:              strings.TrimSpace(input.SKU),
		Description:      input.Description,
		ShortDescription: strings.TrimSpace(input.ShortDescription),
		Specifications:   input.Specifications,
		HeroImageID:      normalizeID(input.HeroImageID),
		Stock:            input.Stock,
		Featured:         input.Featured,
		Images:           toImages(input.Images),
	}
	if err := uc.validate(ctx, p); err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, errors.Wrapf(model.ErrConflict, "slug %q or sku %q already exists", p.Slug, p.SKU)
		}
		return nil, err
	}
	uc.logger.Info("product created", zap.String("id", p.ID), zap.String("sku", p.SKU))

	go uc.invalidateCache(context.Background())
	go uc.syncToElastic(context.Background(), *p)
	return uc.expandOne(ctx, p)
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errors.Wrapf(model.ErrNotFound, "product %s", id)
	}
	return uc.expandOne(ctx, p)
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errors.Wrapf(model.ErrNotFound, "product %s", input.ID)
	}

	p.Name = strings.TrimSpace(input.Name)
	p.Slug = strings.TrimSpace(input.Slug)
	p.CollectionID = strings.TrimSpace(input.CollectionID)
	p.Price = input.Price
	p.SKU = strings.TrimSpace(input.SKU)
	p.Description = input.Description
	p.ShortDescription = strings.TrimSpace(input.ShortDescription)
	p.Specifications = input.Specifications
	p.HeroImageID = normalizeID(input.HeroImageID)
	p.Featured = input.Featured
	p.Images = toImages(input.Images)
	p.UpdatedAt = time.Now().UTC()

	if err := uc.validate(ctx, p); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, p); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, errors.Wrapf(model.ErrConflict, "slug %q or sku %q already exists", p.Slug, p.SKU)
		}
		return nil, err
	}
	uc.logger.Info("product updated", zap.String("id", p.ID), zap.String("sku", p.SKU))

	go uc.invalidateCache(context.Background())
	go uc.syncToElastic(context.Background(), *p)
	return uc.expandOne(ctx, p)
}

// DeleteProduct refuses while orders reference the product.
func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return errors.Wrapf(model.ErrNotFound, "product %s", id)
	}

	n, err := uc.repo.CountOrderItems(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return errors.Wrapf(model.ErrConflict, "product %s is referenced by %d order items", p.SKU, n)
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("product deleted", zap.String("id", id), zap.String("sku", p.SKU))

	go uc.invalidateCache(context.Background())
	if uc.es != nil {
		go func() {
			if err := uc.es.Delete(context.Background(), uc.opts.SearchIndex, id); err != nil {
				uc.logger.Error("failed to delete product from index", zap.String("id", id), zap.Error(err))
			}
		}()
	}
	return nil
}

// DeleteAll removes every product. Nothing is deleted while any product is
// still referenced by an order.
func (uc *productUseCase) DeleteAll(ctx context.Context) (int, error) {
	items, _, err := uc.repo.FindAll(ctx, &dto.ProductFilters{})
	if err != nil {
		return 0, err
	}
	ordered := 0
	for i := range items {
		n, err := uc.repo.CountOrderItems(ctx, items[i].ID)
		if err != nil {
			return 0, err
		}
		ordered += n
	}
	if ordered > 0 {
		return 0, errors.Wrapf(model.ErrConflict, "%d order lines reference the catalog", ordered)
	}
	for i := range items {
		if err := uc.DeleteProduct(ctx, items[i].ID); err != nil {
			return i, err
		}
	}
	return len(items), nil
}

func (uc *productUseCase) validate(ctx context.Context, p *model.Product) error {
	if p.Name == "" {
		return errors.Wrap(model.ErrInvalid, "name is required")
	}
	if p.Slug == "" {
		p.Slug = format.Slugify(p.Name)
	}
	if !format.IsSlug(p.Slug) {
		return errors.Wrapf(model.ErrInvalid, "slug %q is not URL-safe", p.Slug)
	}
	if p.SKU == "" {
		return errors.Wrap(model.ErrInvalid, "sku is required")
	}
	if p.Price.IsNegative() {
		return errors.Wrap(model.ErrInvalid, "price must not be negative")
	}
	if p.Stock < 0 {
		return errors.Wrap(model.ErrInvalid, "stock must not be negative")
	}
	if len([]rune(p.ShortDescription)) > model.MaxShortDescription {
		return errors.Wrapf(model.ErrInvalid, "short description exceeds %d characters", model.MaxShortDescription)
	}

	specs := p.Specifications
	if !specs.NibSize.Valid() {
		return errors.Wrapf(model.ErrInvalid, "unknown nib size %q", specs.NibSize)
	}
	if !specs.TrimColor.Valid() {
		return errors.Wrapf(model.ErrInvalid, "unknown trim color %q", specs.TrimColor)
	}
	if !specs.FillingSystem.Valid() {
		return errors.Wrapf(model.ErrInvalid, "unknown filling system %q", specs.FillingSystem)
	}

	if p.CollectionID == "" {
		return errors.Wrap(model.ErrInvalid, "collection is required")
	}
	c, err := uc.collections.FindByID(ctx, p.CollectionID)
	if err != nil {
		return err
	}
	if c == nil {
		return errors.Wrapf(model.ErrInvalid, "collection %s does not exist", p.CollectionID)
	}

	if p.HeroImageID == nil {
		return errors.Wrap(model.ErrInvalid, "hero image is required")
	}
	if len(p.Images) == 0 || len(p.Images) > model.MaxGalleryImages {
		return errors.Wrapf(model.ErrInvalid, "gallery needs 1 to %d images", model.MaxGalleryImages)
	}

	ids := []string{*p.HeroImageID}
	for i, img := range p.Images {
		if img.MediaID == "" || strings.TrimSpace(img.Alt) == "" {
			return errors.Wrapf(model.ErrInvalid, "gallery image %d needs an image and alt text", i+1)
		}
		ids = append(ids, img.MediaID)
	}
	found, err := uc.media.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if found[id] == nil {
			return errors.Wrapf(model.ErrInvalid, "media %s does not exist", id)
		}
	}

	unique, err := uc.repo.IsSlugUnique(ctx, p.Slug, p.ID)
	if err != nil {
		return err
	}
	if !unique {
		return errors.Wrapf(model.ErrConflict, "slug %q already exists", p.Slug)
	}
	unique, err = uc.repo.IsSKUUnique(ctx, p.SKU, p.ID)
	if err != nil {
		return err
	}
	if !unique {
		return errors.Wrapf(model.ErrConflict, "sku %q already exists", p.SKU)
	}
	return nil
}

// expand resolves relationships in place. Depth 1 loads the collection, the
// hero image and gallery images; depth 2 adds the collection's hero image.
func (uc *productUseCase) expand(ctx context.Context, items []model.Product, depth int) error {
	if len(items) == 0 || depth < 1 {
		return nil
	}

	collectionIDs := make([]string, 0, len(items))
	mediaIDs := make([]string, 0, len(items)*2)
	for _, p := range items {
		collectionIDs = append(collectionIDs, p.CollectionID)
		if p.HeroImageID != nil {
			mediaIDs = append(mediaIDs, *p.HeroImageID)
		}
		for _, img := range p.Images {
			mediaIDs = append(mediaIDs, img.MediaID)
		}
	}

	collections, err := uc.collections.FindByIDs(ctx, collectionIDs)
	if err != nil {
		return err
	}
	if depth >= 2 {
		for _, c := range collections {
			if c.HeroImageID != nil {
				mediaIDs = append(mediaIDs, *c.HeroImageID)
			}
		}
	}

	images, err := uc.media.FindByIDs(ctx, mediaIDs)
	if err != nil {
		return err
	}
	if depth >= 2 {
		for _, c := range collections {
			if c.HeroImageID != nil {
				c.HeroImage = images[*c.HeroImageID]
			}
		}
	}

	for i := range items {
		p := &items[i]
		if c := collections[p.CollectionID]; c != nil {
			cc := *c
			p.Collection = &cc
		}
		if p.HeroImageID != nil {
			p.HeroImage = images[*p.HeroImageID]
		}
		for j := range p.Images {
			p.Images[j].Image = images[p.Images[j].MediaID]
		}
	}
	return nil
}

func (uc *productUseCase) expandOne(ctx context.Context, p *model.Product) (*model.Product, error) {
	items := []model.Product{*p}
	if err := uc.expand(ctx, items, model.MaxDepth); err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p model.Product) {
	if uc.es == nil {
		return
	}
	uc.indexOnce.Do(func() {
		if err := uc.es.CreateIndex(ctx, uc.opts.SearchIndex, indexMapping); err != nil {
			uc.logger.Warn("failed to create product index", zap.Error(err))
		}
	})

	p.Images = nil
	if err := uc.es.Index(ctx, uc.opts.SearchIndex, p.ID, p); err != nil {
		uc.logger.Error("failed to index product", zap.String("id", p.ID), zap.Error(err))
	}
}

func (uc *productUseCase) cacheKey(kind string, v interface{}) string {
	if uc.cache == nil {
		return ""
	}
	key, err := cache.Key(cachePrefix+":"+kind, v)
	if err != nil {
		return ""
	}
	return key
}

func (uc *productUseCase) getCached(ctx context.Context, key string, dst interface{}) bool {
	if uc.cache == nil || key == "" {
		return false
	}
	return uc.cache.GetJSON(ctx, key, dst) == nil
}

func (uc *productUseCase) setCached(ctx context.Context, key string, v interface{}) {
	if uc.cache == nil || key == "" {
		return
	}
	if err := uc.cache.SetJSON(ctx, key, v, uc.opts.CacheTTL); err != nil {
		uc.logger.Warn("failed to cache products", zap.String("key", key), zap.Error(err))
	}
}

func (uc *productUseCase) invalidateCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteByPattern(ctx, cachePrefix+":*"); err != nil {
		uc.logger.Warn("failed to invalidate cache", zap.String("pattern", cachePrefix+":*"), zap.Error(err))
	}
}

func sortColumn(opts model.QueryOptions) (string, bool) {
	field, desc := opts.SortField()
	if col, ok := sortKeys[field]; ok {
		return col, desc
	}
	return "created_at", true
}

func toImages(in []dto.ImageInput) []model.ProductImage {
	out := make([]model.ProductImage, 0, len(in))
	for _, img := range in {
		out = append(out, model.ProductImage{
			MediaID: strings.TrimSpace(img.MediaID),
			Alt:     strings.TrimSpace(img.Alt),
		})
	}
	return out
}

func normalizeID(id string) *string {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	return &id
}
