// Package seed resets the catalog to the built-in demo collections and products.
package seed

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fekuna/penstore/internal/collection"
	collectiondto "github.com/fekuna/penstore/internal/collection/dto"
	"github.com/fekuna/penstore/internal/media"
	mediadto "github.com/fekuna/penstore/internal/media/dto"
	"github.com/fekuna/penstore/internal/product"
	productdto "github.com/fekuna/penstore/internal/product/dto"
	"github.com/fekuna/penstore/pkg/logger"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// fallbackGIF is a 1x1 transparent GIF used when an image cannot be downloaded.
var fallbackGIF, _ = base64.StdEncoding.DecodeString("R0lGODlhAQABAIAAAAAAAP///yH5BAEAAAAALAAAAAABAAEAAAIBRAA7")

// Fetcher downloads an image.
type Fetcher func(ctx context.Context, url string) ([]byte, error)

type Report struct {
	Collections int
	Products    int
	Media       int
	Fallbacks   int
}

type Seeder struct {
	collections collection.UseCase
	products    product.UseCase
	media       media.UseCase
	fetch       Fetcher
	logger      logger.ZapLogger
}

// NewSeeder builds a seeder; a nil fetch downloads over HTTP.
func NewSeeder(collections collection.UseCase, products product.UseCase, mediaUC media.UseCase, fetch Fetcher, log logger.ZapLogger) *Seeder {
	if fetch == nil {
		fetch = HTTPFetcher(&http.Client{Timeout: 30 * time.Second})
	}
	return &Seeder{
		collections: collections,
		products:    products,
		media:       mediaUC,
		fetch:       fetch,
		logger:      log,
	}
}

func HTTPFetcher(client *http.Client) Fetcher {
	return func(ctx context.Context, url string) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch %s: %s", url, resp.Status)
		}
		return io.ReadAll(resp.Body)
	}
}

// Run clears products, collections and media, then recreates the demo catalog.
// Orders are kept, so a store with orders cannot be reseeded and Run returns
// ErrConflict before touching anything.
func (s *Seeder) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	s.logger.Info("Clearing existing data")
	if _, err := s.products.DeleteAll(ctx); err != nil {
		return nil, errors.Wrap(err, "clear products")
	}
	if _, err := s.collections.DeleteAll(ctx); err != nil {
		return nil, errors.Wrap(err, "clear collections")
	}
	if _, err := s.media.DeleteAll(ctx); err != nil {
		return nil, errors.Wrap(err, "clear media")
	}

	collectionIDs := make(map[string]string, len(collections))
	for _, c := range collections {
		heroID, err := s.upload(ctx, report, c.ImageURL, c.Slug, c.Name+" Hero")
		if err != nil {
			return nil, err
		}
		created, err := s.collections.CreateCollection(ctx, &collectiondto.CreateCollectionInput{
			Name:        c.Name,
			Slug:        c.Slug,
			Description: c.Description,
			HeroImageID: &heroID,
			Featured:    c.Featured,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "create collection %s", c.Slug)
		}
		collectionIDs[c.Slug] = created.ID
		report.Collections++
		s.logger.Info("Created collection", zap.String("name", c.Name))
	}

	for _, p := range products {
		images := make([]productdto.ImageInput, 0, len(p.Images))
		for i, img := range p.Images {
			prefix := fmt.Sprintf("%s-gallery-%d", p.Slug, i)
			if i == 0 {
				prefix = p.Slug + "-hero"
			}
			id, err := s.upload(ctx, report, img.URL, prefix, img.Alt)
			if err != nil {
				return nil, err
			}
			images = append(images, productdto.ImageInput{MediaID: id, Alt: img.Alt})
		}

		_, err := s.products.CreateProduct(ctx, &productdto.CreateProductInput{
			Name:             p.Name,
			Slug:             p.Slug,
			CollectionID:     collectionIDs[p.CollectionSlug],
			Price:            decimal.NewFromInt(p.Price),
			SKU:              p.SKU,
			Description:      p.ShortDescription,
			ShortDescription: p.ShortDescription,
			Specifications:   p.Specifications,
			HeroImageID:      images[0].MediaID,
			Images:           images,
			Stock:            p.Stock,
			Featured:         p.Featured,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "create product %s", p.Slug)
		}
		report.Products++
		s.logger.Info("Created product", zap.String("name", p.Name))
	}

	s.logger.Info("Seed completed",
		zap.Int("collections", report.Collections),
		zap.Int("products", report.Products),
		zap.Int("media", report.Media),
		zap.Int("fallbacks", report.Fallbacks),
	)
	return report, nil
}

// upload stores the image at url, or the fallback GIF when the download or
// the upload of the downloaded bytes fails.
func (s *Seeder) upload(ctx context.Context, report *Report, url, prefix, alt string) (string, error) {
	data, err := s.fetch(ctx, url)
	if err == nil {
		m, uploadErr := s.media.Upload(ctx, &mediadto.UploadInput{Filename: prefix + ".jpg", Alt: alt, Data: data})
		if uploadErr == nil {
			report.Media++
			return m.ID, nil
		}
		err = uploadErr
	}
	s.logger.Warn("Failed to import image, using fallback", zap.String("url", url), zap.Error(err))

	m, err := s.media.Upload(ctx, &mediadto.UploadInput{
		Filename: prefix + "-fallback.gif",
		Alt:      alt + " (Fallback)",
		Data:     fallbackGIF,
	})
	if err != nil {
		return "", errors.Wrapf(err, "upload %s", prefix)
	}
	report.Media++
	report.Fallbacks++
	return m.ID, nil
}
