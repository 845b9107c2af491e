package usecase

import (
	"context"
	"testing"

	"github.com/fekuna/penstore/internal/collection"
	"github.com/fekuna/penstore/internal/collection/dto"
	"github.com/fekuna/penstore/internal/collection/repository"
	mediarepo "github.com/fekuna/penstore/internal/media/repository"
	"github.com/fekuna/penstore/internal/model"
	"github.com/fekuna/penstore/internal/testutil"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (collection.UseCase, *sqlx.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	uc := NewCollectionUseCase(repository.NewPGRepository(db), mediarepo.NewPGRepository(db), nil, 0, testutil.Logger(t))
	return uc, db
}

func TestCreateCollectionDerivesSlug(t *testing.T) {
	uc, db := setup(t)
	ctx := context.Background()
	hero := testutil.InsertMedia(t, db, "Writers Edition banner")

	c, err := uc.CreateCollection(ctx, &dto.CreateCollectionInput{
		Name:        "  Writers Edition ",
		Description: "Homage to great authors",
		HeroImageID: &hero.ID,
		Featured:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Writers Edition", c.Name)
	assert.Equal(t, "writers-edition", c.Slug)
	require.NotNil(t, c.HeroImage)
	assert.Equal(t, "Writers Edition banner", c.HeroImage.Alt)

	got, err := uc.GetCollectionBySlug(ctx, "writers-edition")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, c.ID, got.ID)
	require.NotNil(t, got.HeroImage)
}

func TestCreateCollectionValidation(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()

	_, err := uc.CreateCollection(ctx, &dto.CreateCollectionInput{Name: "StarWalker"})
	require.NoError(t, err)

	missing := "no-such-media"
	tests := []struct {
		name  string
		input dto.CreateCollectionInput
		want  error
	}{
		{"empty name", dto.CreateCollectionInput{Name: "  "}, model.ErrInvalid},
		{"bad slug", dto.CreateCollectionInput{Name: "Heritage", Slug: "Heritage Line"}, model.ErrInvalid},
		{"duplicate slug", dto.CreateCollectionInput{Name: "Starwalker"}, model.ErrConflict},
		{"unknown hero", dto.CreateCollectionInput{Name: "Heritage", HeroImageID: &missing}, model.ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.CreateCollection(ctx, &tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGetCollectionBySlugUnknown(t *testing.T) {
	uc, _ := setup(t)
	c, err := uc.GetCollectionBySlug(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = uc.GetCollection(context.Background(), "nope")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestListCollectionsSortedByName(t *testing.T) {
	uc, db := setup(t)
	testutil.InsertCollection(t, db, "StarWalker", "starwalker", false)
	testutil.InsertCollection(t, db, "Heritage", "heritage", true)
	testutil.InsertCollection(t, db, "Meisterstück", "meisterstuck", true)

	page, err := uc.ListCollections(context.Background(), model.QueryOptions{})
	require.NoError(t, err)
	require.Len(t, page.Docs, 3)
	assert.Equal(t, 100, page.Limit)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, []string{"Heritage", "Meisterstück", "StarWalker"},
		[]string{page.Docs[0].Name, page.Docs[1].Name, page.Docs[2].Name})

	page, err = uc.ListCollections(context.Background(), model.QueryOptions{Sort: "-name", Limit: 2, Page: 2})
	require.NoError(t, err)
	require.Len(t, page.Docs, 1)
	assert.Equal(t, "Heritage", page.Docs[0].Name)
	assert.True(t, page.HasPrevPage)
	assert.False(t, page.HasNextPage)
}

func TestListFeaturedCollectionsCapsAtFour(t *testing.T) {
	uc, db := setup(t)
	for _, slug := range []string{"a", "b", "c", "d", "e"} {
		testutil.InsertCollection(t, db, slug, slug, true)
	}
	testutil.InsertCollection(t, db, "plain", "plain", false)

	items, err := uc.ListFeaturedCollections(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 4)
	for _, c := range items {
		assert.True(t, c.Featured)
	}
}

func TestUpdateCollection(t *testing.T) {
	uc, db := setup(t)
	ctx := context.Background()
	testutil.InsertCollection(t, db, "Heritage", "heritage", false)
	c := testutil.InsertCollection(t, db, "StarWalker", "starwalker", false)

	updated, err := uc.UpdateCollection(ctx, &dto.UpdateCollectionInput{ID: c.ID, Name: "StarWalker", Slug: "starwalker", Featured: true})
	require.NoError(t, err)
	assert.True(t, updated.Featured)

	_, err = uc.UpdateCollection(ctx, &dto.UpdateCollectionInput{ID: c.ID, Name: "StarWalker", Slug: "heritage"})
	assert.ErrorIs(t, err, model.ErrConflict)

	_, err = uc.UpdateCollection(ctx, &dto.UpdateCollectionInput{ID: "missing", Name: "x"})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDeleteCollectionWithProductsConflicts(t *testing.T) {
	uc, db := setup(t)
	ctx := context.Background()
	c := testutil.InsertCollection(t, db, "Meisterstück", "meisterstuck", true)
	empty := testutil.InsertCollection(t, db, "Empty", "empty", false)
	testutil.InsertProduct(t, db, testutil.ProductFixture{Name: "149", Slug: "149", CollectionID: c.ID})

	assert.ErrorIs(t, uc.DeleteCollection(ctx, c.ID), model.ErrConflict)
	require.NoError(t, uc.DeleteCollection(ctx, empty.ID))
	assert.ErrorIs(t, uc.DeleteCollection(ctx, empty.ID), model.ErrNotFound)
}
