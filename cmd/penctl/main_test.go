package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/fekuna/penstore/config"
	"github.com/fekuna/penstore/internal/app"
	"github.com/fekuna/penstore/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Server: config.ServerConfig{AppEnv: "test", PublicURL: "http://localhost:8080"},
		Database: config.DatabaseConfig{
			Driver:     "sqlite3",
			SQLitePath: "file:" + filepath.Join(dir, "penstore.db") + "?_foreign_keys=on",
		},
		JWT:   config.JWTConfig{SecretKey: "secret", TTL: time.Hour},
		Media: config.MediaConfig{StaticDir: filepath.Join(dir, "media"), URLPrefix: "/media"},
		Order: config.OrderConfig{NumberPrefix: "MB"},
		Cart:  config.CartConfig{LocalPath: filepath.Join(dir, "cart")},
	}
}

func run(t *testing.T, c *cli, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c.out = &out
	root := newRootCmd(c)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestUserCreate(t *testing.T) {
	c := &cli{cfg: testConfig(t), log: testutil.Logger(t)}

	out, err := run(t, c, "user", "create", "--email", "admin@example.com", "--password", "correct-horse")
	require.NoError(t, err)
	assert.Contains(t, out, "created admin user admin@example.com")

	_, err = run(t, c, "user", "create", "--email", "admin@example.com", "--password", "correct-horse")
	assert.Error(t, err)
}

func TestCartCommands(t *testing.T) {
	cfg := testConfig(t)
	c := &cli{cfg: cfg, log: testutil.Logger(t)}

	db, err := app.OpenDB(context.Background(), cfg, c.log)
	require.NoError(t, err)
	col := testutil.InsertCollection(t, db, "Heritage", "heritage", false)
	testutil.InsertProduct(t, db, testutil.ProductFixture{Name: "Rouge et Noir", Slug: "rouge-et-noir", CollectionID: col.ID, Price: "1020"})
	testutil.InsertProduct(t, db, testutil.ProductFixture{Name: "Meisterstück 149 Platinum Fountain Pen", Slug: "meisterstuck-149", CollectionID: col.ID, Price: "1110"})
	require.NoError(t, db.Close())

	out, err := run(t, c, "cart", "add", "meisterstuck-149")
	require.NoError(t, err)
	assert.Contains(t, out, "Meisterstück 149 Platinum Fo...")
	assert.NotContains(t, out, "Fountain Pen")
	_, err = run(t, c, "cart", "remove", "meisterstuck-149")
	require.NoError(t, err)

	_, err = run(t, c, "cart", "add", "rouge-et-noir")
	require.NoError(t, err)
	out, err = run(t, c, "cart", "set", "rouge-et-noir", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Rouge et Noir")
	assert.Contains(t, out, "$2,040.00")

	_, err = run(t, c, "cart", "set", "rouge-et-noir", "two")
	assert.Error(t, err)

	out, err = run(t, c, "cart", "checkout", "--name", "Ada Lovelace", "--email", "ada@example.com", "--phone", "5550001111")
	require.NoError(t, err)
	assert.Regexp(t, `order MB-[0-9A-Z]+-[0-9A-Z]{4} placed, total \$2,040\.00`, out)

	out, err = run(t, c, "cart", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "cart is empty")
}

func TestBackfillBlurFailsWhenRecordsFail(t *testing.T) {
	missing := httptest.NewServer(http.NotFoundHandler())
	defer missing.Close()

	cfg := testConfig(t)
	cfg.Server.PublicURL = missing.URL
	c := &cli{cfg: cfg, log: testutil.Logger(t)}

	out, err := run(t, c, "backfill-blur")
	require.NoError(t, err)
	assert.Contains(t, out, "failed: 0")

	db, err := app.OpenDB(context.Background(), cfg, c.log)
	require.NoError(t, err)
	testutil.InsertMedia(t, db, "Lost image")
	require.NoError(t, db.Close())

	out, err = run(t, c, "backfill-blur")
	assert.ErrorIs(t, err, errBackfillFailed)
	assert.Contains(t, out, "failed: 1")
}
