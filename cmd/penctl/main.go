package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fekuna/penstore/config"
	"github.com/fekuna/penstore/internal/app"
	"github.com/fekuna/penstore/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// cli carries what every subcommand needs.
type cli struct {
	cfg     *config.Config
	log     logger.ZapLogger
	out     io.Writer
	cartKey string
}

func main() {
	_ = godotenv.Load()
	cfg := config.LoadEnv()
	log := app.NewLogger(cfg)
	defer log.Sync()

	c := &cli{cfg: cfg, log: log, out: os.Stdout}
	if err := newRootCmd(c).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		log.Sync()
		os.Exit(1)
	}
}

func newRootCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "penctl",
		Short:         "Operator tools for the pen storefront",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(c.out)
	cmd.PersistentFlags().StringVar(&c.cartKey, "cart", "device", "Key of the local cart")

	cmd.AddCommand(
		c.cmdMigrate(),
		c.cmdSeed(),
		c.cmdBackfillBlur(),
		c.cmdUser(),
		c.cmdCart(),
	)
	return cmd
}

// open builds the application with carts kept in the local LevelDB store.
func (c *cli) open(cmd *cobra.Command) (*app.App, error) {
	return app.New(cmd.Context(), c.cfg, c.log, app.Options{LocalCart: true})
}
