package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/b3quant/apurador/internal/cfg"
	"github.com/b3quant/apurador/internal/dbg"
	"github.com/b3quant/apurador/pkg/accounting"
	"github.com/b3quant/apurador/pkg/api"
	"github.com/b3quant/apurador/pkg/data/duckdb"
	"github.com/b3quant/apurador/pkg/utility/fixed"
)

const Version = "1.0.0"

func main() {
	config := cfg.LoadFromEnv("")

	var logger *zap.Logger
	if config.Dev {
		logger = dbg.NewDevLogger()
	} else {
		logger = dbg.NewProdLogger()
	}
	defer logger.Sync()

	logger.Info("apurador started", zap.String("version", Version))
	defer logger.Info("apurador finished")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	mapping, ok := accounting.LookupSideMapping(config.SideMapping)
	if !ok {
		logger.Fatal("side mapping must be configured",
			zap.String("value", config.SideMapping))
	}
	granularity, err := accounting.ParseGranularity(config.Granularity)
	if err != nil {
		logger.Fatal("invalid granularity", zap.Error(err))
	}

	base := accounting.Options{
		SideMapping:      mapping,
		Granularity:      granularity,
		ReferenceAccount: config.ReferenceAccount,
	}
	if config.PriceScale != 1 {
		base.PriceScale = fixed.FromFloat64(config.PriceScale)
	}

	options := []api.Option{api.WithAllowedOrigins(config.AllowedOrigins)}
	if config.ArchivePath != "" {
		archive, err := duckdb.OpenArchive(config.ArchivePath)
		if err != nil {
			logger.Fatal("unable to open report archive", zap.Error(err))
		}
		defer archive.Close()
		options = append(options, api.WithArchive(archive))
	}

	server := api.NewServer(logger, base, options...)
	if err := server.Run(ctx, config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server stopped unexpectedly", zap.Error(err))
	}
}
