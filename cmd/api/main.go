package main

import (
	"context"
	"flag"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"modelbias/internal/config"
	"modelbias/internal/models"
	"modelbias/internal/scoring"
	"modelbias/pkg/utils"
)

func main() {
	cfgPath := flag.String("config", "bias.yaml", "Configuration file (.yaml or .toml)")
	listen := flag.String("listen", "", "Listen address, overrides the configuration")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*cfgPath, isFlagSet("config"))
	if err != nil {
		utils.Logger().Fatal("load configuration", zap.Error(err))
	}
	if *listen != "" {
		cfg.Listen = *listen
	}
	logger, err := utils.NewLogger(cfg.Log)
	if err != nil {
		utils.Logger().Fatal("build logger", zap.Error(err))
	}
	utils.SetLogger(logger)
	defer logger.Sync()

	s, err := newServer(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("load scored madlibs", zap.Error(err))
	}

	gin.SetMode(gin.ReleaseMode)
	logger.Info("serving scored madlibs", zap.String("listen", cfg.Listen), zap.Strings("models", s.names), zap.Int("rows", s.table.Len()))
	if err := s.routes().Run(cfg.Listen); err != nil {
		logger.Fatal("http server", zap.Error(err))
	}
}

// newServer loads the model family and the scored table described by cfg.
// Without configured models the score columns found in the table are served.
func newServer(ctx context.Context, cfg config.Config, logger *zap.Logger) (*server, error) {
	specs, err := cfg.ModelSpecs()
	if err != nil {
		return nil, err
	}
	family, err := models.LoadFamily(specs)
	if err != nil {
		return nil, err
	}
	table, err := scoring.LoadScoredMadlibs(ctx, family, scoring.Paths{Raw: cfg.RawPath, Scored: cfg.ScoredPath},
		scoring.Options{Parallelism: cfg.Parallelism, TextColumn: cfg.TextColumn, LabelColumn: cfg.LabelColumn, Logger: logger})
	if err != nil {
		return nil, err
	}
	names := models.Names(family)
	if len(names) == 0 {
		names = scoring.ModelColumns(table, cfg.LabelColumn, cfg.TextColumn)
	}
	return &server{
		table:       table,
		family:      family,
		names:       names,
		labelColumn: cfg.LabelColumn,
		minAUC:      cfg.MinAUC,
		bins:        cfg.Bins,
		apiKey:      cfg.APIKey,
		log:         logger,
	}, nil
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
