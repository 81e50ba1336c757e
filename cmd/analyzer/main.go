package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"modelbias/internal/analysis"
	"modelbias/internal/config"
	"modelbias/internal/data"
	"modelbias/internal/models"
	"modelbias/internal/scoring"
	"modelbias/pkg/utils"
)

func main() {
	cfgPath := flag.String("config", "bias.yaml", "Configuration file (.yaml or .toml)")
	raw := flag.String("raw", "", "Raw madlibs CSV, overrides the configuration")
	scored := flag.String("scored", "", "Scored cache CSV, overrides the configuration")
	minAUC := flag.Float64("min_auc", -1, "Lower bound of the histogram x axis, overrides the configuration")
	outImg := flag.String("out_img", "", "Histogram PNG, overrides the configuration")
	parallelism := flag.Int("parallelism", -1, "Models scored at once, overrides the configuration")
	regen := flag.Bool("regen", false, "Regenerate the raw madlibs dataset before analysis")
	regenN := flag.Int("regen_n", 89000, "Rows in a regenerated madlibs dataset")
	asJSON := flag.Bool("json", false, "Print the family statistics as JSON")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*cfgPath, isFlagSet("config"))
	if err != nil {
		utils.Logger().Fatal("load configuration", zap.Error(err))
	}
	overrides(&cfg, *raw, *scored, *outImg, *minAUC, *parallelism)
	if err := cfg.Validate(); err != nil {
		utils.Logger().Fatal("configuration", zap.Error(err))
	}
	logger, err := utils.NewLogger(cfg.Log)
	if err != nil {
		utils.Logger().Fatal("build logger", zap.Error(err))
	}
	utils.SetLogger(logger)
	defer logger.Sync()

	if *regen {
		logger.Info("generating madlibs", zap.Int("n", *regenN), zap.String("out", cfg.RawPath))
		if err := data.GenerateMadlibs(*regenN, 1, cfg.RawPath); err != nil {
			logger.Fatal("generate madlibs", zap.Error(err))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := run(ctx, cfg, *asJSON, os.Stdout, logger)
	if err != nil {
		logger.Fatal("analysis failed", zap.Error(err))
	}
	logger.Info("family analysed", zap.Int("models", len(res.Models)), zap.String("histogram", cfg.HistogramPath))
}

func overrides(cfg *config.Config, raw, scored, outImg string, minAUC float64, parallelism int) {
	if raw != "" {
		cfg.RawPath = raw
	}
	if scored != "" {
		cfg.ScoredPath = scored
	}
	if outImg != "" {
		cfg.HistogramPath = outImg
	}
	if minAUC >= 0 {
		cfg.MinAUC = minAUC
	}
	if parallelism >= 0 {
		cfg.Parallelism = parallelism
	}
}

// run loads (or computes) the scored madlibs table and reports the AUC
// spread of the family to out.
func run(ctx context.Context, cfg config.Config, asJSON bool, out io.Writer, logger *zap.Logger) (analysis.FamilyAUC, error) {
	specs, err := cfg.ModelSpecs()
	if err != nil {
		return analysis.FamilyAUC{}, err
	}
	family, err := models.LoadFamily(specs)
	if err != nil {
		return analysis.FamilyAUC{}, err
	}
	logger.Info("model family", zap.Strings("models", models.Names(family)))

	table, err := scoring.LoadScoredMadlibs(ctx, family, scoring.Paths{Raw: cfg.RawPath, Scored: cfg.ScoredPath},
		scoring.Options{Parallelism: cfg.Parallelism, TextColumn: cfg.TextColumn, LabelColumn: cfg.LabelColumn, Logger: logger})
	if err != nil {
		return analysis.FamilyAUC{}, err
	}

	names := models.Names(family)
	if len(names) == 0 {
		names = scoring.ModelColumns(table, cfg.LabelColumn, cfg.TextColumn)
		logger.Info("no models configured, using cached score columns", zap.Strings("models", names))
	}

	var sink analysis.HistogramSink
	if cfg.HistogramPath != "" {
		sink = analysis.PNGFile{Path: cfg.HistogramPath, Bins: cfg.Bins}
	}
	text := out
	if asJSON {
		text = io.Discard
	}
	res, err := analysis.PlotModelFamilyAUC(table, names, cfg.LabelColumn, cfg.MinAUC, text, sink)
	if err != nil {
		return res, err
	}
	if asJSON {
		if len(res.AUCs) == 0 {
			return res, fmt.Errorf("no model columns to report")
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return res, err
		}
	}
	return res, nil
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
