package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/AngelCh415/funnel-report/internal/ingest"
	"github.com/AngelCh415/funnel-report/internal/models"
)

type Config struct {
	Port        string
	HTTPTimeout time.Duration
	LogLevel    slog.Level
	LogFormat   string
	DatasetFile string
	Dataset     models.Dataset
}

// FromEnv lee PORT, LOG_LEVEL, LOG_FORMAT, HTTP_TIMEOUT_SECONDS, DATASET_FILE y COST_PER_LEAD.
func FromEnv() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	return Load(v)
}

func Load(v *viper.Viper) (Config, error) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("HTTP_TIMEOUT_SECONDS", 15)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	lvl, err := ParseLevel(v.GetString("LOG_LEVEL"))
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Port:        v.GetString("PORT"),
		HTTPTimeout: time.Duration(v.GetInt("HTTP_TIMEOUT_SECONDS")) * time.Second,
		LogLevel:    lvl,
		LogFormat:   strings.ToLower(v.GetString("LOG_FORMAT")),
		DatasetFile: v.GetString("DATASET_FILE"),
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 15 * time.Second
	}

	ds, err := LoadDataset(cfg.DatasetFile)
	if err != nil {
		return Config{}, err
	}
	if v.IsSet("COST_PER_LEAD") {
		c := v.GetFloat64("COST_PER_LEAD")
		if c < 0 {
			return Config{}, fmt.Errorf("%w: COST_PER_LEAD must be >= 0", ingest.ErrInvalid)
		}
		ds.CostPerLead = c
	}
	cfg.Dataset = ds
	return cfg, nil
}

// LoadDataset lee un YAML/JSON/TOML con etapas, regiones y razones; "" usa los valores por defecto.
func LoadDataset(path string) (models.Dataset, error) {
	if path == "" {
		return DefaultDataset(), nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return models.Dataset{}, fmt.Errorf("read dataset %s: %w", path, err)
	}
	var in ingest.DatasetInput
	if err := v.Unmarshal(&in); err != nil {
		return models.Dataset{}, fmt.Errorf("decode dataset %s: %w", path, err)
	}
	ds, err := in.ToDataset(models.Dataset{Stages: models.DefaultStageLabels(), CostPerLead: DefaultCostPerLead})
	if err != nil {
		return models.Dataset{}, fmt.Errorf("dataset %s: %w", path, err)
	}
	return ds, nil
}

func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log level: %s", s)
}
