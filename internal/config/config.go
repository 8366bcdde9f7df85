package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/codingconcepts/env"
	"github.com/joho/godotenv"
)

// Config holds the defaults for a render run. Values come from the
// environment (or a .env file) and are overridden by CLI flags.
type Config struct {
	FPS       float64 `env:"MAPMOVIE_FPS" default:"30"`
	DPI       int     `env:"MAPMOVIE_DPI" default:"100"`
	OutPath   string  `env:"MAPMOVIE_OUT" default:"./movie.gif"`
	Codec     string  `env:"MAPMOVIE_CODEC" default:"mpeg4"`
	Workers   int     `env:"MAPMOVIE_WORKERS" default:"0"`
	FigHeight float64 `env:"MAPMOVIE_FIG_HEIGHT" default:"4.8"`
	// Ширина одной колонки; общая ширина фигуры = колонки * ColWidth
	ColWidth  float64 `env:"MAPMOVIE_FIG_COL_WIDTH" default:"5"`
	ShowStats bool    `env:"MAPMOVIE_STATS" default:"false"`
	Verbose   bool    `env:"MAPMOVIE_VERBOSE" default:"false"`
}

// Load reads .env (if present) and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg := Config{}
	if err := env.Set(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config from environment: %w", err)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %v", c.FPS)
	}
	if c.DPI <= 0 {
		return fmt.Errorf("dpi must be positive, got %d", c.DPI)
	}
	if c.OutPath == "" {
		return fmt.Errorf("output path is empty")
	}
	if c.FigHeight <= 0 || c.ColWidth <= 0 {
		return fmt.Errorf("figure size must be positive, got %vx%v", c.ColWidth, c.FigHeight)
	}
	return nil
}
