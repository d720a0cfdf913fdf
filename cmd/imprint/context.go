package main

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"imprint/internal/config"
	"imprint/internal/expansion"
	"imprint/internal/logging"
	"imprint/internal/pipeline"
	"imprint/internal/promotion"
	"imprint/internal/services/generation"
	"imprint/internal/services/texcompile"
	"imprint/internal/store"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// withStore opens the store for the duration of one command.
func (c *commandContext) withStore(fn func(*config.Config, *store.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(cfg, st)
}

// withPipeline wires the full create path: generation client, expansion
// engine, pipeline, store.
func (c *commandContext) withPipeline(fn func(*config.Config, *pipeline.Pipeline, *store.Store) error) error {
	return c.withStore(func(cfg *config.Config, st *store.Store) error {
		client := generation.NewHTTPClient(generation.Config{
			APIKey:         cfg.Generation.APIKey,
			BaseURL:        cfg.Generation.BaseURL,
			Model:          cfg.Generation.Model,
			TimeoutSeconds: cfg.Generation.TimeoutSeconds,
		})
		engine := expansion.NewEngine(client, expansion.WithLogger(c.ensureLogger()))
		return fn(cfg, pipeline.New(engine, st, cfg.LockDir(), c.ensureLogger()), st)
	})
}

// withManager wires the promotion manager with the configured compiler.
func (c *commandContext) withManager(fn func(*config.Config, *promotion.Manager, *store.Store) error) error {
	return c.withStore(func(cfg *config.Config, st *store.Store) error {
		compiler := texcompile.NewCLI(
			texcompile.WithBinary(cfg.Compiler.Binary),
			texcompile.WithTimeout(time.Duration(cfg.Compiler.TimeoutSeconds)*time.Second),
		)
		return fn(cfg, promotion.NewManager(st, compiler, cfg.LockDir(), c.ensureLogger()), st)
	})
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
