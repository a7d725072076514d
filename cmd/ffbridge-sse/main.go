// Command ffbridge-sse serves Amplitude Experiment flags for one target over
// HTTP. Status events are relayed as server-sent events on /events, flag values
// are read from /flags/{kind}/{flag} and bridge metrics are exposed on /metrics.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amplitude/experiment-go-server/pkg/experiment/local"
	"github.com/amplitude/experiment-go-server/pkg/experiment/remote"
	"github.com/caarlos0/env/v11"
	"github.com/go-logr/logr"
	"github.com/open-feature/go-sdk-contrib/providers/ffbridge"
	"github.com/open-feature/go-sdk-contrib/providers/ffbridge/amplitude"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/r3labs/sse/v2"
	"gopkg.in/yaml.v3"
)

// config is read from the environment.
type config struct {
	APIKey           string `env:"FFBRIDGE_API_KEY,required"`
	Addr             string `env:"FFBRIDGE_ADDR" envDefault:":8080"`
	OptionsFile      string `env:"FFBRIDGE_OPTIONS_FILE"`
	TargetIdentifier string `env:"FFBRIDGE_TARGET_IDENTIFIER"`
	TargetName       string `env:"FFBRIDGE_TARGET_NAME"`
	Remote           bool   `env:"FFBRIDGE_REMOTE"`
}

func loadConfig() (config, error) {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// loadOptions reads the host option map from a YAML file. An empty path
// yields no options.
func loadOptions(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read options: %w", err)
	}
	options := map[string]any{}
	if err := yaml.Unmarshal(raw, &options); err != nil {
		return nil, fmt.Errorf("decode options %s: %w", path, err)
	}
	return options, nil
}

// target builds the host target map.
func (c config) target() map[string]any {
	target := map[string]any{}
	if c.TargetIdentifier != "" {
		target["identifier"] = c.TargetIdentifier
	}
	if c.TargetName != "" {
		target["name"] = c.TargetName
	}
	return target
}

func main() {
	logger := logr.FromSlogHandler(slog.NewJSONHandler(os.Stdout, nil))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger); err != nil {
		logger.Error(err, "exiting")
		os.Exit(1)
	}
}

func run(ctx context.Context, logger logr.Logger) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	options, err := loadOptions(cfg.OptionsFile)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	events := sse.New()
	events.AutoReplay = false
	emitter := ffbridge.NewSSEEmitter(events, ffbridge.DefaultSSEStream)

	clientOptions := []amplitude.Option{amplitude.WithLogger(logger)}
	if cfg.Remote {
		clientOptions = append(clientOptions, amplitude.WithRemoteConfig(remote.Config{}))
	} else {
		clientOptions = append(clientOptions, amplitude.WithLocalConfig(local.Config{}))
	}

	bridge, err := ffbridge.New(amplitude.New(clientOptions...), emitter,
		ffbridge.WithLogger(logger),
		ffbridge.WithRegisterer(reg),
	)
	if err != nil {
		return err
	}
	if _, err := bridge.InitializeFromMaps(ctx, cfg.APIKey, options, cfg.target()); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(bridge, events, reg),
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if destroyErr := bridge.Destroy(); destroyErr != nil {
			logger.Error(destroyErr, "destroy bridge")
		}
		return fmt.Errorf("server: %w", err)
	}

	// Event streams never end on their own, so close them before shutting
	// the HTTP server down.
	if err := bridge.Destroy(); err != nil {
		logger.Error(err, "destroy bridge")
	}
	emitter.Close()
	events.Close()

	ctxShut, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShut); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("stopped")
	return nil
}
