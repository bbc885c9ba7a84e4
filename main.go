package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/df07/go-wavefront-media/pkg/config"
	"github.com/df07/go-wavefront-media/pkg/core"
	"github.com/df07/go-wavefront-media/pkg/renderer"
	"github.com/df07/go-wavefront-media/pkg/scene"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	sceneType := flag.String("scene", "fog", "Scene type: 'fog', 'cloud' or 'glow'")
	configPath := flag.String("config", "", "YAML render config (defaults when empty)")
	spp := flag.Int("spp", 0, "Samples per pixel (0 keeps the scene's value)")
	exposure := flag.Float64("exposure", 1, "Exposure applied before tone mapping")
	metricsAddr := flag.String("metrics-addr", "", "Serve prometheus metrics on this address while rendering")
	debug := flag.Bool("debug", false, "Log every pass")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Wavefront volumetric renderer")
		fmt.Println("Usage: wavefront [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		for _, name := range scene.Names() {
			fmt.Printf("  %s\n", name)
		}
		fmt.Println()
		fmt.Println("Output will be saved to output/<scene_type>/render_<timestamp>.png")
		return
	}

	logger := core.NewDefaultLogger("wavefront", *debug)
	if err := run(*sceneType, *configPath, *spp, *exposure, *metricsAddr, *debug, logger); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(sceneType, configPath string, spp int, exposure float64, metricsAddr string, debug bool, logger *core.DefaultLogger) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	cfg.Debug = cfg.Debug || debug
	logger.SetDebug(cfg.Debug)

	s, err := scene.New(sceneType)
	if err != nil {
		return err
	}
	if spp > 0 {
		s.SamplingConfig.SamplesPerPixel = spp
	}

	reg := prometheus.NewRegistry()
	if metricsAddr != "" {
		srv := &http.Server{Addr: metricsAddr, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Warnf("metrics server: %v", err)
			}
		}()
		defer srv.Close()
		logger.Infof("serving metrics on %s", metricsAddr)
	}

	rt, err := renderer.NewRaytracer(s, cfg, renderer.WithLogger(logger), renderer.WithRegisterer(reg))
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Infof("rendering scene %q at %dx%d, %d spp, max depth %d",
		s.Name, s.SamplingConfig.Width, s.SamplingConfig.Height, s.SamplingConfig.SamplesPerPixel, cfg.MaxDepth)
	stats, err := rt.Render(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Infof("render completed in %v: %d frames, %d depths, mean radiance %.4f",
		stats.RenderingTime, stats.Frames, stats.Depths, stats.MeanRadiance)

	outputDir := createOutputDir(sceneType)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	filename := filepath.Join(outputDir, fmt.Sprintf("render_%s.png", time.Now().Format("20060102_150405")))
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()
	if err := png.Encode(file, rt.Image(exposure)); err != nil {
		return fmt.Errorf("saving PNG: %w", err)
	}
	logger.Infof("render saved as %s", filename)
	return nil
}

// loadConfig reads the YAML config at path, or returns defaults when path is empty
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func createOutputDir(sceneType string) string {
	return filepath.Join("output", sceneType)
}
