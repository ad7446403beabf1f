package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"

	"github.com/ivlev/promo2video/internal/config"
	"github.com/ivlev/promo2video/internal/director"
	"github.com/ivlev/promo2video/internal/engine"
	"github.com/ivlev/promo2video/internal/failure"
	"github.com/ivlev/promo2video/internal/preview"
	"github.com/ivlev/promo2video/internal/scene"
	"github.com/ivlev/promo2video/internal/source"
	"github.com/ivlev/promo2video/internal/system"
	"github.com/ivlev/promo2video/internal/video"
)

var version = "dev"

// stringList collects a repeatable flag
type stringList []string

func (s *stringList) String() string     { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error { *s = append(*s, v); return nil }

func main() {
	configPtr := flag.String("config", "", "YAML с настройками рендера")
	contentPtr := flag.String("content", "", "YAML с описанием продукта (ContentConfig)")
	scriptPtr := flag.String("script", "", "Текст сценария (по умолчанию: самый свежий файл в input/scripts/)")
	productPtr := flag.String("product", "", "Название продукта (режим шаблона)")
	stylePtr := flag.String("style", "", styleUsage())
	durationPtr := flag.Float64("duration", 0, "Целевая длительность сценария в секундах (0 - оценка по тексту)")
	tierPtr := flag.String("tier", "", "Разрешение: hd, standard, auto")
	fpsPtr := flag.Int("fps", 0, "FPS")
	bitratePtr := flag.Int("bitrate", 0, "Битрейт, бит/с (0 - по разрешению)")
	outputPtr := flag.String("output", "", "Папка или .webm файл результата (по умолчанию: output/)")
	dumpPlanPtr := flag.Bool("dump-plan", false, "Сохранить план сцен в <output>/plans/")
	planPtr := flag.String("plan", "", "Рендер сохранённого плана (путь или latest)")
	fastPtr := flag.Bool("fast", false, "Рендер без паузы между кадрами")
	servePtr := flag.String("serve", "", "Адрес HTTP предпросмотра, например :8080")
	trimPtr := flag.Bool("trim", false, "Обрезать изображения продукта по содержимому")
	var images stringList
	flag.Var(&images, "image", "Изображение продукта или папка (можно несколько раз)")

	flag.Parse()

	cfg, err := config.Load(*configPtr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[-] Ошибка конфигурации: %v\n", err)
		os.Exit(1)
	}
	cfg.BuildVersion = version

	// flags win over file and environment, but only when given
	outputFile := ""
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "tier":
			cfg.Tier = *tierPtr
		case "fps":
			cfg.FPS = *fpsPtr
		case "bitrate":
			cfg.Bitrate = *bitratePtr
		case "fast":
			cfg.Fast = *fastPtr
		case "serve":
			cfg.ServeAddr = *servePtr
		case "trim":
			cfg.Trim = *trimPtr
		case "output":
			if strings.EqualFold(filepath.Ext(*outputPtr), ".webm") {
				cfg.OutputDir, outputFile = filepath.Split(*outputPtr)
				if cfg.OutputDir == "" {
					cfg.OutputDir = "."
				}
			} else {
				cfg.OutputDir = *outputPtr
			}
		}
	})

	log := newLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tier := system.ResolveTier(ctx, cfg.Tier)
	cfg.ApplyTier(tier)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("[-] Неверные настройки")
	}
	fmt.Printf("[*] Разрешение: %s (%dx%d, %d fps, %d бит/с)\n", tier, cfg.Width, cfg.Height, cfg.FPS, cfg.Bitrate)

	if cfg.Codec == "" {
		codec, err := system.GetBestWebMEncoder(cfg.FFmpegPath)
		if err != nil {
			log.Warn().Err(err).Msg("[!] Не удалось опросить ffmpeg, используется libvpx")
			codec = "libvpx"
		}
		cfg.Codec = codec
		fmt.Printf("[*] Кодек: %s\n", codec)
	}

	for _, d := range []string{"input/scripts", "input/images", cfg.OutputDir} {
		if d != "" {
			os.MkdirAll(d, 0755)
		}
	}

	paths, err := source.Expand(images)
	if err != nil {
		log.Fatal().Err(err).Msg("[-] Ошибка списка изображений")
	}
	handles := source.LoadImages(ctx, paths, source.Options{DPI: cfg.DPI, Trim: cfg.Trim, Padding: 8, Logger: log})
	for _, h := range handles {
		if !h.Ready() {
			fmt.Printf("[!] Изображение пропущено: %s (%v)\n", h.ID, h.Err)
		}
	}

	var reg *preview.Registry
	if cfg.ServeAddr != "" {
		reg = preview.NewRegistry(serveBase(cfg.ServeAddr))
	}

	project := engine.NewVideoProject(cfg, &video.FFmpegEncoder{Path: cfg.FFmpegPath}).WithLogger(log)
	project.Preview = reg
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetDescription("[*] Рендер"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
	)
	project.Progress = func(percent int, stage string) {
		bar.Describe("[*] " + stage)
		bar.Set(percent)
	}

	var art *video.Artifact
	if *planPtr != "" {
		art, err = renderPlan(ctx, project, *planPtr, handles, outputFile)
	} else {
		content, cerr := buildContent(*contentPtr, *scriptPtr, *productPtr, *stylePtr, *durationPtr)
		if cerr != nil {
			log.Fatal().Err(cerr).Msg("[-] Ошибка описания продукта")
		}
		content.ProductImages = handles
		if *dumpPlanPtr {
			dumpPlan(cfg, content, log)
		}
		art, err = generate(ctx, project, content, outputFile, log)
	}
	bar.Finish()

	if err != nil {
		if errors.Is(err, failure.ErrCancelled) {
			fmt.Println("[!] Рендер отменён")
			os.Exit(130)
		}
		log.Fatal().Err(err).Str("kind", failure.KindOf(err).String()).Msg("[-] Ошибка проекта")
	}

	path, err := art.Save(cfg.OutputDir)
	if err != nil {
		log.Fatal().Err(err).Msg("[-] Не удалось сохранить видео")
	}
	stats := project.Stats()
	fmt.Printf("[*] Кадров: %d, пропущено энкодером: %d, время: %s\n",
		stats.Engine.Frames, stats.Capture.FramesDropped, stats.Duration.Round(time.Millisecond))
	fmt.Printf("[+++] Успех! Результат: %s\n", path)

	if reg != nil {
		serve(ctx, cfg.ServeAddr, reg, art, log)
	}
}

func styleUsage() string {
	return "Стиль: " + director.StyleNames() + " (по умолчанию " + string(director.Styles[0]) + ")"
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(lvl).
		With().Timestamp().Logger()
}

// buildContent layers the flags over the optional content file. Without a
// product name or script the newest file in input/scripts is used.
func buildContent(contentPath, scriptPath, product, style string, duration float64) (*director.ContentConfig, error) {
	content := &director.ContentConfig{}
	if contentPath != "" {
		loaded, err := director.LoadContent(contentPath)
		if err != nil {
			return nil, err
		}
		content = loaded
	}
	if product != "" {
		content.ProductName = product
	}
	if style != "" {
		content.Style = director.Style(style)
	}
	if duration > 0 {
		content.TargetDuration = duration
	}

	if scriptPath == "" && content.ProductName == "" && !content.ScriptMode() {
		latest, err := system.FindLatestScript("input/scripts")
		if err != nil {
			return nil, failure.Configuration("find script", fmt.Errorf("%w. Положите сценарий в input/scripts/ или укажите -product", err))
		}
		scriptPath = latest
		fmt.Printf("[*] Выбран сценарий: %s\n", scriptPath)
	}
	if scriptPath != "" {
		data, err := os.ReadFile(scriptPath)
		if err != nil {
			return nil, failure.Configuration("read script", err)
		}
		content.Script = string(data)
	}
	return content, content.Validate()
}

func generate(ctx context.Context, p *engine.VideoProject, content *director.ContentConfig, filename string, log zerolog.Logger) (*video.Artifact, error) {
	if filename == "" {
		return p.Generate(ctx, content)
	}
	d := director.NewDirector(p.Config.Width, p.Config.Height).WithLogger(log)
	scenes, err := d.BuildScenes(content)
	if err != nil {
		return nil, err
	}
	return p.Render(ctx, scenes, filename)
}

func dumpPlan(cfg *config.Config, content *director.ContentConfig, log zerolog.Logger) {
	d := director.NewDirector(cfg.Width, cfg.Height).WithLogger(log)
	scenes, err := d.BuildScenes(content)
	if err != nil {
		log.Warn().Err(err).Msg("[!] План не построен")
		return
	}
	path := director.PlanPath(filepath.Join(cfg.OutputDir, "plans"), time.Now())
	if err := director.WritePlan(d.NewPlan(scenes), path); err != nil {
		log.Warn().Err(err).Msg("[!] План не сохранён")
		return
	}
	fmt.Printf("[*] План сохранён: %s\n", path)
}

func renderPlan(ctx context.Context, p *engine.VideoProject, planPath string, images []scene.ImageHandle, filename string) (*video.Artifact, error) {
	if planPath == "latest" {
		latest, err := director.FindLatestPlan(filepath.Join(p.Config.OutputDir, "plans"))
		if err != nil {
			return nil, failure.Configuration("find plan", err)
		}
		planPath = latest
		fmt.Printf("[*] Выбран план: %s\n", planPath)
	}

	plan, err := director.ReadPlan(planPath)
	if err != nil {
		return nil, failure.Configuration("read plan", err)
	}
	if plan.Width != p.Config.Width || plan.Height != p.Config.Height {
		fmt.Printf("[!] План размечен для %dx%d, рендер в %dx%d\n", plan.Width, plan.Height, p.Config.Width, p.Config.Height)
	}
	bound := plan.Resolve(images)
	fmt.Printf("[*] План: %d сцен, %.1f с, изображений привязано: %d\n", len(plan.Scenes), plan.Duration(), bound)

	if filename == "" {
		base := strings.TrimSuffix(filepath.Base(planPath), filepath.Ext(planPath))
		filename = base + ".webm"
	}
	return p.Render(ctx, plan.Scenes, filename)
}

func serveBase(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

// serve exposes the preview until interrupted
func serve(ctx context.Context, addr string, reg *preview.Registry, art *video.Artifact, log zerolog.Logger) {
	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{Addr: addr, Handler: preview.NewRouter(reg)}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	fmt.Printf("[*] Предпросмотр: %s (Ctrl+C для выхода)\n", art.URL)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("[-] Сервер предпросмотра остановлен")
	}
	reg.Revoke(art.URL)
}
