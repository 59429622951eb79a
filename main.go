package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"shortsmith/api"
	"shortsmith/caption"
	"shortsmith/common"
	"shortsmith/config"
	"shortsmith/datalog"
	"shortsmith/naming"
	"shortsmith/pipeline"
	"shortsmith/publish"
	"shortsmith/render"
	"shortsmith/shared/kafka"
	"shortsmith/video"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

const (
	// DefaultAPIPort is the default port for the HTTP API server
	DefaultAPIPort = ":8081"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()
	config.InitLogger()

	batchMode := flag.Bool("batch", false, "Process every request file in the input/ directory and exit")
	kafkaMode := flag.Bool("kafka", false, "Consume render requests from Kafka")
	schedule := flag.String("schedule", "", "Cron schedule for recurring batch runs (e.g. \"@every 1h\")")
	apiPort := flag.String("port", DefaultAPIPort, "API server port (e.g., :8081)")
	flag.Parse()

	settings, err := config.LoadSettings()
	if err != nil {
		config.Log.WithError(err).Fatal("Failed to load settings")
	}

	rasterizer, err := caption.NewRodRasterizer()
	if err != nil {
		config.Log.WithError(err).Fatal("Failed to start caption rasterizer")
	}
	defer rasterizer.Close()

	store := datalog.OpenFromEnv()
	if c, ok := store.(interface{ Close() error }); ok {
		defer c.Close()
	}

	namer := &naming.Namer{Lang: settings.PostLang}
	if t := naming.NewCohereTranslator(); t != nil {
		namer.Translator = t
	}

	renderer := &pipeline.Renderer{
		Settings:   settings,
		Prober:     video.FFProbe{},
		Rasterizer: rasterizer,
		Encoder:    render.NewDispatcher(settings.Threads),
		Namer:      namer,
		Store:      store,
	}
	proc := pipeline.NewProcessor(renderer, initPublishers()...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *batchMode:
		config.Log.Info("Running in BATCH mode")
		if err := proc.ProcessFromDirectory(ctx, config.InputDir); err != nil {
			config.Log.WithError(err).Fatal("Batch processing failed")
		}

	case *kafkaMode:
		cfg := kafka.ConfigFromEnv()
		cfg.Handler = kafka.NewRenderHandler(proc)
		config.Log.WithField("brokers", cfg.Brokers).
			WithField("topic", cfg.Topic).
			WithField("group", cfg.GroupID).
			Info("Running in KAFKA consumer mode")
		if err := kafka.Run(ctx, cfg); err != nil {
			config.Log.WithError(err).Fatal("Kafka consumer failed")
		}

	case *schedule != "":
		runScheduled(ctx, proc, *schedule)

	default:
		config.Log.WithField("port", *apiPort).Info("Running in API mode")
		if err := api.NewRouter(proc).Run(*apiPort); err != nil {
			config.Log.WithError(err).Fatal("Server failed")
		}
	}
}

// runScheduled scans the input directory on every tick until ctx ends.
// Ticks that fire while a scan is still running are skipped.
func runScheduled(ctx context.Context, proc *pipeline.Processor, schedule string) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc(schedule, func() {
		config.Log.Info("Cron triggered: scanning input directory")
		if err := proc.ProcessFromDirectory(ctx, config.InputDir); err != nil {
			config.Log.WithError(err).Warn("Scheduled batch finished with errors")
		}
	})
	if err != nil {
		config.Log.WithError(err).Fatal("Invalid schedule")
	}

	c.Start()
	config.Log.WithField("schedule", schedule).Info("Running in SCHEDULED mode")
	<-ctx.Done()
	<-c.Stop().Done()
}

// initPublishers returns the configured publishers. S3 needs S3_BUCKET and
// YouTube needs YOUTUBE_SERVICE_ACCOUNT; anything missing is skipped.
func initPublishers() []publish.Publisher {
	var pubs []publish.Publisher

	if cfg, ok := common.S3ConfigFromEnv(); ok {
		client, err := common.NewS3(context.Background(), cfg)
		if err != nil {
			config.Log.WithError(err).Warn("Failed to init S3 client (uploads disabled)")
		} else {
			pubs = append(pubs, &publish.S3Publisher{
				Store:  client,
				Prefix: strings.Trim(os.Getenv("S3_PREFIX"), "/"),
			})
		}
	}

	if sa := strings.TrimSpace(os.Getenv("YOUTUBE_SERVICE_ACCOUNT")); sa != "" {
		yt, err := publish.NewYouTubePublisher(context.Background(), sa)
		if err != nil {
			config.Log.WithError(err).Warn("Failed to init YouTube client (uploads disabled)")
		} else {
			pubs = append(pubs, yt)
		}
	}

	return pubs
}
