package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/geoirb/go-booking-pdf/internal/draft"
	"github.com/geoirb/go-booking-pdf/internal/gate"
	"github.com/geoirb/go-booking-pdf/internal/inspect"
	"github.com/geoirb/go-booking-pdf/internal/kafka"
	"github.com/geoirb/go-booking-pdf/internal/pdf"
	"github.com/geoirb/go-booking-pdf/internal/response"
	"github.com/geoirb/go-booking-pdf/internal/session"
	"github.com/geoirb/go-booking-pdf/internal/source"
	"github.com/geoirb/go-booking-pdf/internal/templater"
	"github.com/geoirb/go-booking-pdf/internal/templater/httpapi"
	"github.com/geoirb/go-booking-pdf/internal/templater/mq"
)

type configuration struct {
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	TemplateURL  string        `envconfig:"TEMPLATE_URL"`
	TemplateDir  string        `envconfig:"TEMPLATE_DIR" default:"/template"`
	TemplateName string        `envconfig:"TEMPLATE_NAME" default:"template_3.pdf"`
	FetchTimeout time.Duration `envconfig:"FETCH_TIMEOUT" default:"10s"`

	PasswordHash   string `envconfig:"PASSWORD_HASH"`
	FilenamePrefix string `envconfig:"FILENAME_PREFIX" default:"NP_CCAB_Booking_"`
	DraftDir       string `envconfig:"DRAFT_DIR" default:"/tmp/booking-pdf"`
	MaxSessions    int    `envconfig:"MAX_SESSIONS" default:"1000"`

	MQEnabled           bool   `envconfig:"MQ_ENABLED" default:"false"`
	MQHost              string `envconfig:"MQ_HOST" default:"localhost"`
	MQPort              int    `envconfig:"MQ_PORT" default:"9093"`
	FillInTopicRequest  string `envconfig:"FILL_IN_TOPIC_REQUEST" default:"request"`
	FillInTopicResponse string `envconfig:"FILL_IN_TOPIC_RESPONSE" default:"response"`
}

type fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

const (
	prefixCfg   = ""
	serviceName = "booking-pdf"
)

func main() {
	logger := log.NewJSONLogger(log.NewSyncWriter(os.Stdout))
	logger = log.WithPrefix(logger, "service", serviceName)
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		level.Error(logger).Log("msg", "load .env", "err", err)
		os.Exit(1)
	}

	var cfg configuration
	if err := envconfig.Process(prefixCfg, &cfg); err != nil {
		level.Error(logger).Log("msg", "configuration", "err", err)
		os.Exit(1)
	}

	level.Info(logger).Log("msg", "initialization")

	var src fetcher
	if cfg.TemplateURL != "" {
		src = source.NewHTTP(cfg.TemplateURL, cfg.FetchTimeout, &http.Client{}, logger)
	} else {
		file, err := source.NewFile(cfg.TemplateDir, cfg.TemplateName)
		if err != nil {
			level.Error(logger).Log("msg", "template source init", "err", err)
			os.Exit(1)
		}
		src = file
	}
	checkTemplate(src, logger)

	passwords, err := gate.New(cfg.PasswordHash)
	if err != nil {
		level.Error(logger).Log("msg", "gate init", "err", err)
		os.Exit(1)
	}
	if cfg.PasswordHash == "" {
		level.Warn(logger).Log("msg", "PASSWORD_HASH is empty, any password unlocks the page")
	}

	svc := templater.NewService(
		src,
		pdf.NewLibrary(),
		time.Now,
		cfg.FilenamePrefix,
		logger,
	)

	var mqKafka *kafka.MessageQueue
	if cfg.MQEnabled {
		address := fmt.Sprintf("%s:%d", cfg.MQHost, cfg.MQPort)
		if mqKafka, err = kafka.NewMessageQueue([]string{address}, logger); err != nil {
			level.Error(logger).Log("msg", "kafka init", "address", address, "err", err)
			os.Exit(1)
		}

		handler := mq.NewFillInHandler(
			svc,
			mq.NewFillInTransport(
				response.Build,
			),
			mqKafka.NewPublish(cfg.FillInTopicResponse),
			logger,
		)
		if err = mqKafka.Consume(cfg.FillInTopicRequest, handler); err != nil {
			level.Error(logger).Log("msg", "kafka consume", "topic", cfg.FillInTopicRequest, "err", err)
			os.Exit(1)
		}

		level.Info(logger).Log("msg", "kafka listener turn on")
		mqKafka.ListenAndServe()
	}

	server := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: httpapi.NewHandler(
			svc,
			draft.NewStore(cfg.DraftDir),
			session.NewStore(cfg.MaxSessions),
			passwords,
			logger,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		level.Info(logger).Log("msg", "http server turn on", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			level.Error(logger).Log("msg", "http server", "err", err)
			os.Exit(1)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGTERM, syscall.SIGINT)
	level.Info(logger).Log("msg", "received signal", "signal", <-c)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	level.Info(logger).Log("msg", "http server shutdown")
	if err = server.Shutdown(ctx); err != nil {
		level.Error(logger).Log("msg", "http server shutdown", "err", err)
	}
	if mqKafka != nil {
		level.Info(logger).Log("msg", "kafka listener shutdown")
		mqKafka.Shutdown()
	}
	level.Info(logger).Log("msg", "stop service")
}

// checkTemplate logs the required fields the template does not provide.
// The service keeps running; fills report missing fields on their own.
func checkTemplate(src fetcher, logger log.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	b, err := src.Fetch(ctx)
	if err != nil {
		level.Warn(logger).Log("msg", "template check", "err", err)
		return
	}
	fields, err := inspect.Fields(b)
	if err != nil {
		level.Warn(logger).Log("msg", "template check", "err", err)
		return
	}
	if missing := inspect.Missing(fields, templater.RequiredFields...); len(missing) > 0 {
		level.Warn(logger).Log("msg", "template check", "missing", fmt.Sprint(missing))
		return
	}
	level.Info(logger).Log("msg", "template check", "fields", len(fields))
}
