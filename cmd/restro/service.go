package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"restro/pkg/domain/model"
	"restro/pkg/domain/service"
	"restro/pkg/infrastructure/event"
	"restro/pkg/infrastructure/identity"
	"restro/pkg/infrastructure/mysql"
	"restro/pkg/infrastructure/notification"
	"restro/pkg/infrastructure/otp"
	"restro/pkg/infrastructure/storage"
	"restro/pkg/infrastructure/transport"
)

func serviceCommand() *cli.Command {
	return &cli.Command{
		Name:  "service",
		Usage: "run the REST API",
		Action: func(c *cli.Context) error {
			cfg, err := parseEnv()
			if err != nil {
				return err
			}
			setLogLevel(cfg.LogLevel)
			return runService(c.Context, cfg)
		},
	}
}

func runService(ctx context.Context, cfg *config) error {
	db, err := mysql.Open(ctx, dsn(cfg), connectionPool(cfg))
	if err != nil {
		return err
	}
	defer db.Close()

	dispatcher, closeDispatcher, err := newEventDispatcher(cfg)
	if err != nil {
		return err
	}
	defer closeDispatcher()

	uploader, err := newImageUploader(cfg)
	if err != nil {
		return err
	}

	tokens := identity.NewTokenManager([]byte(cfg.TokenSecret), cfg.TokenTTL)
	handler := transport.Router(newServices(cfg, db, dispatcher, uploader, tokens), tokens, transport.Config{
		ImageDir:      localImageDir(cfg),
		UploadDir:     cfg.UploadDir,
		MaxUploadSize: cfg.MaxUploadSize,
	})

	log.WithFields(log.Fields{"url": cfg.ServeRESTAddress}).Info("Starting server")

	killSignalChan := getKillSignalChan()
	srv := startServer(cfg.ServeRESTAddress, handler)

	waitForKillSignalChan(killSignalChan)
	return srv.Shutdown(context.Background())
}

func newServices(
	cfg *config,
	db *sqlx.DB,
	dispatcher service.EventDispatcher,
	uploader model.ImageUploader,
	tokens model.TokenManager,
) transport.Services {
	customers := mysql.NewCustomerRepository(db)
	vendors := mysql.NewVendorRepository(db)
	foods := mysql.NewFoodRepository(db)
	deliveryUsers := mysql.NewDeliveryUserRepository(db)
	offers := mysql.NewOfferRepository(db)
	orders := mysql.NewOrderRepository(db)
	transactions := mysql.NewTransactionRepository(db)

	passwords := identity.NewPasswordManager(cfg.BcryptCost)
	otpService := service.NewOTPService(newOTPStore(cfg, db), notification.NewLogSender(), cfg.OTPTTL)

	images := service.NewImageService(uploader, mysql.NewUploadFailureRepository(db), dispatcher, service.UploadPolicy{
		Attempts:    cfg.UploadAttempts,
		Interval:    cfg.UploadInterval,
		Concurrency: cfg.UploadConcurrency,
	})
	assigner := service.NewDeliveryAssigner(vendors, deliveryUsers, orders, dispatcher)

	return transport.Services{
		Accounts: service.NewAccountService(customers, deliveryUsers, vendors, passwords, tokens, otpService, dispatcher),
		Admin:    service.NewAdminService(vendors, deliveryUsers, passwords, dispatcher),
		Cart:     service.NewCartService(customers, foods),
		Catalog:  service.NewCatalogService(vendors, foods, offers, customers),
		Orders:   service.NewOrderService(mysql.NewUnitOfWork(db), orders, transactions, customers, foods, assigner, dispatcher),
		Payments: service.NewPaymentService(transactions, offers, dispatcher),
		Vendors:  service.NewVendorService(vendors, foods, offers, images, dispatcher),
	}
}

func newOTPStore(cfg *config, db *sqlx.DB) model.OTPStore {
	if cfg.OTPStorage == "memory" {
		return otp.NewMemoryStore()
	}
	return mysql.NewOTPStore(db)
}

func newEventDispatcher(cfg *config) (service.EventDispatcher, func(), error) {
	if cfg.AMQPURL == "" {
		return event.NewLogDispatcher(), func() {}, nil
	}

	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to connect to amqp broker")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, errors.Wrap(err, "failed to open amqp channel")
	}
	dispatcher, err := event.NewAMQPDispatcher(ch, cfg.AMQPExchange, cfg.AMQPPublishTimeout)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, err
	}

	return dispatcher, func() {
		if err := ch.Close(); err != nil {
			log.WithError(err).Error("failed to close amqp channel")
		}
		if err := conn.Close(); err != nil {
			log.WithError(err).Error("failed to close amqp connection")
		}
	}, nil
}

func newImageUploader(cfg *config) (model.ImageUploader, error) {
	if cfg.CloudinaryCloudName != "" {
		return storage.NewCloudinaryUploader(storage.CloudinaryConfig{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryFolder,
		})
	}
	return storage.NewLocalUploader(cfg.ImageDir, cfg.ImageBaseURL)
}

// localImageDir is served over HTTP only when images are stored locally.
func localImageDir(cfg *config) string {
	if cfg.CloudinaryCloudName != "" {
		return ""
	}
	return cfg.ImageDir
}

func dsn(cfg *config) mysql.DSN {
	return mysql.DSN{
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Host:     cfg.DBHost,
		Database: cfg.DBName,
	}
}

func connectionPool(cfg *config) mysql.ConnectionPool {
	return mysql.ConnectionPool{
		MaxOpenConnections:    cfg.DBMaxConnections,
		MaxIdleConnections:    cfg.DBMaxConnections,
		ConnectionMaxLifetime: cfg.DBConnectionLifetime,
	}
}

func startServer(serverURL string, handler http.Handler) *http.Server {
	srv := &http.Server{Addr: serverURL, Handler: handler}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	return srv
}

func getKillSignalChan() chan os.Signal {
	osKillSignalChan := make(chan os.Signal, 1)
	signal.Notify(osKillSignalChan, os.Kill, os.Interrupt, syscall.SIGTERM)
	return osKillSignalChan
}

func waitForKillSignalChan(killSignalChan <-chan os.Signal) {
	killSignal := <-killSignalChan
	switch killSignal {
	case os.Interrupt:
		log.Info("Got SIGINT...")
	case syscall.SIGTERM:
		log.Info("Got SIGTERM...")
	}
}
