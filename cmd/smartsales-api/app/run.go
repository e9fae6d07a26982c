package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/Ismaelcs06/SmartSales-BackEnd/configs"
	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/adapter/cache"
	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/adapter/export"
	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/adapter/http"
	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/adapter/http/middleware"
	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/adapter/kafka"
	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/adapter/queue"
	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/adapter/repo"
	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/logging"
	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/usecase"
)

type App struct {
	Router *gin.Engine
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	logger := logging.Init(cfg.App.Name, cfg.App.LogFile)

	// init database
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return nil, nil, err
	}
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, nil, fmt.Errorf("mysql ping: %w", err)
	}

	if err := runMigrations(db, cfg.MySQL.MigrationsDir); err != nil {
		return nil, nil, err
	}

	logger.Info("smartsales-api: starting up")

	// init redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}

	// init rabbitmq
	conn, err := amqp091.Dial(cfg.Rabbit.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	// infra
	txm := repo.NewTxManager(db)
	customerRepo := repo.NewMySQLCustomerRepo(db)
	catalogRepo := repo.NewMySQLCatalogRepo(db)
	saleRepo := repo.NewMySQLSaleRepo(db)
	marketingRepo := repo.NewMySQLMarketingRepo(db)
	auditRepo := repo.NewMySQLAuditRepo(db)
	reportRepo := repo.NewSQLReportRepo(sqlx.NewDb(db, "mysql"))

	idem := cache.NewRedisIdempotencyStore(rdb, cfg.Idempotency.TTL)
	productCache := cache.NewRedisProductCache(rdb, cfg.Cache.TTL)
	exporter := export.NewFileExporter(cfg.Reports.Dir)

	producer, err := queue.NewRabbitProducer(ch)
	if err != nil {
		return nil, nil, fmt.Errorf("rabbit producer: %w", err)
	}

	// consumers
	setupQueue(ch, marketingRepo)
	setupKafkaListener(cfg, catalogRepo, productCache)

	// use cases
	checkoutUC := usecase.NewCheckout(customerRepo, txm, producer)
	cartSvc := usecase.NewCartService(customerRepo, txm)
	reportSvc := usecase.NewReportService(reportRepo, exporter)

	// handlers + middleware + router
	auth := middleware.NewAuthz(cfg)
	audit := middleware.NewAuditRecorder(auditRepo, logging.New("audit"))

	router := http.NewRouter(http.Handlers{
		Checkout:  http.NewCheckoutHandler(checkoutUC, saleRepo, idem),
		Cart:      http.NewCartHandler(cartSvc),
		Catalog:   http.NewCatalogHandler(catalogRepo, productCache),
		Customer:  http.NewCustomerHandler(customerRepo),
		Sales:     http.NewSalesHandler(saleRepo),
		Marketing: http.NewMarketingHandler(marketingRepo),
		Report:    http.NewReportHandler(reportSvc),
		Audit:     http.NewAuditHandler(auditRepo),
		Token:     http.NewTokenHandler(cfg),
	}, auth, audit)

	cleanup := func() {
		audit.Close()
		_ = ch.Close()
		_ = conn.Close()
		_ = rdb.Close()
		_ = db.Close()
	}

	return &App{Router: router}, cleanup, nil
}

func runMigrations(db *sql.DB, dir string) error {
	driver, err := migratemysql.WithInstance(db, &migratemysql.Config{})
	if err != nil {
		return fmt.Errorf("migrate driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "mysql", driver)
	if err != nil {
		return fmt.Errorf("migrate init: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

func setupQueue(ch *amqp091.Channel, marketing usecase.MarketingRepo) {
	h := queue.NewSaleCompletedHandler(marketing)

	router := queue.NewRouter(ch, queue.WithPrefetch(50))
	router.Register("sale.completed.q", queue.JSONHandler[usecase.SaleCompletedMsg]{HandleFunc: h.HandleSaleCompleted})

	if err := router.Start(); err != nil {
		panic(err)
	}
}

func setupKafkaListener(cfg configs.Config, catalog usecase.CatalogRepo, productCache usecase.ProductCache) {
	grp, err := kafka.NewGroup(cfg.Kafka.Brokers, cfg.Kafka.GroupID)
	if err != nil {
		panic(err)
	}

	h := kafka.NewStockReplenishedHandler(catalog, productCache)
	consumer := kafka.NewConsumer(grp, []string{cfg.Kafka.InventoryTopic}, h.Handle)

	go func() {
		if err := consumer.Start(context.Background()); err != nil {
			panic(err)
		}
	}()
}
