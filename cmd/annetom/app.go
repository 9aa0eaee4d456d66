package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/agamariel/annetom/internal/auth"
	"github.com/agamariel/annetom/internal/config"
	"github.com/agamariel/annetom/internal/handlers"
	"github.com/agamariel/annetom/internal/migrations"
	"github.com/agamariel/annetom/internal/services"
	"github.com/agamariel/annetom/internal/store"
	"github.com/agamariel/annetom/internal/syncapi"
)

// App структура для управления приложением и его зависимостями.
type App struct {
	cfg    *config.Config
	dbPool *pgxpool.Pool
	local  *store.BoltKV
	echo   *echo.Echo
	worker *services.SyncWorker

	// Handlers
	ordersHandler    *handlers.OrdersHandler
	motoboysHandler  *handlers.MotoboysHandler
	productsHandler  *handlers.ProductsHandler
	customersHandler *handlers.CustomersHandler
	settingsHandler  *handlers.SettingsHandler
	authHandler      *handlers.AuthHandler
}

// NewApp создаёт и инициализирует новое приложение.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{
		cfg: cfg,
	}

	st, err := app.initStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	app.initDependencies(st)
	app.initServer()

	return app, nil
}

// initStore выбирает бэкенд хранилища: PostgreSQL при заданном
// DATABASE_URI, иначе JSON-файлы в каталоге данных. Локальный KV
// открывается в обоих режимах.
func (app *App) initStore(ctx context.Context) (store.Store, error) {
	local, err := store.OpenBoltKV(app.cfg.SettingsDBPath)
	if err != nil {
		log.Printf("WARNING: local kv unavailable: %v", err)
	} else {
		app.local = local
	}

	if app.cfg.DatabaseURI == "" {
		log.Printf("Using file store in %s", app.cfg.DataDir)
		return store.NewFileStore(app.cfg.DataDir)
	}

	// Применение миграций
	log.Println("Running database migrations...")
	sqlDB, err := sql.Open("pgx", app.cfg.DatabaseURI)
	if err != nil {
		return nil, fmt.Errorf("unable to open database connection: %w", err)
	}
	defer sqlDB.Close()

	if err := migrations.Run(sqlDB); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Println("Migrations completed successfully")

	// Подключение к базе данных через pgxpool
	dbPool, err := pgxpool.New(ctx, app.cfg.DatabaseURI)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := dbPool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	app.dbPool = dbPool
	log.Println("Successfully connected to database")

	return store.NewPostgresStore(dbPool), nil
}

// initDependencies инициализирует сервисы и обработчики.
func (app *App) initDependencies(st store.Store) {
	logger := log.Default()

	// Service layer
	settingsService := services.NewSettingsService(st, app.localKV(), logger)
	ordersService := services.NewOrdersService(st, logger)
	motoboysService := services.NewMotoboysService(st, logger)
	productsService := services.NewProductsService(st, settingsService, logger)
	customersService := services.NewCustomersService(st, logger)
	authService := services.NewAuthService(settingsService, app.cfg.JWTSecret, app.cfg.TokenExpiration, logger)

	// Handler layer
	app.ordersHandler = handlers.NewOrdersHandler(ordersService)
	app.motoboysHandler = handlers.NewMotoboysHandler(motoboysService)
	app.productsHandler = handlers.NewProductsHandler(productsService)
	app.customersHandler = handlers.NewCustomersHandler(customersService)
	app.settingsHandler = handlers.NewSettingsHandler(settingsService)
	app.authHandler = handlers.NewAuthHandler(authService)

	// Воркер синхронизации
	if app.cfg.SyncBaseURL != "" {
		log.Printf("Initializing sync worker with address: %s", app.cfg.SyncBaseURL)
		client := syncapi.NewHTTPSyncClient(app.cfg.SyncBaseURL, 5*time.Second)
		app.worker = services.NewSyncWorker(st, app.localKV(), client, app.cfg.SyncPullInterval, logger)
	} else {
		log.Println("Sync worker is not configured, collections are local only")
	}
}

// localKV возвращает локальный KV как интерфейс (nil, если не открылся).
func (app *App) localKV() store.LocalKV {
	if app.local == nil {
		return nil
	}
	return app.local
}

// initServer инициализирует HTTP-сервер и настраивает маршруты.
func (app *App) initServer() {
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.PATCH, echo.DELETE},
	}))

	// Публичные маршруты: чтение и вход
	e.GET("/api/health", handlers.Health)
	e.GET("/api/menu", app.productsHandler.GetMenu)
	e.POST("/api/auth/login", app.authHandler.Login)
	e.GET("/api/orders", app.ordersHandler.GetOrders)
	e.GET("/api/orders/status-presets", app.ordersHandler.GetStatusPresets)
	e.GET("/api/products", app.productsHandler.GetProducts)
	e.GET("/api/motoboys", app.motoboysHandler.GetMotoboys)
	e.GET("/api/customers", app.customersHandler.GetCustomers)
	e.GET("/api/customers/by-phone", app.customersHandler.FindByPhone)
	e.GET("/api/settings", app.settingsHandler.GetSettings)

	// Мутирующие маршруты, опционально за JWT оператора
	mutating := e.Group("/api")
	if app.cfg.RequireAuth {
		mutating.Use(auth.JWTMiddleware(app.cfg.JWTSecret))
	}
	mutating.POST("/orders", app.ordersHandler.SaveOrder)
	mutating.PUT("/orders/:id", app.ordersHandler.UpdateOrder)
	mutating.DELETE("/orders/:id", app.ordersHandler.DeleteOrder)
	mutating.PATCH("/orders/:id/status", app.ordersHandler.UpdateOrderStatus)
	mutating.POST("/motoboys", app.motoboysHandler.SaveMotoboy)
	mutating.PATCH("/motoboys/:id/active", app.motoboysHandler.ToggleActive)
	mutating.POST("/motoboys/:id/qr", app.motoboysHandler.GenerateQr)
	mutating.POST("/motoboys/:id/tips", app.motoboysHandler.AddTip)
	mutating.POST("/products", app.productsHandler.SaveProduct)
	mutating.PUT("/products/:id", app.productsHandler.UpdateProduct)
	mutating.DELETE("/products/:id", app.productsHandler.DeleteProduct)
	mutating.POST("/customers", app.customersHandler.SaveCustomer)
	mutating.DELETE("/customers/:id", app.customersHandler.DeleteCustomer)
	mutating.PUT("/settings", app.settingsHandler.UpdateSettings)

	app.echo = e
}

// Start запускает приложение.
func (app *App) Start(ctx context.Context) error {
	// Запуск воркера синхронизации
	if app.worker != nil {
		log.Println("Starting sync worker...")
		app.worker.Start(ctx)
	}

	// Запуск сервера
	log.Printf("Starting server on %s", app.cfg.RunAddress)
	if err := app.echo.Start(app.cfg.RunAddress); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}

	return nil
}

// Shutdown корректно завершает работу приложения.
func (app *App) Shutdown(ctx context.Context) error {
	log.Println("Shutting down server...")

	if err := app.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	if app.dbPool != nil {
		app.dbPool.Close()
	}
	if app.local != nil {
		if err := app.local.Close(); err != nil {
			log.Printf("failed to close local kv: %v", err)
		}
	}

	log.Println("Server gracefully stopped")
	return nil
}
