package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	apiConfig "pdv/src/api/config"
	cashboxUseCase "pdv/src/cashbox/application/usecase"
	cashboxPersistence "pdv/src/cashbox/infrastructure/persistence"
	saleUseCase "pdv/src/sale/application/usecase"
	saleEntity "pdv/src/sale/domain/entity"
	saleCache "pdv/src/sale/infrastructure/cache"
	saleClient "pdv/src/sale/infrastructure/client"
	saleConnectivity "pdv/src/sale/infrastructure/connectivity"
	salePersistence "pdv/src/sale/infrastructure/persistence"
	saleQueue "pdv/src/sale/infrastructure/queue"
	sharedConfig "pdv/src/shared/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	_ "github.com/lib/pq" // Driver de PostgreSQL
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

func main() {
	log.Println("🚀 Terminal PDV - Iniciando...")

	sharedConfig.LoadDotEnv()

	// Configurar el router con Gin (superficie local de diagnóstico)
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Configurar Prometheus metrics si está habilitado
	if os.Getenv("PROMETHEUS_ENABLED") == "true" {
		log.Println("Registering /metrics endpoint for PDV terminal")
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	} else {
		log.Println("Prometheus metrics disabled for PDV terminal")
	}

	// Conectar al almacén remoto (opcional: la terminal opera offline)
	connStr := sharedConfig.PostgresDSN()
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Printf("⚠️  Advertencia: Error al conectar al almacén remoto: %v", err)
		db = nil
	} else {
		defer db.Close()
		if err = db.Ping(); err != nil {
			log.Printf("⚠️  Advertencia: Almacén remoto inaccesible: %v", err)
			log.Println("⚠️  Continuando en modo offline")
		} else {
			log.Println("✅ Conexión al almacén remoto establecida con éxito")
		}
	}

	// Abrir la cola local durable (SQLite). Sin cola no hay terminal: una
	// venta jamás puede perderse en silencio.
	localQueue, err := saleQueue.Open(sharedConfig.QueuePath())
	if err != nil {
		log.Fatalf("❌ FATAL: No se pudo abrir la cola local durable: %v", err)
	}
	defer localQueue.Close()

	// API v1 grupo de rutas
	v1 := router.Group("/api/v1")

	// Health checks
	apiCfg := apiConfig.DefaultAPIConfig()
	apiCfg.DB = db
	apiCfg.Version = "1.0.0"
	apiConfig.SetupAPIModule(router, v1, apiCfg)

	// Configurar módulo de ventas
	setupSaleModule(v1, db, localQueue)

	// Iniciar el servidor local
	port := sharedConfig.GetEnv("PORT", "8080")
	log.Printf("✅ Terminal PDV iniciada en http://localhost:%s", port)
	router.Run(":" + port)
}

// setupSaleModule arma el cableado del motor de ventas: repositorios →
// casos de uso → endpoints de diagnóstico y disparo de sincronización.
func setupSaleModule(router *gin.RouterGroup, db *sql.DB, localQueue *saleQueue.PendingSaleSQLiteQueue) {
	log.Println("Configurando módulo de ventas...")

	// Clientes de colaboradores externos
	fiscalClient := saleClient.NewFiscalClient()
	stockClient := saleClient.NewStockClient()

	// Monitor de conectividad contra el almacén remoto
	monitor := saleConnectivity.NewMonitor(sharedConfig.RemoteHealthURL(), localQueue)

	if db == nil {
		// Sin almacén remoto configurado: la terminal queda en solo-offline
		// y acumula ventas en la cola local.
		monitor.SetOnline(false)
		log.Println("⚠️  Módulo de ventas en modo solo-offline (sin almacén remoto)")
		return
	}

	// Cache de códigos fiscales por medio de pago
	pmCache := saleCache.NewPaymentMethodCache()
	if err := pmCache.LoadFromDB(db); err != nil {
		log.Printf("⚠️  Warning: Could not load payment methods cache: %v", err)
	}

	// Repositorios
	saleRepo := salePersistence.NewSalePostgresRepository(db)
	creditLedger := salePersistence.NewCreditLedgerPostgresRepository(db)
	loyaltyLedger := salePersistence.NewLoyaltyLedgerPostgresRepository(db)
	cashRepo := cashboxPersistence.NewCashSessionPostgresRepository(db)
	cashRegister := cashboxUseCase.NewCashRegister(cashRepo)

	// Configuración comercial
	pointsPerUnit, err := decimal.NewFromString(sharedConfig.GetEnv("LOYALTY_POINTS_PER_UNIT", "0.1"))
	if err != nil {
		pointsPerUnit = decimal.Zero
	}
	taxRate, err := decimal.NewFromString(sharedConfig.GetEnv("TAX_RATE", "0.21"))
	if err != nil {
		taxRate = decimal.Zero
	}

	commitCfg := saleUseCase.CommitSaleConfig{
		Currency: sharedConfig.GetEnv("CURRENCY", "ARS"),
		Store: saleEntity.StoreInfo{
			Name:    sharedConfig.GetEnv("STORE_NAME", "Mercado Cercano"),
			TaxID:   sharedConfig.GetEnv("STORE_TAX_ID", ""),
			Address: sharedConfig.GetEnv("STORE_ADDRESS", ""),
		},
		TaxRate:               taxRate,
		LoyaltyActive:         sharedConfig.GetEnv("LOYALTY_ACTIVE", "true") == "true",
		PointsPerCurrencyUnit: pointsPerUnit,
	}

	// Casos de uso
	commitUC := saleUseCase.NewCommitSaleUseCase(
		saleRepo, localQueue, monitor, cashRegister,
		creditLedger, loyaltyLedger, stockClient, fiscalClient,
		pmCache, commitCfg,
	)
	syncUC := saleUseCase.NewSyncPendingSalesUseCase(localQueue, saleRepo, commitUC)
	cancelUC := saleUseCase.NewCancelSaleUseCase(saleRepo, cashRegister, creditLedger, loyaltyLedger, stockClient)

	// Reconexión → drenar la cola. El drenado es secuencial; el canal con
	// buffer 1 colapsa disparos repetidos.
	syncTrigger := make(chan struct{}, 1)
	monitor.OnReconnect(func() {
		select {
		case syncTrigger <- struct{}{}:
		default:
		}
	})

	go func() {
		for range syncTrigger {
			if _, err := syncUC.Execute(context.Background()); err != nil {
				log.Printf("❌ CRITICAL: Falla de la cola local durante sincronización: %v", err)
			}
		}
	}()

	// Sondeo periódico de conectividad
	interval, err := time.ParseDuration(sharedConfig.GetEnv("CONNECTIVITY_CHECK_INTERVAL", "15s"))
	if err != nil {
		interval = 15 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			monitor.Check(ctx)
			cancel()
		}
	}()

	// Endpoints de diagnóstico y operación
	sync := router.Group("/sync")
	{
		sync.GET("/pending-count", func(ctx *gin.Context) {
			count, err := monitor.PendingCount(ctx.Request.Context())
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"pending": count,
				"online":  monitor.IsOnline(),
			})
		})

		sync.POST("/force", func(ctx *gin.Context) {
			monitor.ForceSync()
			ctx.JSON(http.StatusAccepted, gin.H{"status": "sync triggered"})
		})
	}

	router.POST("/sales/:id/cancel", func(ctx *gin.Context) {
		saleID, err := uuid.Parse(ctx.Param("id"))
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid sale id"})
			return
		}
		var body struct {
			Reason string `json:"reason" binding:"required"`
		}
		if err := ctx.ShouldBindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := cancelUC.Execute(ctx.Request.Context(), saleID, body.Reason)
		if err != nil {
			ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{
			"sale_id":  result.SaleID,
			"warnings": result.Warnings,
		})
	})

	log.Println("Módulo de ventas configurado exitosamente")
	log.Println("  GET  /api/v1/sync/pending-count")
	log.Println("  POST /api/v1/sync/force")
	log.Println("  POST /api/v1/sales/:id/cancel")
}
