package routes

import (
	"context"
	"fmt"

	_ "sasa_billing/docs"
	"sasa_billing/internal/adapter/http/handlers"
	"sasa_billing/internal/adapter/http/middleware"
	"sasa_billing/internal/adapter/persistence/memory"
	"sasa_billing/internal/adapter/persistence/repository"
	"sasa_billing/internal/config"
	"sasa_billing/internal/domain/catalog"
	"sasa_billing/internal/domain/entities"
	"sasa_billing/internal/infrastructure/cache"
	"sasa_billing/internal/infrastructure/database"
	"sasa_billing/internal/infrastructure/identity"
	"sasa_billing/internal/infrastructure/metrics"
	"sasa_billing/internal/infrastructure/payments"
	"sasa_billing/internal/usecase"
	"sasa_billing/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Dependencies is everything the router mounts. Limiter and MockCheckout are
// optional.
type Dependencies struct {
	AllowedOrigins []string
	Identity       interfaces.IIdentityProvider
	Orders         usecase.IOrderUseCase
	Verifier       usecase.IPaymentVerificationUseCase
	Accounts       usecase.IAccountUseCase
	Metrics        *metrics.Metrics
	Limiter        middleware.Limiter
	MockCheckout   handlers.CheckoutCompleter
}

// NewRouter mounts middlewares and routes on a fresh engine.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	setMiddlewares(router, deps)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET(PathMetrics, gin.WrapH(deps.Metrics.Handler()))

	getRoutes(router, deps)
	return router
}

// Build wires the configured backends into a router. The returned cleanup
// releases connections opened here.
func Build(ctx context.Context, cfg config.Config) (*gin.Engine, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	ledger, err := newLedger(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	identityProvider, err := identity.NewProvider(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("identity provider: %w", err)
	}

	secret := cfg.SignatureSecret()
	var gateway interfaces.IPaymentGateway
	g, err := payments.NewGateway(cfg, func(orderID, paymentID string) string {
		return usecase.ComputeSignature(secret, orderID, paymentID)
	})
	if err != nil {
		log.Warn().Err(err).Str("provider", cfg.Gateway.Provider).Msg("[routes] payment gateway not configured; payment actions will answer 503")
	} else {
		gateway = g
	}

	m := metrics.New(nil)
	cat := catalog.Default()
	verifier := usecase.NewPaymentVerificationUseCase(ledger, gateway, cat, secret,
		usecase.WithMaxAttempts(cfg.Ledger.MaxAttempts),
		usecase.WithMetrics(m),
	)

	deps := Dependencies{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Identity:       identityProvider,
		Orders:         usecase.NewOrderUseCase(cat, gateway, m),
		Verifier:       verifier,
		Accounts:       usecase.NewAccountUseCase(ledger, cat),
		Metrics:        m,
	}
	if mock, ok := gateway.(*payments.MockGateway); ok {
		deps.MockCheckout = mock
	}

	if cfg.Redis.Addr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn().Err(err).Msg("[routes] redis unavailable; rate limiting disabled")
		} else {
			closers = append(closers, func() { _ = client.Close() })
			deps.Limiter = cache.NewRateLimiter(client, cfg.RateLimit.Requests, cfg.RateLimit.Window, "billing:ratelimit")
		}
	}

	return NewRouter(deps), cleanup, nil
}

func newLedger(ctx context.Context, cfg config.Config) (interfaces.ILedger, error) {
	if cfg.Ledger.Backend == config.LedgerMemory {
		ledger := memory.NewLedger()
		for _, userID := range cfg.Ledger.MemoryUsers {
			ledger.PutAccount(entities.Account{UserID: userID})
		}
		log.Warn().Int("profiles", len(cfg.Ledger.MemoryUsers)).Msg("[routes] using in-memory ledger; balances are lost on restart")
		return ledger, nil
	}

	ddb, err := database.ConnectDynamoDB(ctx, cfg.AWS)
	if err != nil {
		return nil, fmt.Errorf("connect dynamodb: %w", err)
	}
	return repository.NewDynamoLedger(ddb, cfg.Tables.Profiles, cfg.Tables.Transactions, cfg.Tables.TransactionsUser), nil
}

func getRoutes(router *gin.Engine, deps Dependencies) {
	paymentHandler := handlers.NewPaymentHandler(deps.Orders, deps.Verifier)
	accountHandler := handlers.NewAccountHandler(deps.Accounts)

	authenticated := []gin.HandlerFunc{middleware.Auth(deps.Identity)}
	if deps.Limiter != nil {
		authenticated = append(authenticated, middleware.RateLimit(deps.Limiter, deps.Metrics.RateLimitedTotal.Inc))
	}

	// Unversioned alias for older clients.
	legacy := router.Group("", authenticated...)
	legacy.POST(PathPayment, paymentHandler.HandlePaymentAction)

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addPlanRoutes(v1, accountHandler)
	addPaymentRoutes(v1.Group("", authenticated...), paymentHandler, accountHandler)

	if deps.MockCheckout != nil {
		addMockCheckoutRoutes(v1, handlers.NewMockCheckoutHandler(deps.MockCheckout))
	}
}

func setMiddlewares(router *gin.Engine, deps Dependencies) {
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(deps.AllowedOrigins))
	router.Use(middleware.Metrics(deps.Metrics))
}
