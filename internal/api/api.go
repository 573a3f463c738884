package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/lankasolar/solarcalc/internal/api/controller"
	"github.com/lankasolar/solarcalc/internal/pkg/constants"
	"github.com/lankasolar/solarcalc/internal/pkg/logger"
	"github.com/lankasolar/solarcalc/internal/pkg/metrics"
	"github.com/lankasolar/solarcalc/internal/pkg/store"
	"github.com/lankasolar/solarcalc/internal/service/analytics"
	"github.com/lankasolar/solarcalc/internal/service/auth"
	"github.com/lankasolar/solarcalc/internal/service/calculator"
	"github.com/lankasolar/solarcalc/internal/service/coefficients"
	"github.com/lankasolar/solarcalc/internal/service/locations"
	"github.com/lankasolar/solarcalc/internal/service/panels"
	"github.com/lankasolar/solarcalc/internal/service/rates"
	"github.com/lankasolar/solarcalc/internal/service/variables"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
)

type APIService struct {
	router      *echo.Echo
	authService *auth.Service
}

// Serve blocks until the server stops. A graceful Shutdown is not an error.
func (svc *APIService) Serve(addr string) error {
	if err := svc.router.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

func (svc *APIService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	svc.router.ServeHTTP(w, r)
}

func NewAPIService(store store.Store) (*APIService, error) {
	svc := &APIService{router: echo.New()}

	svc.router.HideBanner = true
	svc.router.Logger.SetLevel(echoLogLevel(viper.GetString(constants.ViperLogLevelKey)))
	svc.router.Validator = NewValidator()
	svc.router.Binder = NewBinder()
	svc.router.JSONSerializer = JSONSerializer{}
	svc.router.HTTPErrorHandler = httpErrorHandler
	svc.router.Use(middleware.Recover())
	svc.router.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator:        uuid.NewString,
		RequestIDHandler: RequestLogger,
	}))
	svc.router.Use(middleware.Logger())
	svc.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     viper.GetStringSlice(constants.ViperHTTPAllowOriginsKey),
		AllowMethods:     []string{echo.GET, echo.PUT, echo.POST, echo.DELETE},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, constants.HeaderRequestID},
		AllowCredentials: true,
	}))

	metrics.Init()

	svc.authService = auth.NewAuthService(viper.GetString(constants.ViperSecretKey))
	cntrl := controller.NewController(controller.Services{
		Variables:    variables.NewVariablesService(store),
		Coefficients: coefficients.NewCoefficientsService(store, viper.GetBool(constants.ViperIncludeEpsilon)),
		Locations:    locations.NewLocationsService(store),
		Panels:       panels.NewPanelsService(store),
		Rates: rates.NewRatesService(store, rates.Options{
			RejectGaps:    viper.GetBool(constants.ViperRejectTierGaps),
			ImportURL:     viper.GetString(constants.ViperRatesImportURL),
			ImportRetries: viper.GetUint64(constants.ViperRatesImportRetries),
		}),
		Calculator: calculator.NewCalculatorService(store, calculator.Config{
			IncludeEpsilon:  viper.GetBool(constants.ViperIncludeEpsilon),
			HistoryLimit:    viper.GetInt(constants.ViperHistoryLimitKey),
			DefaultRateMode: viper.GetString(constants.ViperDefaultRateMode),
		}),
		Analytics: analytics.NewAnalyticsService(store, analytics.ModelStats{
			R2:   viper.GetFloat64(constants.ViperModelR2Key),
			RMSE: viper.GetFloat64(constants.ViperModelRMSEKey),
		}),
		Auth: svc.authService,
	})

	svc.router.GET("/health", cntrl.Health)
	svc.router.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := svc.router.Group("/api/v1")

	api.POST("/calculate", cntrl.Calculate)
	api.POST("/bill", cntrl.EstimateBill)
	api.GET("/analytics", cntrl.GetAnalytics)

	admin := api.Group("/admin")
	admin.POST("/login", cntrl.LoginAdmin)
	admin.POST("/logout", cntrl.LogoutAdmin)

	calculations := api.Group("/calculations")
	calculations.GET("", cntrl.ListCalculations, svc.AdminMiddleware)
	calculations.GET("/export.xlsx", cntrl.ExportCalculations, svc.AdminMiddleware)
	calculations.GET("/:id", cntrl.GetCalculation)
	calculations.GET("/:id/report.pdf", cntrl.GetCalculationReport)

	vars := api.Group("/variables")
	vars.GET("", cntrl.ListVariables)
	vars.GET("/:id", cntrl.GetVariable)
	vars.POST("", cntrl.CreateVariable, svc.AdminMiddleware)
	vars.PUT("/:id", cntrl.UpdateVariable, svc.AdminMiddleware)
	vars.DELETE("/:id", cntrl.DeactivateVariable, svc.AdminMiddleware)

	model := api.Group("/model")
	model.GET("/active", cntrl.GetActiveCoefficientSet)
	model.POST("/evaluate", cntrl.EvaluateModel, svc.AdminMiddleware)
	model.GET("/sets", cntrl.ListCoefficientSets, svc.AdminMiddleware)
	model.GET("/sets/:id", cntrl.GetCoefficientSet, svc.AdminMiddleware)
	model.POST("/sets", cntrl.CreateCoefficientSet, svc.AdminMiddleware)
	model.PUT("/sets/:id", cntrl.UpdateCoefficientSet, svc.AdminMiddleware)
	model.POST("/sets/:id/activate", cntrl.ActivateCoefficientSet, svc.AdminMiddleware)

	locs := api.Group("/locations")
	locs.GET("", cntrl.ListLocations)
	locs.GET("/places", cntrl.ListPlaces)
	locs.GET("/lookup", cntrl.GetLocation)
	locs.PUT("", cntrl.UpsertLocation, svc.AdminMiddleware)
	locs.DELETE("/:id", cntrl.DeleteLocation, svc.AdminMiddleware)

	pnls := api.Group("/panels")
	pnls.GET("", cntrl.ListPanels)
	pnls.GET("/:id", cntrl.GetPanel)
	pnls.POST("", cntrl.CreatePanel, svc.AdminMiddleware)
	pnls.PUT("/:id", cntrl.UpdatePanel, svc.AdminMiddleware)
	pnls.DELETE("/:id", cntrl.DeletePanel, svc.AdminMiddleware)

	rts := api.Group("/rates")
	rts.GET("", cntrl.ListRateTiers)
	rts.GET("/:id", cntrl.GetRateTier)
	rts.POST("", cntrl.CreateRateTier, svc.AdminMiddleware)
	rts.PUT("/:id", cntrl.UpdateRateTier, svc.AdminMiddleware)
	rts.DELETE("/:id", cntrl.DeactivateRateTier, svc.AdminMiddleware)
	rts.POST("/import", cntrl.ImportRateTiers, svc.AdminMiddleware)

	logger.Debugf(context.Background(), "registered %d routes", len(svc.router.Routes()))

	return svc, nil
}

func echoLogLevel(level string) log.Lvl {
	switch level {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}
