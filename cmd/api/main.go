package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/shopspring/decimal"

	httpadp "crelend-backend/internal/adapter/http"
	idemp "crelend-backend/internal/adapter/middleware"
	"crelend-backend/internal/adapter/repository/mysql"
	"crelend-backend/internal/adapter/valuator"
	"crelend-backend/internal/config"
	"crelend-backend/internal/infrastructure/cache"
	"crelend-backend/internal/infrastructure/db"
	loanUC "crelend-backend/internal/usecase/loan"
	valuationUC "crelend-backend/internal/usecase/valuation"

	"crelend-backend/internal/domain/loan"
	"crelend-backend/internal/domain/valuation"
	"crelend-backend/internal/usecase/decision"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatal(err)
	}
	if err := gdb.AutoMigrate(&loan.Loan{}, &valuation.Valuation{}); err != nil {
		log.Fatal(err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal(err)
	}

	// Stateless collaborators, constructed once and shared.
	threshold, err := decimal.NewFromString(cfg.LTVThresholdPct)
	if err != nil {
		log.Fatal(err)
	}
	engine := decision.NewEngine(threshold)
	client := valuator.NewClient(cfg.ValuationURL, time.Duration(cfg.ValuationTimeoutMS)*time.Millisecond)

	loanRepo := mysql.NewLoanRepository(gdb)
	valuationRepo := mysql.NewValuationRepository(gdb)
	uow := mysql.NewGormUoW(gdb)

	loans := loanUC.NewUsecase(loanRepo, valuationRepo, uow)
	valuations := valuationUC.NewUsecase(client, engine, uow, time.Duration(cfg.PendingStaleSecs)*time.Second)

	h := httpadp.NewHandler(client.HealthCheck)
	lh := httpadp.NewLoanHandler(loans)
	vh := httpadp.NewValuationHandler(valuations)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())

	e.GET("/health", h.Health)

	api := e.Group("", idemp.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))
	api.POST("/loans", lh.CreateLoan)
	api.GET("/loans", lh.ListLoans)
	api.GET("/loans/:loan_id", lh.GetLoan)
	api.PUT("/loans/:loan_id", lh.UpdateLoan)
	api.DELETE("/loans/:loan_id", lh.DeleteLoan)
	api.POST("/loans/:loan_id/valuation", vh.RequestValuation)
	api.GET("/loans/:loan_id/valuation", vh.GetValuation)
	api.POST("/loans/:loan_id/valuation/revert", vh.RevertStale)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
