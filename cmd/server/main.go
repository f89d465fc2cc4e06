package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rentcar-reservation/internal/config"
	"github.com/iliyamo/rentcar-reservation/internal/database"
	"github.com/iliyamo/rentcar-reservation/internal/handler"
	"github.com/iliyamo/rentcar-reservation/internal/queue"
	"github.com/iliyamo/rentcar-reservation/internal/repository"
	"github.com/iliyamo/rentcar-reservation/internal/router"
	"github.com/iliyamo/rentcar-reservation/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}

	reservations := repository.NewReservationRepo(db)
	vehicles := repository.NewVehicleRepo(db)
	customers := repository.NewCustomerRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	svc := service.NewReservationService(reservations)

	h := router.Handlers{
		Auth:         handler.NewAuthHandler(cfg, users, tokens),
		Vehicles:     handler.NewVehicleHandler(vehicles),
		Customers:    handler.NewCustomerHandler(customers),
		Reservations: handler.NewReservationHandler(svc, reservations),
		Calendar:     handler.NewCalendarHandler(vehicles, reservations),
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, rdb, h)

	if cfg.ConsumerOn {
		go func() {
			if err := queue.StartReservationConsumer(); err != nil {
				log.Printf("reservation consumer stopped: %v", err)
			}
		}()
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
