package main

import (
	"flag"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Rangikaj80/educationalDB/internal/api"
	"github.com/Rangikaj80/educationalDB/internal/engine"
)

func main() {
	dataPath := flag.String("data", "cleaned_world_education_data.csv", "path to the education dataset CSV")
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	e := echo.New()
	e.JSONSerializer = api.JSONSerializer{}
	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	src := engine.NewSource(*dataPath)

	// API goes live immediately; data endpoints answer 503 until the
	// background load publishes the store.
	h := api.NewHandler(src)
	h.RegisterRoutes(e)

	go func() {
		t0 := time.Now()
		store, err := src.Get()
		if err != nil {
			log.Printf("BACKGROUND: dataset load failed: %v", err)
			return
		}
		h.SetStore(store)
		log.Printf("BACKGROUND: dataset ready in %v. API is fully ready.", time.Since(t0))
	}()

	log.Printf("Server ready on %s (data loading in background...)", *addr)
	e.Logger.Fatal(e.Start(*addr))
}
