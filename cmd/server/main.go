package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/inkwell-blog/api/internal/config"
	"github.com/inkwell-blog/api/internal/database"
	"github.com/inkwell-blog/api/internal/handler"
	"github.com/inkwell-blog/api/internal/mailer"
	"github.com/inkwell-blog/api/internal/queue"
	"github.com/inkwell-blog/api/internal/repository"
	"github.com/inkwell-blog/api/internal/router"
	queue_publisher "github.com/inkwell-blog/api/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, response caching disabled")
	}

	// Background consumer records account lifecycle events.
	go queue.StartAccountConsumer()

	users := repository.NewUserRepo(db)
	blogs := repository.NewBlogRepo(db)
	comments := repository.NewCommentRepo(db)
	mail := mailer.NewResend(cfg.ResendAPIKey, cfg.ResendFrom)

	h := router.Handlers{
		Users:    handler.NewUserHandler(cfg, users, mail, queue_publisher.AMQP{}),
		Sessions: handler.NewSessionHandler(cfg, users),
		Blogs:    handler.NewBlogHandler(blogs, comments),
		Comments: handler.NewCommentHandler(comments),
	}

	e := echo.New()
	e.HTTPErrorHandler = handler.HTTPErrorHandler
	router.Register(e, cfg, h, config.LoadCacheConfig(), rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
