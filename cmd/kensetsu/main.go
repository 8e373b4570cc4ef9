package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/kensetsu-dev/kensetsu/db"
	"github.com/kensetsu-dev/kensetsu/internal/auth"
	"github.com/kensetsu-dev/kensetsu/internal/employees"
	"github.com/kensetsu-dev/kensetsu/internal/handlers"
	"github.com/kensetsu-dev/kensetsu/internal/notify"
	"github.com/kensetsu-dev/kensetsu/internal/router"
	"github.com/kensetsu-dev/kensetsu/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	gdb, err := db.Connect(dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	manager, err := auth.NewManager(gdb, os.Getenv("JWT_SECRET"))
	if err != nil {
		log.Fatalf("Failed to initialize auth: %v", err)
	}

	manager.OnAuthStateChange(func(event auth.Event, session *auth.Session) {
		if session != nil {
			log.Printf("Auth state changed: %s (%s)", event, session.User.Email)
		} else {
			log.Printf("Auth state changed: %s", event)
		}
	})

	notifier := notify.Multi{notify.LogNotifier{}}
	if url := os.Getenv("SLACK_WEBHOOK_URL"); url != "" {
		notifier = append(notifier, &notify.SlackNotifier{WebhookURL: url})
	}
	if url := os.Getenv("DISCORD_WEBHOOK_URL"); url != "" {
		notifier = append(notifier, &notify.DiscordNotifier{WebhookURL: url})
	}

	st := store.NewGormStore(gdb)

	r := router.NewRouter(router.Deps{
		Auth:      manager,
		AuthH:     handlers.NewAuthHandlers(manager, os.Getenv("DOMAIN")),
		Projects:  handlers.NewProjectHandlers(st, notifier),
		Employees: handlers.NewEmployeeHandlers(employees.NewService(st)),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
		log.Println("PORT not set, defaulting to 3000")
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
