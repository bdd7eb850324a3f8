package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/adapters/events"
	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/adapters/handler/http"
	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/adapters/notifier/telegram"
	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/adapters/oauth/google"
	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/adapters/repository/postgres"
	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/ports"
	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	db, err := sql.Open("postgres", dbConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	authRepo := postgres.NewAuthRepository(db)
	electionRepo := postgres.NewElectionRepository(db)
	delegationRepo := postgres.NewDelegationRepository(db)
	voteRepo := postgres.NewVoteRepository(db)
	commentRepo := postgres.NewCommentRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	resultRepo := postgres.NewResultRepository(db)

	// Out-of-band delivery is optional; without a bot token
	// notifications are stored only.
	var notifier ports.Notifier
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		tg, err := telegram.New(token)
		if err != nil {
			log.Printf("telegram notifier disabled: %v", err)
		} else {
			notifier = tg
		}
	}

	bus := events.NewBus()

	// Services
	authService := services.NewAuthService(userRepo, authRepo, google.NewVerifier())
	userService := services.NewUserService(userRepo)
	electionService := services.NewElectionService(electionRepo)
	eligibilityService := services.NewEligibilityService(electionRepo, userRepo)
	notificationService := services.NewNotificationService(notificationRepo, userRepo, notifier)
	delegationService := services.NewDelegationService(delegationRepo, eligibilityService, notificationService)
	voteService := services.NewVoteService(electionRepo, voteRepo, eligibilityService, delegationService, bus, notificationService)
	tallyService := services.NewTallyService(electionRepo, voteRepo, resultRepo)
	discussionService := services.NewDiscussionService(electionRepo, commentRepo)
	liveResults := services.NewLiveResults(electionRepo, tallyService, bus)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go liveResults.Run(ctx)

	redirectURL := os.Getenv("AUTH_REDIRECT_URL")
	cookieDomain := os.Getenv("COOKIE_DOMAIN")

	handler := http.NewHandler(http.Handlers{
		Auth:         http.NewAuthHandler(authService, redirectURL, cookieDomain, stdhttp.SameSiteLaxMode),
		User:         http.NewUserHandler(userService),
		Election:     http.NewElectionHandler(electionService),
		Vote:         http.NewVoteHandler(voteService, eligibilityService),
		Delegation:   http.NewDelegationHandler(delegationService),
		Results:      http.NewResultsHandler(tallyService, liveResults),
		Discussion:   http.NewDiscussionHandler(discussionService),
		Notification: http.NewNotificationHandler(notificationService),
	})

	server := &stdhttp.Server{Addr: listenAddr(), Handler: handler}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	fmt.Println("Gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}

func listenAddr() string {
	if addr := os.Getenv("SERVER_ADDR"); addr != "" {
		return addr
	}
	return "0.0.0.0:8080"
}

func dbConnString() string {
	dbName := os.Getenv("POSTGRES_DB")
	user := os.Getenv("POSTGRES_USER")
	password := os.Getenv("POSTGRES_PASSWORD")
	host := os.Getenv("POSTGRES_HOST")
	port := os.Getenv("POSTGRES_PORT")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, dbName)
}
