package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/workpay/lending-engine/internal/config"
	"github.com/workpay/lending-engine/internal/repository"
)

// The scheduler is read-only: it reports loans past their expected repayment
// date but never transitions status.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	setupLogging(cfg)

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	loanRepo := repository.NewLoanRepository(db, cfg.Business.AdvanceRepaymentDays)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Scheduler.Timezone).Msg("invalid scheduler timezone")
	}

	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	_, err = c.AddFunc(cfg.Scheduler.ReminderSpec, func() {
		reportOverdueRepayments(loanRepo)
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to schedule repayment reminder job")
	}

	c.Start()
	log.Info().Str("spec", cfg.Scheduler.ReminderSpec).Msg("scheduler started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down scheduler")
	c.Stop()
	log.Info().Msg("scheduler stopped")
}

func reportOverdueRepayments(loanRepo repository.LoanRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	overdue, err := loanRepo.ListDueBefore(ctx, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("failed to list overdue repayments")
		return
	}

	for _, loan := range overdue {
		log.Warn().
			Str("employee_id", loan.EmployeeID).
			Str("loan_type", loan.LoanType).
			Str("amount", loan.Amount.StringFixed(2)).
			Time("expected_repayment_date", loan.ExpectedRepaymentDate).
			Msg("repayment past due")
	}

	log.Info().Int("overdue", len(overdue)).Msg("repayment reminder job finished")
}

func setupLogging(cfg *config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Logging.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
