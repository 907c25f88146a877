package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/expensetrack/etrack/internal/api"
	"github.com/expensetrack/etrack/internal/common"
	"github.com/expensetrack/etrack/internal/config"
	"github.com/expensetrack/etrack/internal/model"
	"github.com/expensetrack/etrack/internal/report"
	"github.com/expensetrack/etrack/internal/route"
	"github.com/expensetrack/etrack/internal/session"
	"github.com/expensetrack/etrack/internal/storage"
)

// initSessionStore opens the durable session store.
func initSessionStore() (*session.Store, error) {
	path := config.ExpandPath(viper.GetString("session.path"))
	return session.NewStore(path)
}

// initClient builds the API client over the session store.
func initClient(sessions *session.Store) *api.Client {
	timeout := viper.GetDuration("api.timeout")
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return api.NewClient(viper.GetString("api.base_url"), sessions, api.WithTimeout(timeout))
}

// initCache opens the local snapshot cache and runs migrations.
func initCache(ctx context.Context) (*storage.Cache, error) {
	dbPath := config.ExpandPath(viper.GetString("cache.path"))
	if dbPath == "" {
		dataDir, err := config.DataDir()
		if err != nil {
			return nil, err
		}
		dbPath = filepath.Join(dataDir, "cache.db")
	}

	cache, err := storage.NewCache(dbPath)
	if err != nil {
		return nil, err
	}
	if err := cache.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run cache migrations: %w", err)
	}
	return cache, nil
}

// requireView checks the route guard for the view and translates a denial
// into the CLI equivalent of a redirect: an error telling the user where to
// go.
func requireView(view route.View, sessions *session.Store) (model.Session, error) {
	sess, err := sessions.Get()
	if err != nil {
		return model.Session{}, err
	}

	decision := route.Check(view, sess)
	if decision.Allowed {
		return sess, nil
	}
	if decision.Redirect == route.ViewLogin {
		return model.Session{}, common.NewUserError("not logged in, run `etrack login` first", nil)
	}
	return model.Session{}, common.NewUserError("this view needs the admin role", nil)
}

// fetchExpenses loads the expense list from the API (caching the snapshot)
// or, when cached is true, straight from the local cache.
func fetchExpenses(ctx context.Context, client api.ExpenseService, sessions *session.Store, cached bool) ([]model.Expense, error) {
	if cached {
		cache, err := initCache(ctx)
		if err != nil {
			return nil, err
		}
		defer func() { _ = cache.Close() }()

		records, fetchedAt, err := cache.LoadSnapshot(ctx)
		if err != nil {
			return nil, err
		}
		fmt.Println(staleNotice(fetchedAt))
		return records, nil
	}

	caching := &cachingService{ExpenseService: client, sessions: sessions}
	return caching.ListExpenses(ctx)
}

func staleNotice(fetchedAt time.Time) string {
	return fmt.Sprintf("(cached snapshot from %s)", fetchedAt.Local().Format("2006-01-02 15:04"))
}

// insightOptions reads the configurable thresholds.
func insightOptions() report.InsightOptions {
	return report.InsightOptions{
		CurrencySymbol:     viper.GetString("currency.symbol"),
		OverspendThreshold: viper.GetFloat64("insights.overspend_threshold"),
		SpikeMultiplier:    viper.GetFloat64("insights.spike_multiplier"),
	}
}

// cachingService persists every successful fetch as the local snapshot.
type cachingService struct {
	api.ExpenseService
	sessions *session.Store
}

func (s *cachingService) ListExpenses(ctx context.Context) ([]model.Expense, error) {
	records, err := s.ExpenseService.ListExpenses(ctx)
	if err != nil {
		return nil, err
	}

	cache, cacheErr := initCache(ctx)
	if cacheErr != nil {
		return records, nil
	}
	defer func() { _ = cache.Close() }()

	sess, _ := s.sessions.Get()
	if saveErr := cache.SaveSnapshot(ctx, sess.Username, records); saveErr != nil {
		common.LogError(saveErr, "failed to cache snapshot", nil)
	}
	return records, nil
}

// parseDay parses a YYYY-MM-DD flag value.
func parseDay(raw string) (time.Time, error) {
	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, common.NewUserError(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", raw), nil)
	}
	return day, nil
}

// friendlyError rewrites the auth sentinels for terminal display.
func friendlyError(err error) error {
	switch {
	case errors.Is(err, api.ErrSessionExpired):
		return common.NewUserError("session expired, run `etrack login` again", nil)
	case errors.Is(err, api.ErrForbidden):
		return common.NewUserError("the server denied this operation (you stay logged in)", nil)
	default:
		return err
	}
}
