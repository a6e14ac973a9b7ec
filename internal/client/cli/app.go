package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/deuceleague/deucecli/internal/client/client"
	"github.com/deuceleague/deucecli/internal/client/config"
	"github.com/deuceleague/deucecli/internal/client/resetflow"
	"github.com/deuceleague/deucecli/internal/client/services"
	"github.com/deuceleague/deucecli/internal/client/store"
	"github.com/deuceleague/deucecli/internal/logging"
)

// resetFlow is the surface of resetflow.Flow the screens drive.
type resetFlow interface {
	Resume(ctx context.Context) (resetflow.Outcome, error)
	SubmitEmail(ctx context.Context, email string) (resetflow.Outcome, error)
	ResendOTP(ctx context.Context) (resetflow.Outcome, error)
	SubmitOTP(ctx context.Context, code string) (resetflow.Outcome, error)
	SubmitPassword(ctx context.Context, password, confirm []byte) (resetflow.Outcome, error)
	Back(ctx context.Context) (resetflow.Outcome, error)
	State() resetflow.State
}

type App struct {
	config         *config.Config
	logger         logging.Logger
	authService    services.AuthService
	historyService services.HistoryService
	flow           resetFlow
	reader         *bufio.Reader
	out            io.Writer
	closers        []func() error
}

// NewApp opens the local store and builds every service from c.
func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	logger, flush := logging.New(logging.Options{File: c.LogFile, Level: c.LogLevel, Console: os.Stderr})

	st, err := store.Open(ctx, c.DataDir, c.OTPTTL, store.WithLogger(logger))
	if err != nil {
		logger.Error(ctx, "error initializing store", "dir", c.DataDir, "error", err)
		_ = flush()
		return nil, err
	}

	apiClient, err := client.NewHTTPClient(c.BaseURL, c.RequestTimeout, logger)
	if err != nil {
		_ = st.Close()
		_ = flush()
		return nil, err
	}

	as := services.NewAuthService(apiClient, st, logger)
	hs := services.NewHistoryService(apiClient, as, c.PageSize)
	flow := resetflow.New(apiClient, st, resetflow.Options{
		SettleDelay:    c.SettleDelay,
		HydrationDelay: c.HydrationDelay,
		Logger:         logger,
	})

	return &App{
		config:         c,
		logger:         logger,
		authService:    as,
		historyService: hs,
		flow:           flow,
		reader:         bufio.NewReader(os.Stdin),
		out:            os.Stdout,
		closers:        []func() error{st.Close, flush},
	}, nil
}

// Run starts the REPL and releases resources when it returns.
func (a *App) Run(ctx context.Context) error {
	defer a.close(ctx)

	a.println("Welcome to Deuce League CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

func (a *App) close(ctx context.Context) {
	var errs []error
	errs = append(errs, a.authService.Close(ctx))
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	if err := errors.Join(errs...); err != nil {
		a.logger.Warn(ctx, "shutdown", "error", err)
	}
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	_, err := a.authService.CurrentSession(ctx)
	return err == nil
}

func (a *App) getStatus(ctx context.Context) string {
	sess, err := a.authService.CurrentSession(ctx)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("(%s)", sess.Email)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
