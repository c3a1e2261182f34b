package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/household-ledger/internal/handlers/v1/account"
	"github.com/carson-networks/household-ledger/internal/handlers/v1/billing"
	"github.com/carson-networks/household-ledger/internal/handlers/v1/category"
	"github.com/carson-networks/household-ledger/internal/handlers/v1/household"
	"github.com/carson-networks/household-ledger/internal/handlers/v1/member"
	"github.com/carson-networks/household-ledger/internal/handlers/v1/report"
	"github.com/carson-networks/household-ledger/internal/handlers/v1/status"
	"github.com/carson-networks/household-ledger/internal/handlers/v1/transaction"
	"github.com/carson-networks/household-ledger/internal/logging"
	"github.com/carson-networks/household-ledger/internal/operator"
	"github.com/carson-networks/household-ledger/internal/service"
)

type Rest struct {
	Logger   *logrus.Logger
	Port     string
	Service  *service.Service
	Operator *operator.OperatorDelegator
}

// Routes builds the mux serving /status and every v1 operation.
func (r *Rest) Routes() http.Handler {
	mux := http.NewServeMux()

	statusHandler := status.NewHandler(r.Operator)
	mux.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	api := humago.New(mux, huma.DefaultConfig("Household Ledger API", "1.0.0"))
	api.UseMiddleware(logging.HumaMiddleware(r.Logger))

	svc := r.Service
	household.NewHandler(svc.Household).Register(api)

	transaction.NewAddTransactionHandler(svc.Transaction).Register(api)
	transaction.NewEditTransactionHandler(svc.Transaction).Register(api)
	transaction.NewDeleteTransactionHandler(svc.Transaction).Register(api)
	transaction.NewListTransactionsHandler(svc.Transaction).Register(api)

	account.NewAddAccountHandler(svc.Account).Register(api)
	account.NewEditAccountHandler(svc.Account).Register(api)
	account.NewDeleteAccountHandler(svc.Account).Register(api)
	account.NewMoveAccountHandler(svc.Account).Register(api)
	account.NewListAccountsHandler(svc.Account).Register(api)

	category.NewHandler(svc.Registry).Register(api)
	member.NewHandler(svc.Registry).Register(api)

	report.NewGetSummaryHandler(svc.Report).Register(api)
	billing.NewRunBillingCheckHandler(svc.Report).Register(api)

	return mux
}

// Serve listens until ctx is done, then shuts the server down.
func (r *Rest) Serve(ctx context.Context) error {
	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           r.Routes(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			r.Logger.WithError(err).Warn("HttpServer.Serve.shutdown error")
		}
	}()

	r.Logger.WithField("port", r.Port).Info("HttpServer.Serve.listening")
	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
		return err
	}
	r.Logger.Info("HttpServer.Serve.shutting down")
	return nil
}
