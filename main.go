package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/carson-networks/household-ledger/api"
	"github.com/carson-networks/household-ledger/internal/billing"
	"github.com/carson-networks/household-ledger/internal/config"
	"github.com/carson-networks/household-ledger/internal/events"
	"github.com/carson-networks/household-ledger/internal/logging"
	"github.com/carson-networks/household-ledger/internal/operator"
	"github.com/carson-networks/household-ledger/internal/service"
	"github.com/carson-networks/household-ledger/internal/storage/backend"
	"github.com/carson-networks/household-ledger/internal/txsort"
)

func main() {
	logger := logging.SetupLogging()
	logrus.Info("household-ledger starting")

	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}
	if err := logging.SetLevel(logger, envConfig.LogLevel); err != nil {
		logrus.WithError(err).Fatal("logging.SetLevel")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := backend.Open(ctx, envConfig, logger)
	if err != nil {
		logger.WithError(err).Fatal("backend.Open")
		return
	}
	defer store.Close()

	var publisher events.IPublisher = events.Noop{}
	if envConfig.AMQPURL != "" {
		amqp, err := events.DialAMQP(envConfig.AMQPURL, envConfig.AMQPExchange, envConfig.AMQPRoutingKey)
		if err != nil {
			logger.WithError(err).Fatal("events.DialAMQP")
			return
		}
		publisher = amqp
	}
	defer publisher.Close()

	sorter, err := txsort.New(envConfig.Locale)
	if err != nil {
		logger.WithError(err).Fatal("txsort.New")
		return
	}

	delegator := operator.NewOperatorDelegator(store, operator.Options{
		WriteTimeout: envConfig.WriteTimeout,
		QueueSize:    envConfig.OperatorQueueSize,
		Publisher:    publisher,
		Logger:       logger,
	})
	if err := delegator.Start(ctx); err != nil {
		logger.WithError(err).Fatal("OperatorDelegator.Start")
		return
	}
	defer delegator.Stop()

	loc := envConfig.Location()
	svc := service.NewService(delegator, sorter, loc, nil)
	scheduler := billing.NewScheduler(delegator, envConfig.BillingCheckInterval, loc, nil, logger)
	logger.WithFields(logrus.Fields{
		"port":     envConfig.Port,
		"locale":   sorter.Locale(),
		"timezone": loc.String(),
	}).Info("household-ledger serving")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		httpRest := api.Rest{
			Logger:   logger,
			Port:     envConfig.Port,
			Service:  svc,
			Operator: delegator,
		}
		return httpRest.Serve(gctx)
	})
	g.Go(func() error {
		return scheduler.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("household-ledger stopped with error")
		return
	}
	logger.Info("household-ledger stopped")
}
