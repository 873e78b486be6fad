package http_api

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"
	echo_middleware "github.com/labstack/echo/v4/middleware"

	"github.com/sandcastle-labs/sandcastle/client/api/http_api/router"
	"github.com/sandcastle-labs/sandcastle/client/config"
	"github.com/sandcastle-labs/sandcastle/client/modules/keystore"
	"github.com/sandcastle-labs/sandcastle/client/services/coordinator"
	"github.com/sandcastle-labs/sandcastle/client/services/wallet"
	"github.com/sandcastle-labs/sandcastle/journal"
)

type RESTApiProvider struct {
	config       *config.HttpApiConfig
	echoInstance *echo.Echo
}

func (p *RESTApiProvider) NewServer(
	cfg *config.Config,
	coordinatorService coordinator.CoordinatorService,
	walletService wallet.WalletService,
	registry keystore.Registry,
	auditJournal journal.Journal,
) error {
	p.config = cfg.HttpApiConfig

	p.echoInstance = echo.New()

	p.echoInstance.HideBanner = true
	p.echoInstance.Debug = p.config.Debug

	p.echoInstance.HTTPErrorHandler = customHTTPErrorHandler

	p.echoInstance.Use(echo_middleware.Logger())
	p.echoInstance.Use(contextServiceMiddleware)

	router.SetRouter(p.echoInstance, coordinatorService, walletService, registry, auditJournal)

	return nil
}

func (p *RESTApiProvider) Start() error {
	return p.echoInstance.Start(fmt.Sprintf("%s:%d", p.config.Host, p.config.Port))
}

func (p *RESTApiProvider) Stop(ctx context.Context) error {
	return p.echoInstance.Shutdown(ctx)
}
