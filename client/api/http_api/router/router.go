package router

import (
	"github.com/labstack/echo/v4"

	"github.com/sandcastle-labs/sandcastle/client/api/http_api/handlers"
	"github.com/sandcastle-labs/sandcastle/client/modules/keystore"
	"github.com/sandcastle-labs/sandcastle/client/services/coordinator"
	"github.com/sandcastle-labs/sandcastle/client/services/wallet"
	"github.com/sandcastle-labs/sandcastle/journal"
)

func SetRouter(
	e *echo.Echo,
	coordinatorService coordinator.CoordinatorService,
	walletService wallet.WalletService,
	registry keystore.Registry,
	auditJournal journal.Journal,
) {
	h := handlers.NewHTTPApp(coordinatorService, walletService, registry, auditJournal)

	e.GET("/getAccounts", h.GetAccounts)
	e.POST("/createAccount", h.CreateAccount)

	e.POST("/createProposal", h.CreateProposal)
	e.GET("/getProposals", h.GetProposals)
	e.GET("/getProposal", h.GetProposal)

	e.POST("/approveProposal", h.ApproveProposal)
	e.POST("/denyProposal", h.DenyProposal)
	e.POST("/executeProposal", h.ExecuteProposal)

	e.GET("/getMultisig", h.GetMultisig)
	e.POST("/mint", h.Mint)
	e.GET("/getBalance", h.GetBalance)

	e.GET("/getJournal", h.GetJournal)
}
