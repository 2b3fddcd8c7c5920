package services

import (
	"github.com/shopspring/decimal"

	portsrepo "github.com/sitebooks/sitebooks/internal/core/ports/repositories"
	portssvc "github.com/sitebooks/sitebooks/internal/core/ports/services"
	"github.com/sitebooks/sitebooks/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Currency and rates first since invoice posting depends on them
	container.Currency = NewCurrencyService(repos.CurrencyRepo)
	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo, container.Currency)

	container.Account = NewAccountService(repos.AccountRepo)
	container.Journal = NewJournalService(repos.JournalRepo, repos.AccountRepo, repos.SequenceRepo)

	container.Invoice = NewInvoiceService(
		repos.InvoiceRepo,
		repos.AccountRepo,
		repos.PartyRepo,
		repos.ProjectRepo,
		container.ExchangeRate,
		repos.SequenceRepo,
		LedgerConfig{
			BaseCurrency:        cfg.BaseCurrency,
			CashCode:            cfg.CashAccountCode,
			ReceivableCode:      cfg.ReceivableAccountCode,
			PayableCode:         cfg.PayableAccountCode,
			RevenueSuspenseCode: cfg.RevenueSuspenseCode,
			ExpenseSuspenseCode: cfg.ExpenseSuspenseCode,
			PaymentTolerance:    decimal.NewFromFloat(cfg.PaymentTolerance),
		},
	)

	container.Party = NewPartyService(repos.PartyRepo, cfg.BaseCurrency)
	container.Project = NewProjectService(repos.ProjectRepo)
	container.Reporting = NewReportingService(repos.ReportingRepo)
	container.Risk = NewRiskService(repos.ProjectRepo, repos.InvoiceRepo, repos.RiskRepo)

	return container
}
