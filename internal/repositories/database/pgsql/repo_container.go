package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/sitebooks/sitebooks/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	currencyRepo := newPgxCurrencyRepository(dbPool)
	exchangeRateRepo := newPgxExchangeRateRepository(dbPool)
	projectRepo := newPgxProjectRepository(dbPool)
	partyRepo := newPgxPartyRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool, accountRepo)
	invoiceRepo := newPgxInvoiceRepository(dbPool, journalRepo, projectRepo)
	riskRepo := newPgxRiskRepository(dbPool)
	reportingRepo := newReportingRepository(dbPool)
	sequenceRepo := newPgxSequenceRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:      accountRepo,
		JournalRepo:      journalRepo,
		InvoiceRepo:      invoiceRepo,
		CurrencyRepo:     currencyRepo,
		ExchangeRateRepo: exchangeRateRepo,
		ProjectRepo:      projectRepo,
		PartyRepo:        partyRepo,
		RiskRepo:         riskRepo,
		ReportingRepo:    reportingRepo,
		SequenceRepo:     sequenceRepo,
	}
}
