package services

import (
	portsrepo "github.com/openledgerhq/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/openledgerhq/ledger_backend/internal/core/ports/services"
)

// ServiceProvider holds all service facades needed by the handlers.
type ServiceProvider struct {
	AccountSvc portssvc.AccountSvcFacade
	JournalSvc portssvc.JournalSvcFacade
}

// NewServiceProvider wires the services from the repository provider.
func NewServiceProvider(repos portsrepo.RepositoryProvider) ServiceProvider {
	accountSvc := NewAccountService(repos.AccountRepo)
	journalSvc := NewJournalService(repos.JournalRepo, repos.AccountRepo)

	return ServiceProvider{
		AccountSvc: accountSvc,
		JournalSvc: journalSvc,
	}
}
