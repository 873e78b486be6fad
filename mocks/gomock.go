package mocks

//go:generate mockgen -source=./../ledger/ledger.go -destination=./ledgerMocks/ledger_mock.go -package=ledgerMocks
//go:generate mockgen -source=./../client/modules/state/state.go -destination=./clientMocks/state_mock.go -package=clientMocks
//go:generate mockgen -source=./../client/modules/keystore/keystore.go -destination=./clientMocks/keystore_mock.go -package=clientMocks
//go:generate mockgen -source=./../client/repositories/proposal/proposal.go -destination=./repoMocks/proposal_mock.go -package=repoMocks
//go:generate mockgen -source=./../client/services/coordinator/coordinator.go -destination=./serviceMocks/coordinator_mock.go -package=serviceMocks
//go:generate mockgen -source=./../client/services/wallet/wallet.go -destination=./serviceMocks/wallet_mock.go -package=serviceMocks
//go:generate mockgen -source=./../journal/journal.go -destination=./journalMocks/journal_mock.go -package=journalMocks
