package app

import (
	"database/sql"

	attestationsHTTP "github.com/allisson/attestations/internal/attestations/http"
	attestationsRepository "github.com/allisson/attestations/internal/attestations/repository"
	attestationsUseCase "github.com/allisson/attestations/internal/attestations/usecase"
)

// AttestationRepository returns the attestation repository for the configured driver.
func (c *Container) AttestationRepository() (attestationsUseCase.AttestationRepository, error) {
	return c.attestationRepository.get(c.buildAttestationRepository)
}

// AttestationUseCase returns the attestation lifecycle use case.
func (c *Container) AttestationUseCase() (attestationsUseCase.AttestationUseCase, error) {
	return c.attestationUseCase.get(c.buildAttestationUseCase)
}

// AttestationHandler returns the HTTP handler for attestation lifecycle operations.
func (c *Container) AttestationHandler() (*attestationsHTTP.AttestationHandler, error) {
	return c.attestationHandler.get(c.buildAttestationHandler)
}

func (c *Container) buildAttestationRepository() (attestationsUseCase.AttestationRepository, error) {
	return openRepository(c,
		func(db *sql.DB) attestationsUseCase.AttestationRepository {
			return attestationsRepository.NewPostgreSQLAttestationRepository(db)
		},
		func(db *sql.DB) attestationsUseCase.AttestationRepository {
			return attestationsRepository.NewMySQLAttestationRepository(db)
		},
	)
}

func (c *Container) buildAttestationUseCase() (attestationsUseCase.AttestationUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, err
	}

	attestationRepo, err := c.AttestationRepository()
	if err != nil {
		return nil, err
	}

	schemaRepo, err := c.SchemaRepository()
	if err != nil {
		return nil, err
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, err
	}

	base := attestationsUseCase.NewAttestationUseCase(txManager, attestationRepo, schemaRepo, outboxRepo)
	return decorate(c, base, attestationsUseCase.NewAttestationUseCaseWithMetrics)
}

func (c *Container) buildAttestationHandler() (*attestationsHTTP.AttestationHandler, error) {
	attestations, err := c.AttestationUseCase()
	if err != nil {
		return nil, err
	}
	return attestationsHTTP.NewAttestationHandler(attestations, c.Logger()), nil
}
