package app

import (
	"database/sql"

	schemasHTTP "github.com/allisson/attestations/internal/schemas/http"
	schemasRepository "github.com/allisson/attestations/internal/schemas/repository"
	schemasUseCase "github.com/allisson/attestations/internal/schemas/usecase"
)

// SchemaRepository returns the schema repository for the configured driver.
func (c *Container) SchemaRepository() (schemasUseCase.SchemaRepository, error) {
	return c.schemaRepository.get(c.buildSchemaRepository)
}

// CreatorPolicyRepository returns the creator policy repository for the configured driver.
func (c *Container) CreatorPolicyRepository() (schemasUseCase.CreatorPolicyRepository, error) {
	return c.creatorPolicyRepository.get(c.buildCreatorPolicyRepository)
}

// SchemaUseCase returns the schema registry use case.
func (c *Container) SchemaUseCase() (schemasUseCase.SchemaUseCase, error) {
	return c.schemaUseCase.get(c.buildSchemaUseCase)
}

// SchemaHandler returns the HTTP handler for schema registration and lookup.
func (c *Container) SchemaHandler() (*schemasHTTP.SchemaHandler, error) {
	return c.schemaHandler.get(c.buildSchemaHandler)
}

// CreatorPolicyHandler returns the HTTP handler for creator policy management.
func (c *Container) CreatorPolicyHandler() (*schemasHTTP.CreatorPolicyHandler, error) {
	return c.creatorPolicyHandler.get(c.buildCreatorPolicyHandler)
}

func (c *Container) buildSchemaRepository() (schemasUseCase.SchemaRepository, error) {
	return openRepository(c,
		func(db *sql.DB) schemasUseCase.SchemaRepository {
			return schemasRepository.NewPostgreSQLSchemaRepository(db)
		},
		func(db *sql.DB) schemasUseCase.SchemaRepository {
			return schemasRepository.NewMySQLSchemaRepository(db)
		},
	)
}

func (c *Container) buildCreatorPolicyRepository() (schemasUseCase.CreatorPolicyRepository, error) {
	return openRepository(c,
		func(db *sql.DB) schemasUseCase.CreatorPolicyRepository {
			return schemasRepository.NewPostgreSQLCreatorPolicyRepository(db)
		},
		func(db *sql.DB) schemasUseCase.CreatorPolicyRepository {
			return schemasRepository.NewMySQLCreatorPolicyRepository(db)
		},
	)
}

func (c *Container) buildSchemaUseCase() (schemasUseCase.SchemaUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, err
	}

	schemaRepo, err := c.SchemaRepository()
	if err != nil {
		return nil, err
	}

	policyRepo, err := c.CreatorPolicyRepository()
	if err != nil {
		return nil, err
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, err
	}

	base := schemasUseCase.NewSchemaUseCase(txManager, schemaRepo, policyRepo, outboxRepo)
	return decorate(c, base, schemasUseCase.NewSchemaUseCaseWithMetrics)
}

func (c *Container) buildSchemaHandler() (*schemasHTTP.SchemaHandler, error) {
	schemas, err := c.SchemaUseCase()
	if err != nil {
		return nil, err
	}
	return schemasHTTP.NewSchemaHandler(schemas, c.Logger()), nil
}

func (c *Container) buildCreatorPolicyHandler() (*schemasHTTP.CreatorPolicyHandler, error) {
	schemas, err := c.SchemaUseCase()
	if err != nil {
		return nil, err
	}
	return schemasHTTP.NewCreatorPolicyHandler(schemas, c.Logger()), nil
}
