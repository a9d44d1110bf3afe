package app

import (
	"context"
	"database/sql"

	authHTTP "github.com/allisson/attestations/internal/auth/http"
	authRepository "github.com/allisson/attestations/internal/auth/repository"
	authService "github.com/allisson/attestations/internal/auth/service"
	authUseCase "github.com/allisson/attestations/internal/auth/usecase"
	"github.com/allisson/attestations/internal/signing"
)

// SecretService returns the service that hashes and verifies client secrets.
func (c *Container) SecretService() authService.SecretService {
	service, _ := c.secretService.get(func() (authService.SecretService, error) {
		return authService.NewSecretService(), nil
	})
	return service
}

// TokenService returns the service that generates and hashes bearer tokens.
func (c *Container) TokenService() authService.TokenService {
	service, _ := c.tokenService.get(func() (authService.TokenService, error) {
		return authService.NewTokenService(), nil
	})
	return service
}

// ClientRepository returns the client repository for the configured driver.
func (c *Container) ClientRepository() (authUseCase.ClientRepository, error) {
	return c.clientRepository.get(c.buildClientRepository)
}

// TokenRepository returns the token repository for the configured driver.
func (c *Container) TokenRepository() (authUseCase.TokenRepository, error) {
	return c.tokenRepository.get(c.buildTokenRepository)
}

// AuditLogRepository returns the audit log repository for the configured driver.
func (c *Container) AuditLogRepository() (authUseCase.AuditLogRepository, error) {
	return c.auditLogRepository.get(c.buildAuditLogRepository)
}

// AdminCredentialRepository returns the admin credential repository for the configured driver.
func (c *Container) AdminCredentialRepository() (authUseCase.AdminCredentialRepository, error) {
	return c.adminCredentialRepository.get(c.buildAdminCredentialRepository)
}

// AuditSigningKey returns the audit signing root key, unwrapping it through
// KMS on first access when a key URI is configured. A nil key means signing
// is disabled.
func (c *Container) AuditSigningKey() ([]byte, error) {
	return c.auditSigningKey.get(func() ([]byte, error) {
		return signing.LoadRootKey(context.Background(), c.config.AuditSigningKey, c.config.KMSKeyURI)
	})
}

// ClientUseCase returns the client management use case.
func (c *Container) ClientUseCase() (authUseCase.ClientUseCase, error) {
	return c.clientUseCase.get(c.buildClientUseCase)
}

// TokenUseCase returns the token issuing and authentication use case.
func (c *Container) TokenUseCase() (authUseCase.TokenUseCase, error) {
	return c.tokenUseCase.get(c.buildTokenUseCase)
}

// AuditLogUseCase returns the audit log recording use case.
func (c *Container) AuditLogUseCase() (authUseCase.AuditLogUseCase, error) {
	return c.auditLogUseCase.get(c.buildAuditLogUseCase)
}

// AdminCredentialUseCase returns the admin credential use case.
func (c *Container) AdminCredentialUseCase() (authUseCase.AdminCredentialUseCase, error) {
	return c.adminCredentialUseCase.get(c.buildAdminCredentialUseCase)
}

// ClientHandler returns the HTTP handler for client management.
func (c *Container) ClientHandler() (*authHTTP.ClientHandler, error) {
	return c.clientHandler.get(c.buildClientHandler)
}

// TokenHandler returns the HTTP handler for token issuing.
func (c *Container) TokenHandler() (*authHTTP.TokenHandler, error) {
	return c.tokenHandler.get(c.buildTokenHandler)
}

// AuditLogHandler returns the HTTP handler for audit log queries.
func (c *Container) AuditLogHandler() (*authHTTP.AuditLogHandler, error) {
	return c.auditLogHandler.get(c.buildAuditLogHandler)
}

func (c *Container) buildClientRepository() (authUseCase.ClientRepository, error) {
	return openRepository(c,
		func(db *sql.DB) authUseCase.ClientRepository {
			return authRepository.NewPostgreSQLClientRepository(db)
		},
		func(db *sql.DB) authUseCase.ClientRepository {
			return authRepository.NewMySQLClientRepository(db)
		},
	)
}

func (c *Container) buildTokenRepository() (authUseCase.TokenRepository, error) {
	return openRepository(c,
		func(db *sql.DB) authUseCase.TokenRepository {
			return authRepository.NewPostgreSQLTokenRepository(db)
		},
		func(db *sql.DB) authUseCase.TokenRepository {
			return authRepository.NewMySQLTokenRepository(db)
		},
	)
}

func (c *Container) buildAuditLogRepository() (authUseCase.AuditLogRepository, error) {
	return openRepository(c,
		func(db *sql.DB) authUseCase.AuditLogRepository {
			return authRepository.NewPostgreSQLAuditLogRepository(db)
		},
		func(db *sql.DB) authUseCase.AuditLogRepository {
			return authRepository.NewMySQLAuditLogRepository(db)
		},
	)
}

func (c *Container) buildAdminCredentialRepository() (authUseCase.AdminCredentialRepository, error) {
	return openRepository(c,
		func(db *sql.DB) authUseCase.AdminCredentialRepository {
			return authRepository.NewPostgreSQLAdminCredentialRepository(db)
		},
		func(db *sql.DB) authUseCase.AdminCredentialRepository {
			return authRepository.NewMySQLAdminCredentialRepository(db)
		},
	)
}

func (c *Container) buildClientUseCase() (authUseCase.ClientUseCase, error) {
	repo, err := c.ClientRepository()
	if err != nil {
		return nil, err
	}

	base := authUseCase.NewClientUseCase(repo, c.SecretService())
	return decorate(c, base, authUseCase.NewClientUseCaseWithMetrics)
}

func (c *Container) buildTokenUseCase() (authUseCase.TokenUseCase, error) {
	clientRepo, err := c.ClientRepository()
	if err != nil {
		return nil, err
	}

	tokenRepo, err := c.TokenRepository()
	if err != nil {
		return nil, err
	}

	base := authUseCase.NewTokenUseCase(c.config, clientRepo, tokenRepo, c.SecretService(), c.TokenService())
	return decorate(c, base, authUseCase.NewTokenUseCaseWithMetrics)
}

func (c *Container) buildAuditLogUseCase() (authUseCase.AuditLogUseCase, error) {
	repo, err := c.AuditLogRepository()
	if err != nil {
		return nil, err
	}

	signingKey, err := c.AuditSigningKey()
	if err != nil {
		return nil, err
	}

	base := authUseCase.NewAuditLogUseCase(repo, authService.NewAuditSigner(), signingKey)
	return decorate(c, base, authUseCase.NewAuditLogUseCaseWithMetrics)
}

func (c *Container) buildAdminCredentialUseCase() (authUseCase.AdminCredentialUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, err
	}

	repo, err := c.AdminCredentialRepository()
	if err != nil {
		return nil, err
	}

	base := authUseCase.NewAdminCredentialUseCase(txManager, repo, c.TokenService())
	return decorate(c, base, authUseCase.NewAdminCredentialUseCaseWithMetrics)
}

func (c *Container) buildClientHandler() (*authHTTP.ClientHandler, error) {
	clients, err := c.ClientUseCase()
	if err != nil {
		return nil, err
	}

	auditLogs, err := c.AuditLogUseCase()
	if err != nil {
		return nil, err
	}

	return authHTTP.NewClientHandler(clients, auditLogs, c.Logger()), nil
}

func (c *Container) buildTokenHandler() (*authHTTP.TokenHandler, error) {
	tokens, err := c.TokenUseCase()
	if err != nil {
		return nil, err
	}
	return authHTTP.NewTokenHandler(tokens, c.Logger()), nil
}

func (c *Container) buildAuditLogHandler() (*authHTTP.AuditLogHandler, error) {
	auditLogs, err := c.AuditLogUseCase()
	if err != nil {
		return nil, err
	}
	return authHTTP.NewAuditLogHandler(auditLogs, c.Logger()), nil
}
