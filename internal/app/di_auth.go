package app

import (
	"fmt"

	authHTTP "github.com/allisson/farmaggregator/internal/auth/http"
	authRepository "github.com/allisson/farmaggregator/internal/auth/repository"
	authService "github.com/allisson/farmaggregator/internal/auth/service"
	authUseCase "github.com/allisson/farmaggregator/internal/auth/usecase"
)

// SecretService returns the client secret hashing service.
func (c *Container) SecretService() authService.SecretService {
	c.secretServiceInit.Do(func() {
		c.secretService = authService.NewSecretService()
	})
	return c.secretService
}

// TokenService returns the bearer token generation service.
func (c *Container) TokenService() authService.TokenService {
	c.tokenServiceInit.Do(func() {
		c.tokenService = authService.NewTokenService()
	})
	return c.tokenService
}

// ClientRepository returns the API client repository for the configured driver.
func (c *Container) ClientRepository() (authUseCase.ClientRepository, error) {
	c.clientRepositoryInit.Do(func() {
		repo, err := c.initClientRepository()
		if err != nil {
			c.recordError("clientRepository", err)
			return
		}
		c.clientRepository = repo
	})
	if err := c.storedError("clientRepository"); err != nil {
		return nil, err
	}
	return c.clientRepository, nil
}

// TokenRepository returns the bearer token repository for the configured driver.
func (c *Container) TokenRepository() (authUseCase.TokenRepository, error) {
	c.tokenRepositoryInit.Do(func() {
		repo, err := c.initTokenRepository()
		if err != nil {
			c.recordError("tokenRepository", err)
			return
		}
		c.tokenRepository = repo
	})
	if err := c.storedError("tokenRepository"); err != nil {
		return nil, err
	}
	return c.tokenRepository, nil
}

// ClientUseCase returns the API client use case.
func (c *Container) ClientUseCase() (authUseCase.ClientUseCase, error) {
	c.clientUseCaseInit.Do(func() {
		useCase, err := c.initClientUseCase()
		if err != nil {
			c.recordError("clientUseCase", err)
			return
		}
		c.clientUseCase = useCase
	})
	if err := c.storedError("clientUseCase"); err != nil {
		return nil, err
	}
	return c.clientUseCase, nil
}

// TokenUseCase returns the bearer token use case.
func (c *Container) TokenUseCase() (authUseCase.TokenUseCase, error) {
	c.tokenUseCaseInit.Do(func() {
		useCase, err := c.initTokenUseCase()
		if err != nil {
			c.recordError("tokenUseCase", err)
			return
		}
		c.tokenUseCase = useCase
	})
	if err := c.storedError("tokenUseCase"); err != nil {
		return nil, err
	}
	return c.tokenUseCase, nil
}

// TokenHandler returns the HTTP handler for POST /v1/token.
func (c *Container) TokenHandler() (*authHTTP.TokenHandler, error) {
	c.tokenHandlerInit.Do(func() {
		tokenUseCase, err := c.TokenUseCase()
		if err != nil {
			c.recordError("tokenHandler", fmt.Errorf("failed to get token use case for token handler: %w", err))
			return
		}
		c.tokenHandler = authHTTP.NewTokenHandler(tokenUseCase, c.Logger())
	})
	if err := c.storedError("tokenHandler"); err != nil {
		return nil, err
	}
	return c.tokenHandler, nil
}

func (c *Container) initClientRepository() (authUseCase.ClientRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for client repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return authRepository.NewPostgreSQLClientRepository(db), nil
	case "mysql":
		return authRepository.NewMySQLClientRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initTokenRepository() (authUseCase.TokenRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for token repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return authRepository.NewPostgreSQLTokenRepository(db), nil
	case "mysql":
		return authRepository.NewMySQLTokenRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initClientUseCase() (authUseCase.ClientUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for client use case: %w", err)
	}

	clientRepo, err := c.ClientRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get client repository for client use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for client use case: %w", err)
	}

	useCase := authUseCase.NewClientUseCase(txManager, clientRepo, c.SecretService())
	return authUseCase.NewClientUseCaseWithMetrics(useCase, businessMetrics), nil
}

func (c *Container) initTokenUseCase() (authUseCase.TokenUseCase, error) {
	clientRepo, err := c.ClientRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get client repository for token use case: %w", err)
	}

	tokenRepo, err := c.TokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get token repository for token use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for token use case: %w", err)
	}

	useCase := authUseCase.NewTokenUseCase(
		c.config,
		clientRepo,
		tokenRepo,
		c.SecretService(),
		c.TokenService(),
	)
	return authUseCase.NewTokenUseCaseWithMetrics(useCase, businessMetrics), nil
}
