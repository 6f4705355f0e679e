package app

import (
	"fmt"

	farmHTTP "github.com/allisson/farmaggregator/internal/farm/http"
	farmRepository "github.com/allisson/farmaggregator/internal/farm/repository"
	farmService "github.com/allisson/farmaggregator/internal/farm/service"
	farmUseCase "github.com/allisson/farmaggregator/internal/farm/usecase"
)

// FarmRepository returns the farm directory for the configured driver.
func (c *Container) FarmRepository() (farmUseCase.FarmRepository, error) {
	c.farmRepositoryInit.Do(func() {
		repo, err := c.initFarmRepository()
		if err != nil {
			c.recordError("farmRepository", err)
			return
		}
		c.farmRepository = repo
	})
	if err := c.storedError("farmRepository"); err != nil {
		return nil, err
	}
	return c.farmRepository, nil
}

// FarmTokenRepository returns the farm OAuth token repository for the configured driver.
func (c *Container) FarmTokenRepository() (farmUseCase.FarmTokenRepository, error) {
	c.farmTokenRepositoryInit.Do(func() {
		repo, err := c.initFarmTokenRepository()
		if err != nil {
			c.recordError("farmTokenRepository", err)
			return
		}
		c.farmTokenRepository = repo
	})
	if err := c.storedError("farmTokenRepository"); err != nil {
		return nil, err
	}
	return c.farmTokenRepository, nil
}

// TokenStore returns the farm token store.
func (c *Container) TokenStore() (farmUseCase.TokenStore, error) {
	c.tokenStoreInit.Do(func() {
		txManager, err := c.TxManager()
		if err != nil {
			c.recordError("tokenStore", fmt.Errorf("failed to get tx manager for token store: %w", err))
			return
		}
		tokenRepo, err := c.FarmTokenRepository()
		if err != nil {
			c.recordError("tokenStore", fmt.Errorf("failed to get farm token repository for token store: %w", err))
			return
		}
		c.tokenStore = farmUseCase.NewTokenStore(txManager, tokenRepo, c.Logger())
	})
	if err := c.storedError("tokenStore"); err != nil {
		return nil, err
	}
	return c.tokenStore, nil
}

// FarmResolver returns the access resolver.
func (c *Container) FarmResolver() (farmUseCase.FarmResolver, error) {
	c.farmResolverInit.Do(func() {
		farmRepo, err := c.FarmRepository()
		if err != nil {
			c.recordError("farmResolver", fmt.Errorf("failed to get farm repository for farm resolver: %w", err))
			return
		}
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.recordError("farmResolver", fmt.Errorf("failed to get business metrics for farm resolver: %w", err))
			return
		}
		c.farmResolver = farmUseCase.NewFarmResolverWithMetrics(
			farmUseCase.NewFarmResolver(farmRepo),
			businessMetrics,
		)
	})
	if err := c.storedError("farmResolver"); err != nil {
		return nil, err
	}
	return c.farmResolver, nil
}

// TokenExchanger returns the authorization code exchanger.
func (c *Container) TokenExchanger() (farmService.TokenExchanger, error) {
	c.tokenExchangerInit.Do(func() {
		httpClient, err := c.FarmHTTPClient()
		if err != nil {
			c.recordError("tokenExchanger", fmt.Errorf("failed to get http client for token exchanger: %w", err))
			return
		}
		c.tokenExchanger = farmService.NewTokenExchanger(httpClient, c.Logger())
	})
	if err := c.storedError("tokenExchanger"); err != nil {
		return nil, err
	}
	return c.tokenExchanger, nil
}

// ClientFactory returns the per-farm OAuth client factory.
func (c *Container) ClientFactory() (farmUseCase.ClientFactory, error) {
	c.clientFactoryInit.Do(func() {
		factory, err := c.initClientFactory()
		if err != nil {
			c.recordError("clientFactory", err)
			return
		}
		c.clientFactory = factory
	})
	if err := c.storedError("clientFactory"); err != nil {
		return nil, err
	}
	return c.clientFactory, nil
}

// AuthorizationUseCase returns the authorization code flow use case.
func (c *Container) AuthorizationUseCase() (farmUseCase.AuthorizationUseCase, error) {
	c.authorizationUseCaseInit.Do(func() {
		useCase, err := c.initAuthorizationUseCase()
		if err != nil {
			c.recordError("authorizationUseCase", err)
			return
		}
		c.authorizationUseCase = useCase
	})
	if err := c.storedError("authorizationUseCase"); err != nil {
		return nil, err
	}
	return c.authorizationUseCase, nil
}

// FarmRegistry returns the farm registration and health check use case.
func (c *Container) FarmRegistry() (farmUseCase.FarmRegistry, error) {
	c.farmRegistryInit.Do(func() {
		farmRepo, err := c.FarmRepository()
		if err != nil {
			c.recordError("farmRegistry", fmt.Errorf("failed to get farm repository for farm registry: %w", err))
			return
		}
		clientFactory, err := c.ClientFactory()
		if err != nil {
			c.recordError("farmRegistry", fmt.Errorf("failed to get client factory for farm registry: %w", err))
			return
		}
		c.farmRegistry = farmUseCase.NewFarmRegistry(farmRepo, clientFactory, c.Logger())
	})
	if err := c.storedError("farmRegistry"); err != nil {
		return nil, err
	}
	return c.farmRegistry, nil
}

// FarmHandler returns the HTTP handler for /v1/farms.
func (c *Container) FarmHandler() (*farmHTTP.FarmHandler, error) {
	c.farmHandlerInit.Do(func() {
		handler, err := c.initFarmHandler()
		if err != nil {
			c.recordError("farmHandler", err)
			return
		}
		c.farmHandler = handler
	})
	if err := c.storedError("farmHandler"); err != nil {
		return nil, err
	}
	return c.farmHandler, nil
}

func (c *Container) initFarmRepository() (farmUseCase.FarmRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for farm repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return farmRepository.NewPostgreSQLFarmRepository(db), nil
	case "mysql":
		return farmRepository.NewMySQLFarmRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initFarmTokenRepository() (farmUseCase.FarmTokenRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for farm token repository: %w", err)
	}

	cipher, err := c.TokenCipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get token cipher for farm token repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return farmRepository.NewPostgreSQLFarmTokenRepository(db, cipher), nil
	case "mysql":
		return farmRepository.NewMySQLFarmTokenRepository(db, cipher), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initClientFactory() (farmUseCase.ClientFactory, error) {
	farmRepo, err := c.FarmRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get farm repository for client factory: %w", err)
	}

	tokenRepo, err := c.FarmTokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get farm token repository for client factory: %w", err)
	}

	tokenStore, err := c.TokenStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get token store for client factory: %w", err)
	}

	alertSink, err := c.AlertSink()
	if err != nil {
		return nil, fmt.Errorf("failed to get alert sink for client factory: %w", err)
	}

	httpClient, err := c.FarmHTTPClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get http client for client factory: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for client factory: %w", err)
	}

	factory := farmUseCase.NewClientFactory(
		c.config,
		farmRepo,
		tokenRepo,
		tokenStore,
		alertSink,
		httpClient,
		c.Logger(),
	)
	return farmUseCase.NewClientFactoryWithMetrics(factory, businessMetrics), nil
}

func (c *Container) initAuthorizationUseCase() (farmUseCase.AuthorizationUseCase, error) {
	resolver, err := c.FarmResolver()
	if err != nil {
		return nil, fmt.Errorf("failed to get farm resolver for authorization use case: %w", err)
	}

	exchanger, err := c.TokenExchanger()
	if err != nil {
		return nil, fmt.Errorf("failed to get token exchanger for authorization use case: %w", err)
	}

	tokenStore, err := c.TokenStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get token store for authorization use case: %w", err)
	}

	farmRepo, err := c.FarmRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get farm repository for authorization use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for authorization use case: %w", err)
	}

	useCase := farmUseCase.NewAuthorizationUseCase(resolver, exchanger, tokenStore, farmRepo, c.Logger())
	return farmUseCase.NewAuthorizationUseCaseWithMetrics(useCase, businessMetrics), nil
}

func (c *Container) initFarmHandler() (*farmHTTP.FarmHandler, error) {
	resolver, err := c.FarmResolver()
	if err != nil {
		return nil, fmt.Errorf("failed to get farm resolver for farm handler: %w", err)
	}

	clientFactory, err := c.ClientFactory()
	if err != nil {
		return nil, fmt.Errorf("failed to get client factory for farm handler: %w", err)
	}

	authorization, err := c.AuthorizationUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get authorization use case for farm handler: %w", err)
	}

	return farmHTTP.NewFarmHandler(resolver, clientFactory, authorization, c.Logger()), nil
}
