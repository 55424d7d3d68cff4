package app

import (
	"fmt"

	anonymizationDomain "github.com/allisson/anonymizer/internal/anonymization/domain"
	anonymizationHTTP "github.com/allisson/anonymizer/internal/anonymization/http"
	anonymizationRepository "github.com/allisson/anonymizer/internal/anonymization/repository"
	anonymizationService "github.com/allisson/anonymizer/internal/anonymization/service"
	anonymizationUseCase "github.com/allisson/anonymizer/internal/anonymization/usecase"
	"github.com/allisson/anonymizer/internal/database"
)

// MapCipher returns the service sealing and opening substitution maps.
func (c *Container) MapCipher() (*anonymizationService.MapCipher, error) {
	var err error
	c.mapCipherInit.Do(func() {
		c.mapCipher, err = c.initMapCipher()
		if err != nil {
			c.setInitError("mapCipher", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("mapCipher"); storedErr != nil {
		return nil, storedErr
	}
	return c.mapCipher, nil
}

// TokenGenerator returns the generator for prefixed replacement tokens.
func (c *Container) TokenGenerator() (*anonymizationService.PrefixedTokenGenerator, error) {
	var err error
	c.tokenGeneratorInit.Do(func() {
		c.tokenGenerator, err = c.initTokenGenerator()
		if err != nil {
			c.setInitError("tokenGenerator", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("tokenGenerator"); storedErr != nil {
		return nil, storedErr
	}
	return c.tokenGenerator, nil
}

// Anonymizer returns the anonymizer. It needs no database and backs the offline CLI commands too.
func (c *Container) Anonymizer() (anonymizationService.Anonymizer, error) {
	var err error
	c.anonymizerInit.Do(func() {
		c.anonymizer, err = c.initAnonymizer()
		if err != nil {
			c.setInitError("anonymizer", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("anonymizer"); storedErr != nil {
		return nil, storedErr
	}
	return c.anonymizer, nil
}

// SessionRepository returns the session repository for the configured driver.
func (c *Container) SessionRepository() (anonymizationUseCase.SessionRepository, error) {
	var err error
	c.sessionRepositoryInit.Do(func() {
		c.sessionRepository, err = c.initSessionRepository()
		if err != nil {
			c.setInitError("sessionRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("sessionRepository"); storedErr != nil {
		return nil, storedErr
	}
	return c.sessionRepository, nil
}

// AnonymizationUseCase returns the anonymization use case wrapped with metrics.
func (c *Container) AnonymizationUseCase() (anonymizationUseCase.AnonymizationUseCase, error) {
	var err error
	c.anonymizationUseCaseInit.Do(func() {
		c.anonymizationUseCase, err = c.initAnonymizationUseCase()
		if err != nil {
			c.setInitError("anonymizationUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("anonymizationUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.anonymizationUseCase, nil
}

// AnonymizationHandler returns the HTTP handler for anonymization endpoints.
func (c *Container) AnonymizationHandler() (*anonymizationHTTP.AnonymizationHandler, error) {
	var err error
	c.anonymizationHandlerInit.Do(func() {
		c.anonymizationHandler, err = c.initAnonymizationHandler()
		if err != nil {
			c.setInitError("anonymizationHandler", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("anonymizationHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.anonymizationHandler, nil
}

func (c *Container) initMapCipher() (*anonymizationService.MapCipher, error) {
	aead, err := c.MapAEAD()
	if err != nil {
		return nil, fmt.Errorf("failed to get map aead: %w", err)
	}
	return anonymizationService.NewMapCipher(aead, c.Logger()), nil
}

func (c *Container) initTokenGenerator() (*anonymizationService.PrefixedTokenGenerator, error) {
	return anonymizationService.NewPrefixedTokenGenerator(
		c.config.AnonymizerTokenPrefix,
		c.config.AnonymizerTokenLength,
		anonymizationService.NewAlphanumericGenerator(),
	)
}

func (c *Container) initAnonymizer() (anonymizationService.Anonymizer, error) {
	restoreMode, err := anonymizationDomain.ParseRestoreMode(c.config.AnonymizerRestoreMode)
	if err != nil {
		return nil, err
	}

	tokens, err := c.TokenGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to get token generator: %w", err)
	}

	cipher, err := c.MapCipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get map cipher: %w", err)
	}

	return anonymizationService.NewAnonymizer(
		anonymizationService.DefaultPatternMatchers(),
		tokens,
		cipher,
		restoreMode,
	), nil
}

func (c *Container) initSessionRepository() (anonymizationUseCase.SessionRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for session repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return anonymizationRepository.NewPostgreSQLSessionRepository(db), nil
	case database.DriverMySQL:
		return anonymizationRepository.NewMySQLSessionRepository(db), nil
	default:
		return nil, fmt.Errorf("%w: %s", database.ErrUnsupportedDriver, c.config.DBDriver)
	}
}

func (c *Container) initAnonymizationUseCase() (anonymizationUseCase.AnonymizationUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for anonymization use case: %w", err)
	}

	sessionRepository, err := c.SessionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get session repository for anonymization use case: %w", err)
	}

	anonymizer, err := c.Anonymizer()
	if err != nil {
		return nil, fmt.Errorf("failed to get anonymizer for anonymization use case: %w", err)
	}

	useCase := anonymizationUseCase.NewAnonymizationUseCase(
		txManager,
		sessionRepository,
		anonymizer,
		c.config.SessionTTL,
	)

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for anonymization use case: %w", err)
	}

	return anonymizationUseCase.NewAnonymizationUseCaseWithMetrics(useCase, businessMetrics), nil
}

func (c *Container) initAnonymizationHandler() (*anonymizationHTTP.AnonymizationHandler, error) {
	useCase, err := c.AnonymizationUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get anonymization use case for handler: %w", err)
	}
	return anonymizationHTTP.NewAnonymizationHandler(useCase, c.Logger()), nil
}
