package app

import (
	"context"
	"fmt"
	"log/slog"

	cryptoDomain "github.com/allisson/anonymizer/internal/crypto/domain"
	cryptoService "github.com/allisson/anonymizer/internal/crypto/service"
)

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// KMSKeeper returns the keeper protecting the shared secret, or nil when no KMS provider is configured.
func (c *Container) KMSKeeper() (cryptoDomain.KMSKeeper, error) {
	var err error
	c.kmsKeeperInit.Do(func() {
		c.kmsKeeper, err = c.initKMSKeeper()
		if err != nil {
			c.setInitError("kmsKeeper", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("kmsKeeper"); storedErr != nil {
		return nil, storedErr
	}
	return c.kmsKeeper, nil
}

// SharedSecret returns the shared secret, decrypted through the KMS keeper when one is configured.
func (c *Container) SharedSecret() (*cryptoDomain.SharedSecret, error) {
	var err error
	c.sharedSecretInit.Do(func() {
		c.sharedSecret, err = c.initSharedSecret()
		if err != nil {
			c.setInitError("sharedSecret", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("sharedSecret"); storedErr != nil {
		return nil, storedErr
	}
	return c.sharedSecret, nil
}

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// MapAEAD returns the cipher that seals substitution map entries.
func (c *Container) MapAEAD() (cryptoService.AEAD, error) {
	var err error
	c.mapAEADInit.Do(func() {
		c.mapAEAD, err = c.initMapAEAD()
		if err != nil {
			c.setInitError("mapAEAD", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("mapAEAD"); storedErr != nil {
		return nil, storedErr
	}
	return c.mapAEAD, nil
}

func (c *Container) initKMSKeeper() (cryptoDomain.KMSKeeper, error) {
	if c.config.KMSProvider == "" {
		return nil, nil
	}
	if c.config.KMSKeyURI == "" {
		return nil, cryptoDomain.ErrKMSKeyURIRequired
	}

	keeper, err := c.KMSService().OpenKeeper(context.Background(), c.config.KMSKeyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open kms keeper for provider %s: %w", c.config.KMSProvider, err)
	}

	c.Logger().Info("kms keeper opened", slog.String("provider", c.config.KMSProvider))
	return keeper, nil
}

func (c *Container) initSharedSecret() (*cryptoDomain.SharedSecret, error) {
	keeper, err := c.KMSKeeper()
	if err != nil {
		return nil, fmt.Errorf("failed to get kms keeper for shared secret: %w", err)
	}

	secret, err := cryptoDomain.LoadSharedSecret(context.Background(), c.config.AnonymizerSecret, keeper)
	if err != nil {
		return nil, fmt.Errorf("failed to load shared secret: %w", err)
	}
	return secret, nil
}

func (c *Container) initMapAEAD() (cryptoService.AEAD, error) {
	alg, err := cryptoDomain.ParseAlgorithm(c.config.AnonymizerCipher)
	if err != nil {
		return nil, err
	}

	secret, err := c.SharedSecret()
	if err != nil {
		return nil, err
	}

	aead, err := cryptoService.NewMapCipher(c.AEADManager(), secret, alg)
	if err != nil {
		return nil, fmt.Errorf("failed to create map cipher: %w", err)
	}
	return aead, nil
}
