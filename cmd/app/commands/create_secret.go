package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/allisson/anonymizer/internal/crypto/domain"
	cryptoService "github.com/allisson/anonymizer/internal/crypto/service"
)

const generatedSecretSize = 32

// RunCreateSecret generates a random 32-byte shared secret and prints it as
// ANONYMIZER_SECRET. With a KMS provider the printed value is the base64 KMS
// ciphertext of the same secret, which the server decrypts at startup.
//
// Never use the localsecrets provider in production.
func RunCreateSecret(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	kmsProvider string,
	kmsKeyURI string,
) error {
	if (kmsProvider == "") != (kmsKeyURI == "") {
		return errors.New("--kms-provider and --kms-key-uri must be set together")
	}

	raw := make([]byte, generatedSecretSize)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("failed to generate secret: %w", err)
	}
	defer cryptoDomain.Zero(raw)

	// The configured value is used verbatim as key material, so the KMS path
	// wraps the encoded text rather than the raw bytes.
	secret := []byte(base64.StdEncoding.EncodeToString(raw))
	defer cryptoDomain.Zero(secret)

	if kmsProvider == "" {
		_, _ = fmt.Fprintln(writer, "# Shared secret for substitution map encryption")
		_, _ = fmt.Fprintf(writer, "ANONYMIZER_SECRET=\"%s\"\n", secret)
		return nil
	}

	keeper, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			logger.Error("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	ciphertext, err := keeper.Encrypt(ctx, secret)
	if err != nil {
		return fmt.Errorf("failed to encrypt secret with KMS: %w", err)
	}

	logger.Info("shared secret encrypted with kms", slog.String("kms_provider", kmsProvider))

	_, _ = fmt.Fprintln(writer, "# Shared secret for substitution map encryption (KMS mode)")
	_, _ = fmt.Fprintf(writer, "KMS_PROVIDER=\"%s\"\n", kmsProvider)
	_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	_, _ = fmt.Fprintf(writer, "ANONYMIZER_SECRET=\"%s\"\n", base64.StdEncoding.EncodeToString(ciphertext))
	return nil
}
