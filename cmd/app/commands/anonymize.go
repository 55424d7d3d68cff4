package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	anonymizationDomain "github.com/allisson/anonymizer/internal/anonymization/domain"
	"github.com/allisson/anonymizer/internal/anonymization/http/dto"
	anonymizationService "github.com/allisson/anonymizer/internal/anonymization/service"
)

// anonymizedDocument is the output of RunAnonymize and an accepted input of RunDeanonymize.
type anonymizedDocument struct {
	AnonymizedData   json.RawMessage                  `json:"anonymized_data"`
	AnonymizationMap anonymizationDomain.EncryptedMap `json:"anonymization_map"`
}

// RunAnonymize reads one JSON document from reader, replaces detected PII with tokens
// and writes {anonymized_data, anonymization_map, entries} to writer. No database is used.
func RunAnonymize(
	anonymizer anonymizationService.Anonymizer,
	logger *slog.Logger,
	reader io.Reader,
	writer io.Writer,
) error {
	data, err := readDocument(reader)
	if err != nil {
		return err
	}

	result, err := anonymizer.Anonymize(data)
	if err != nil {
		return fmt.Errorf("failed to anonymize document: %w", err)
	}

	logger.Debug("document anonymized", slog.Int("entries", result.Entries))

	return writeJSON(writer, dto.MapAnonymizeResultToResponse(result))
}

// RunDeanonymize restores tokens in a document. With mapReader the input is the
// anonymized data and mapReader holds the anonymization map object. Without it the
// input must be the output of RunAnonymize.
func RunDeanonymize(
	anonymizer anonymizationService.Anonymizer,
	logger *slog.Logger,
	reader io.Reader,
	mapReader io.Reader,
	writer io.Writer,
) error {
	var (
		data      any
		encrypted anonymizationDomain.EncryptedMap
		err       error
	)

	if mapReader != nil {
		data, err = readDocument(reader)
		if err != nil {
			return err
		}
		encrypted, err = readMap(mapReader)
		if err != nil {
			return err
		}
	} else {
		data, encrypted, err = readAnonymizedDocument(reader)
		if err != nil {
			return err
		}
	}

	result, err := anonymizer.Deanonymize(data, encrypted)
	if err != nil {
		return fmt.Errorf("failed to deanonymize document: %w", err)
	}

	logger.Debug("document deanonymized",
		slog.Int("restored_entries", result.Restored),
		slog.Int("dropped_entries", result.Dropped),
	)

	return writeJSON(writer, dto.MapDeanonymizeResultToResponse(result))
}

func readDocument(reader io.Reader) (any, error) {
	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errors.New("input is empty")
	}

	data, err := dto.DecodeData(raw)
	if err != nil {
		return nil, fmt.Errorf("input is not valid JSON: %w", err)
	}
	return data, nil
}

func readMap(reader io.Reader) (anonymizationDomain.EncryptedMap, error) {
	var encrypted anonymizationDomain.EncryptedMap
	if err := json.NewDecoder(reader).Decode(&encrypted); err != nil {
		return nil, fmt.Errorf("anonymization map must be a JSON object of strings: %w", err)
	}
	return encrypted, nil
}

func readAnonymizedDocument(reader io.Reader) (any, anonymizationDomain.EncryptedMap, error) {
	var doc anonymizedDocument
	if err := json.NewDecoder(reader).Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("input is not an anonymize output document: %w", err)
	}
	if len(doc.AnonymizedData) == 0 {
		return nil, nil, errors.New("input is missing anonymized_data; pass --map to restore raw data")
	}

	data, err := dto.DecodeData(doc.AnonymizedData)
	if err != nil {
		return nil, nil, fmt.Errorf("anonymized_data is not valid JSON: %w", err)
	}
	return data, doc.AnonymizationMap, nil
}
