// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	anonymizationDomain "github.com/allisson/anonymizer/internal/anonymization/domain"
	customValidation "github.com/allisson/anonymizer/internal/validation"
)

// AnonymizeRequest contains the JSON document to anonymize.
type AnonymizeRequest struct {
	Data    json.RawMessage `json:"data"`
	Persist bool            `json:"persist"` // Store the encrypted map as an anonymization session
}

// Validate checks if the anonymize request is valid.
func (r *AnonymizeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Data, validation.Required),
	)
}

// DeanonymizeRequest contains the document to restore and exactly one map source.
type DeanonymizeRequest struct {
	Data             json.RawMessage   `json:"data"`
	AnonymizationMap map[string]string `json:"anonymization_map,omitempty"`
	SessionID        string            `json:"session_id,omitempty"`
	ConsumeSession   bool              `json:"consume_session,omitempty"`
}

// Validate checks if the deanonymize request is valid.
func (r *DeanonymizeRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Data, validation.Required),
		validation.Field(&r.AnonymizationMap,
			validation.When(r.AnonymizationMap != nil, customValidation.EncryptedMapEntries),
		),
		validation.Field(&r.SessionID,
			customValidation.NoWhitespace,
			customValidation.UUID,
		),
		validation.Field(&r.ConsumeSession,
			validation.When(r.SessionID == "", validation.Empty.Error("requires session_id")),
		),
	)
	if err != nil {
		return err
	}

	hasMap := r.AnonymizationMap != nil
	hasSession := r.SessionID != ""
	if hasMap == hasSession {
		return validation.Errors{
			"anonymization_map": errors.New("exactly one of anonymization_map or session_id is required"),
		}
	}
	return nil
}

// ToDomain converts the validated request into use case input.
func (r *DeanonymizeRequest) ToDomain() (*anonymizationDomain.DeanonymizeInput, error) {
	data, err := DecodeData(r.Data)
	if err != nil {
		return nil, err
	}

	input := &anonymizationDomain.DeanonymizeInput{
		Data:           data,
		ConsumeSession: r.ConsumeSession,
	}
	if r.AnonymizationMap != nil {
		input.Map = anonymizationDomain.EncryptedMap(r.AnonymizationMap)
	}
	if r.SessionID != "" {
		id, err := uuid.Parse(r.SessionID)
		if err != nil {
			return nil, err
		}
		input.SessionID = &id
	}
	return input, nil
}

// DecodeData decodes a raw JSON value into generic values, keeping numbers as json.Number
// so integers beyond float64 precision survive the round trip.
func DecodeData(raw json.RawMessage) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var data any
	if err := decoder.Decode(&data); err != nil {
		return nil, err
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("data must contain a single JSON value")
	}
	return data, nil
}
