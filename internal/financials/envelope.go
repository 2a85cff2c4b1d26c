package financials

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/wonny/probe/backend/internal/contracts"
)

var (
	ErrNotUTF8       = errors.New("file is not valid UTF-8")
	ErrMalformedJSON = errors.New("file is not valid JSON")
	ErrMissingData   = errors.New(`missing "data" field`)
	ErrDataNotObject = errors.New(`"data" must be a JSON object`)
)

// DecodeEnvelope reads {"data": {...}} and returns the inner document
// ⭐ SSOT: 업로드 바이트 → FinancialDocument 변환은 여기서만
func DecodeEnvelope(r io.Reader) (contracts.FinancialDocument, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read envelope: %w", err)
	}
	return DecodeEnvelopeBytes(raw)
}

// DecodeEnvelopeBytes is DecodeEnvelope over an in-memory payload
func DecodeEnvelopeBytes(raw []byte) (contracts.FinancialDocument, error) {
	if !utf8.Valid(raw) {
		return nil, contracts.WrapError(contracts.ErrInvalidInput, "decode envelope", ErrNotUTF8)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var top any
	if err := dec.Decode(&top); err != nil {
		return nil, contracts.WrapError(contracts.ErrInvalidInput, "decode envelope", fmt.Errorf("%w: %v", ErrMalformedJSON, err))
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, contracts.WrapError(contracts.ErrInvalidInput, "decode envelope", fmt.Errorf("%w: trailing data", ErrMalformedJSON))
	}

	obj, ok := top.(map[string]any)
	if !ok {
		return nil, contracts.WrapError(contracts.ErrInvalidInput, "decode envelope", fmt.Errorf("%w: top level is not an object", ErrMalformedJSON))
	}

	data, ok := obj["data"]
	if !ok {
		return nil, contracts.WrapError(contracts.ErrInvalidInput, "decode envelope", ErrMissingData)
	}

	doc, ok := data.(map[string]any)
	if !ok {
		return nil, contracts.WrapError(contracts.ErrInvalidInput, "decode envelope", ErrDataNotObject)
	}
	return contracts.FinancialDocument(doc), nil
}
