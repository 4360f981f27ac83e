package inference

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"walletscore/ml"
)

// ErrMalformedInput marks input that is not exactly one JSON object.
var ErrMalformedInput = errors.New("malformed input")

// ParseRecord decodes one JSON object from r and validates it. A leading
// UTF-8 byte order mark is dropped and invalid UTF-8 is replaced before
// decoding. Anything after the object other than whitespace is rejected.
func ParseRecord(r io.Reader) (ml.WalletFeatures, error) {
	dec := json.NewDecoder(transform.NewReader(r, unicode.UTF8BOM.NewDecoder()))
	dec.UseNumber()

	var root interface{}
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return ml.WalletFeatures{}, fmt.Errorf("%w: empty input", ErrMalformedInput)
		}
		return ml.WalletFeatures{}, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return ml.WalletFeatures{}, fmt.Errorf("%w: unexpected data after JSON object", ErrMalformedInput)
	}
	fields, ok := root.(map[string]interface{})
	if !ok {
		return ml.WalletFeatures{}, fmt.Errorf("%w: expected a JSON object, got %s", ErrMalformedInput, jsonKind(root))
	}
	return recordFromFields(fields)
}

func recordFromFields(fields map[string]interface{}) (ml.WalletFeatures, error) {
	record := ml.WalletFeatures{Numeric: make(map[string]float64, ml.NumericFeatureCount())}
	verr := &ValidationError{}

	for _, name := range ml.FeatureNames() {
		raw, ok := fields[name]
		if !ok {
			verr.Missing = append(verr.Missing, name)
			continue
		}
		num, ok := raw.(json.Number)
		if !ok {
			verr.Invalid = append(verr.Invalid, name)
			continue
		}
		v, err := num.Float64()
		if err != nil {
			verr.Invalid = append(verr.Invalid, name)
			continue
		}
		record.Numeric[name] = v
	}

	switch v := fields[ml.TokenTypeFeature].(type) {
	case nil:
	case string:
		record.TokenType = v
	default:
		verr.Invalid = append(verr.Invalid, ml.TokenTypeFeature)
	}

	if len(verr.Missing) > 0 || len(verr.Invalid) > 0 {
		return ml.WalletFeatures{}, verr
	}
	return record, nil
}

func jsonKind(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case []interface{}:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
