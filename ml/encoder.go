package ml

import (
	"errors"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

const (
	HandleUnknownIgnore = "ignore"
	HandleUnknownError  = "error"
	// HandleUnknownEncodedValue is the ordinal-encoder spelling of "ignore".
	HandleUnknownEncodedValue = "use_encoded_value"
)

var ErrUnknownCategory = errors.New("unknown category")

// Encoder maps one categorical value onto a fixed-width numeric row.
type Encoder interface {
	Transform(category string) ([]float64, error)
	Width() int
	Known(category string) bool
}

// vocabulary is an ordered category list. Categories are compared in NFC so
// token names that differ only in Unicode composition land in the same slot.
type vocabulary struct {
	categories []string
	index      map[string]int
}

func newVocabulary(categories []string) (vocabulary, error) {
	if len(categories) == 0 {
		return vocabulary{}, errors.New("encoder has no categories")
	}
	v := vocabulary{
		categories: make([]string, len(categories)),
		index:      make(map[string]int, len(categories)),
	}
	for i, c := range categories {
		key := norm.NFC.String(c)
		if _, dup := v.index[key]; dup {
			return vocabulary{}, fmt.Errorf("duplicate category %q", c)
		}
		v.categories[i] = key
		v.index[key] = i
	}
	return v, nil
}

func (v vocabulary) lookup(category string) (int, bool) {
	i, ok := v.index[norm.NFC.String(category)]
	return i, ok
}

// OneHotEncoder emits one column per known category. With the ignore policy
// an unknown category encodes as all zeros.
type OneHotEncoder struct {
	vocab         vocabulary
	handleUnknown string
}

func NewOneHotEncoder(categories []string, handleUnknown string) (*OneHotEncoder, error) {
	switch handleUnknown {
	case "":
		handleUnknown = HandleUnknownIgnore
	case HandleUnknownIgnore, HandleUnknownError:
	default:
		return nil, fmt.Errorf("one_hot: unsupported handle_unknown %q", handleUnknown)
	}
	vocab, err := newVocabulary(categories)
	if err != nil {
		return nil, err
	}
	return &OneHotEncoder{vocab: vocab, handleUnknown: handleUnknown}, nil
}

func (e *OneHotEncoder) Width() int { return len(e.vocab.categories) }

func (e *OneHotEncoder) Known(category string) bool {
	_, ok := e.vocab.lookup(category)
	return ok
}

func (e *OneHotEncoder) Transform(category string) ([]float64, error) {
	row := make([]float64, e.Width())
	i, ok := e.vocab.lookup(category)
	if !ok {
		if e.handleUnknown == HandleUnknownError {
			return nil, fmt.Errorf("%w %q", ErrUnknownCategory, category)
		}
		return row, nil
	}
	row[i] = 1
	return row, nil
}

// OrdinalEncoder emits a single column holding the category's position.
type OrdinalEncoder struct {
	vocab         vocabulary
	handleUnknown string
	unknownValue  float64
}

func NewOrdinalEncoder(categories []string, handleUnknown string, unknownValue *float64) (*OrdinalEncoder, error) {
	switch handleUnknown {
	case "", HandleUnknownEncodedValue:
		handleUnknown = HandleUnknownIgnore
	case HandleUnknownIgnore, HandleUnknownError:
	default:
		return nil, fmt.Errorf("ordinal: unsupported handle_unknown %q", handleUnknown)
	}
	vocab, err := newVocabulary(categories)
	if err != nil {
		return nil, err
	}
	e := &OrdinalEncoder{vocab: vocab, handleUnknown: handleUnknown, unknownValue: -1}
	if unknownValue != nil {
		if *unknownValue >= 0 && *unknownValue < float64(len(categories)) {
			return nil, fmt.Errorf("ordinal: unknown_value %v collides with a known category", *unknownValue)
		}
		e.unknownValue = *unknownValue
	}
	return e, nil
}

func (e *OrdinalEncoder) Width() int { return 1 }

func (e *OrdinalEncoder) Known(category string) bool {
	_, ok := e.vocab.lookup(category)
	return ok
}

func (e *OrdinalEncoder) Transform(category string) ([]float64, error) {
	i, ok := e.vocab.lookup(category)
	if !ok {
		if e.handleUnknown == HandleUnknownError {
			return nil, fmt.Errorf("%w %q", ErrUnknownCategory, category)
		}
		return []float64{e.unknownValue}, nil
	}
	return []float64{float64(i)}, nil
}
