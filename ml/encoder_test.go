package ml

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOneHotEncoder(t *testing.T) {
	enc, err := NewOneHotEncoder([]string{"", "Tether USD", "Maker"}, "")
	require.NoError(t, err)
	assert.Equal(t, 3, enc.Width())

	row, err := enc.Transform("Tether USD")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 0}, row)

	row, err = enc.Transform("")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 0}, row)

	assert.False(t, enc.Known("Dogecoin"))
	row, err = enc.Transform("Dogecoin")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0}, row)
}

func TestOneHotEncoderStrictUnknown(t *testing.T) {
	enc, err := NewOneHotEncoder([]string{"Maker"}, HandleUnknownError)
	require.NoError(t, err)

	_, err = enc.Transform("Dogecoin")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownCategory))
	assert.Contains(t, err.Error(), `"Dogecoin"`)
}

func TestEncoderNormalizesUnicode(t *testing.T) {
	// precomposed e-acute vs. e followed by a combining acute accent
	enc, err := NewOneHotEncoder([]string{"Caf\u00e9"}, HandleUnknownError)
	require.NoError(t, err)

	row, err := enc.Transform("Cafe\u0301")
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, row)
}

func TestEncoderRejectsDuplicates(t *testing.T) {
	_, err := NewOneHotEncoder([]string{"Maker", "Maker"}, "")
	assert.Error(t, err)

	_, err = NewOneHotEncoder(nil, "")
	assert.Error(t, err)

	_, err = NewOneHotEncoder([]string{"Maker"}, "infrequent_if_exist")
	assert.Error(t, err)
}

func TestOrdinalEncoder(t *testing.T) {
	enc, err := NewOrdinalEncoder([]string{"", "Tether USD", "Maker"}, HandleUnknownEncodedValue, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, enc.Width())

	row, err := enc.Transform("Maker")
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, row)

	row, err = enc.Transform("Dogecoin")
	require.NoError(t, err)
	assert.Equal(t, []float64{-1}, row)

	custom := 99.0
	enc, err = NewOrdinalEncoder([]string{"Maker"}, "", &custom)
	require.NoError(t, err)
	row, err = enc.Transform("unseen")
	require.NoError(t, err)
	assert.Equal(t, []float64{99}, row)

	colliding := 0.0
	_, err = NewOrdinalEncoder([]string{"Maker"}, "", &colliding)
	assert.Error(t, err)
}
