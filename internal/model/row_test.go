package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumberKeyNonFinite(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		k := NumberKey(f)
		assert.Equal(t, KeyString, k.Kind())
		b, err := k.MarshalJSON()
		assert.NoError(t, err)
		assert.Equal(t, `"`+k.String()+`"`, string(b))
	}
}

func TestKeyCompareAgreesWithID(t *testing.T) {
	keys := []Key{
		NumberKey(1),
		StringKey("1"),
		ParseKeyString("2023-05-01"),
		StringKey("a"),
		NumberKey(1.5),
	}
	for _, a := range keys {
		for _, b := range keys {
			assert.Equal(t, a.ID() == b.ID(), a.Compare(b) == 0, "%v vs %v", a.ID(), b.ID())
			assert.Equal(t, a.Compare(b), -b.Compare(a))
		}
	}
}
