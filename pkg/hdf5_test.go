package k0sperf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertToHdf5String(t *testing.T) {
	t.Run("pads with zero bytes", func(t *testing.T) {
		var want [STRLEN]byte
		copy(want[:], "h1_events")
		assert.Equal(t, want, convertToHdf5String("h1_events"))
	})

	t.Run("truncates long strings", func(t *testing.T) {
		got := convertToHdf5String(strings.Repeat("x", STRLEN+10))
		assert.Equal(t, strings.Repeat("x", STRLEN), string(got[:]))
	})

	t.Run("empty string", func(t *testing.T) {
		assert.Equal(t, [STRLEN]byte{}, convertToHdf5String(""))
	})
}
