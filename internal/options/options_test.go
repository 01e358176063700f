package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type target struct {
	size int
	name string
}

func TestApply(t *testing.T) {
	errInvalid := errors.New("invalid size")

	withSize := func(n int) Option[*target] {
		return New(func(tg *target) error {
			if n <= 0 {
				return errInvalid
			}
			tg.size = n

			return nil
		})
	}
	withName := func(s string) Option[*target] {
		return NoError(func(tg *target) { tg.name = s })
	}

	var tg target
	require.NoError(t, Apply(&tg, withSize(8), nil, withName("a")))
	require.Equal(t, target{size: 8, name: "a"}, tg)

	// later options win
	require.NoError(t, Apply(&tg, withSize(16), withSize(32)))
	require.Equal(t, 32, tg.size)

	// stops at the first error
	tg = target{}
	err := Apply(&tg, withSize(0), withName("skipped"))
	require.ErrorIs(t, err, errInvalid)
	require.Empty(t, tg.name)
}
