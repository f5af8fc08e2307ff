package utils_test

import (
	"testing"

	"github.com/eventpass/eventpass-go/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestValue(t *testing.T) {
	require.Equal(t, "x", utils.Value(utils.Ptr("x")))
	require.Empty(t, utils.Value[string](nil))
}

func TestValueOr(t *testing.T) {
	require.Equal(t, "x", utils.ValueOr(utils.Ptr("x"), "fallback"))
	require.Equal(t, "fallback", utils.ValueOr[string](nil, "fallback"))
}
