package gateway

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCaptured(t *testing.T) {
	t.Parallel()

	require.True(t, Captured("captured"))
	require.True(t, Captured("CAPTURED"))
	require.True(t, Captured(" captured "))
	require.False(t, Captured("authorized"))
	require.False(t, Captured("failed"))
	require.False(t, Captured(""))
}

func TestSignature(t *testing.T) {
	t.Parallel()

	sig := Signature("order_abc", "pay_123", "secret")
	require.Len(t, sig, 64)
	require.Equal(t, sig, Signature("order_abc", "pay_123", "secret"))

	require.NotEqual(t, sig, Signature("order_abc", "pay_124", "secret"))
	require.NotEqual(t, sig, Signature("order_abd", "pay_123", "secret"))
	require.NotEqual(t, sig, Signature("order_abc", "pay_123", "other"))

	// Field order matters: the payload is "orderID|paymentID".
	require.NotEqual(t, sig, Signature("pay_123", "order_abc", "secret"))

	require.Empty(t, Signature("order_abc", "pay_123", ""))
	require.Empty(t, Signature("order_abc", "pay_123", "   "))
}
