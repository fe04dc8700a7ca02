package apierr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, Classify("ListPipes", "pipes.us-east-1.amazonaws.com", nil))
	})

	t.Run("service error keeps SDK message", func(t *testing.T) {
		sdkErr := &smithy.GenericAPIError{Code: "ValidationException", Message: "name too long"}
		wrapped := fmt.Errorf("operation error Pipes: UpdatePipe: %w", sdkErr)

		err := Classify("UpdatePipe", "pipes.us-east-1.amazonaws.com", wrapped)

		var svcErr *ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "UpdatePipe", svcErr.Operation)
		assert.Equal(t, "ValidationException", svcErr.Code)
		assert.Equal(t, wrapped.Error(), err.Error())

		var apiErr smithy.APIError
		assert.ErrorAs(t, err, &apiErr, "SDK error must remain reachable")
	})

	t.Run("dns failure gets endpoint diagnostic", func(t *testing.T) {
		dnsErr := &net.DNSError{Err: "no such host", Name: "pipes.xx-nowhere-1.amazonaws.com", IsNotFound: true}
		err := Classify("ListPipes", "pipes.xx-nowhere-1.amazonaws.com", fmt.Errorf("send request: %w", dnsErr))

		var tErr *TransportError
		require.ErrorAs(t, err, &tErr)
		assert.Contains(t, err.Error(), "calling ListPipes")
		assert.Contains(t, err.Error(), "could not resolve pipes.xx-nowhere-1.amazonaws.com")
		assert.True(t, IsTransport(err))
		assert.False(t, IsService(err))
	})

	t.Run("dns failure without endpoint uses resolver name", func(t *testing.T) {
		dnsErr := &net.DNSError{Err: "no such host", Name: "localhost.invalid"}
		err := Classify("ListPipes", "", dnsErr)
		assert.Contains(t, err.Error(), "could not resolve localhost.invalid")
	})

	t.Run("plain transport failure has no detail", func(t *testing.T) {
		err := Classify("StartPipe", "pipes.eu-west-1.amazonaws.com", errors.New("connection reset"))

		var tErr *TransportError
		require.ErrorAs(t, err, &tErr)
		assert.Empty(t, tErr.Detail)
		assert.Equal(t, "calling StartPipe: connection reset", err.Error())
	})

	t.Run("cancellation passes through", func(t *testing.T) {
		err := Classify("ListPipes", "", context.Canceled)
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, IsTransport(err))
	})

	t.Run("configuration error passes through", func(t *testing.T) {
		cfgErr := Configf("bad selector %q", "Nope")
		err := Classify("ListPipes", "", cfgErr)
		assert.Same(t, cfgErr, err)
		assert.True(t, IsConfiguration(err))
	})
}

func TestConfigWrap(t *testing.T) {
	assert.NoError(t, ConfigWrap(nil))

	base := errors.New("boom")
	err := ConfigWrap(base)
	assert.True(t, IsConfiguration(err))
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "boom", err.Error())
}
