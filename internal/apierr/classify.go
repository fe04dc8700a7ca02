package apierr

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/aws/smithy-go"
)

// Classify maps an error returned by the SDK onto the pipesctl taxonomy.
//
// Errors that already belong to the taxonomy, and context cancellation, are
// returned unchanged. Errors carrying a smithy.APIError become ServiceError;
// everything else becomes TransportError, enriched with a name-resolution hint
// when a *net.DNSError is in the chain.
func Classify(operation, endpoint string, err error) error {
	if err == nil {
		return nil
	}

	if IsConfiguration(err) || IsTransport(err) || IsService(err) {
		return err
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return &ServiceError{
			Operation: operation,
			Code:      apiErr.ErrorCode(),
			Err:       err,
		}
	}

	return &TransportError{
		Operation: operation,
		Endpoint:  endpoint,
		Detail:    endpointDetail(endpoint, err),
		Err:       err,
	}
}

// endpointDetail returns a diagnostic for name-resolution failures.
func endpointDetail(endpoint string, err error) string {
	var dnsErr *net.DNSError
	if !errors.As(err, &dnsErr) {
		return ""
	}

	host := endpoint
	if host == "" {
		host = dnsErr.Name
	}
	return fmt.Sprintf("could not resolve %s; check --region or --endpoint-url", host)
}
