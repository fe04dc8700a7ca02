package awsutil

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

// ErrLoadAWSConfig wraps failures of the shared AWS configuration chain.
var ErrLoadAWSConfig = errors.New("failed to load AWS configuration")

// Options selects the AWS configuration an invocation uses. Empty fields fall
// back to the SDK default chain (environment, shared config, IMDS).
type Options struct {
	Region      string
	Profile     string
	EndpointURL string
}

// LoadConfig loads the AWS configuration for opts.
func LoadConfig(ctx context.Context, opts Options) (aws.Config, error) {
	var cfgOpts []func(*config.LoadOptions) error

	if opts.Region != "" {
		cfgOpts = append(cfgOpts, config.WithRegion(opts.Region))
	}
	if opts.Profile != "" {
		cfgOpts = append(cfgOpts, config.WithSharedConfigProfile(opts.Profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, cfgOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("%w: %w", ErrLoadAWSConfig, err)
	}
	return cfg, nil
}

// EndpointHost returns the host requests for service will be sent to.
func EndpointHost(service, region, endpointURL string) string {
	if endpointURL != "" {
		if u, err := url.Parse(endpointURL); err == nil && u.Host != "" {
			return u.Hostname()
		}
		return endpointURL
	}
	if region == "" {
		return service + ".amazonaws.com"
	}
	return fmt.Sprintf("%s.%s.amazonaws.com", service, region)
}
