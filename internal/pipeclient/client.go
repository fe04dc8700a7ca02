package pipeclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/pipes"
	"github.com/aws/smithy-go/logging"
	"github.com/rs/zerolog"

	"github.com/rshade/pipesctl/internal/awsutil"
)

// ServiceID is the endpoint prefix of EventBridge Pipes.
const ServiceID = "pipes"

// Client is a configured Pipes client plus the endpoint it talks to.
type Client struct {
	API
	Region   string
	Endpoint string
}

// ClientOptions configures NewClient.
type ClientOptions struct {
	awsutil.Options
	// Logger receives SDK log output. Nil disables SDK logging.
	Logger *zerolog.Logger
	// Debug enables request and retry logging in the SDK.
	Debug bool
}

// NewClient loads AWS configuration and builds a Pipes client.
func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	cfg, err := awsutil.LoadConfig(ctx, opts.Options)
	if err != nil {
		return nil, err
	}

	if opts.Logger != nil {
		cfg.Logger = SDKLogger(*opts.Logger)
		if opts.Debug {
			cfg.ClientLogMode = aws.LogRetries | aws.LogRequest | aws.LogResponse
		}
	}

	client := pipes.NewFromConfig(cfg, func(o *pipes.Options) {
		if opts.EndpointURL != "" {
			o.BaseEndpoint = aws.String(opts.EndpointURL)
		}
	})

	return &Client{
		API:      client,
		Region:   cfg.Region,
		Endpoint: awsutil.EndpointHost(ServiceID, cfg.Region, opts.EndpointURL),
	}, nil
}

// SDKLogger adapts a zerolog logger to the smithy logging interface.
func SDKLogger(logger zerolog.Logger) logging.Logger {
	sdk := logger.With().Str("component", "aws-sdk").Logger()
	return logging.LoggerFunc(func(classification logging.Classification, format string, v ...interface{}) {
		msg := strings.TrimSpace(fmt.Sprintf(format, v...))
		if classification == logging.Warn {
			sdk.Warn().Msg(msg)
			return
		}
		sdk.Debug().Msg(msg)
	})
}
