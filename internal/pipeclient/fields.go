package pipeclient

import (
	"github.com/aws/aws-sdk-go-v2/service/pipes/types"

	"github.com/rshade/pipesctl/internal/projection"
)

// Parameter names shared by several operations.
const (
	ParamName        = "Name"
	ParamResourceARN = "ResourceArn"
)

func enumValues[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func str(name, flag, path, usage string) projection.Field {
	return projection.Field{Name: name, Flag: flag, Path: path, Kind: projection.KindString, Usage: usage}
}

func enum(name, flag, path, usage string, values []string) projection.Field {
	return projection.Field{Name: name, Flag: flag, Path: path, Kind: projection.KindString, Enum: values, Usage: usage}
}

func num(name, flag, path, usage string) projection.Field {
	return projection.Field{Name: name, Flag: flag, Path: path, Kind: projection.KindInt32, Usage: usage}
}

func list(name, flag, path, usage string) projection.Field {
	return projection.Field{Name: name, Flag: flag, Path: path, Kind: projection.KindStringList, Usage: usage}
}

func dict(name, flag, path, usage string) projection.Field {
	return projection.Field{Name: name, Flag: flag, Path: path, Kind: projection.KindStringMap, Usage: usage}
}

func required(f projection.Field) projection.Field {
	f.Required = true
	return f
}

func nameField() projection.Field {
	return required(str(ParamName, "name", "Name", "Pipe name or ARN"))
}

func desiredStateField() projection.Field {
	return enum("DesiredState", "desired-state", "DesiredState", "State the pipe should be in",
		enumValues(types.RequestedPipeState("").Values()))
}

// ListPipesFields is the catalog of ListPipes. NextToken is driven by the
// pagination flags and is not part of it.
func ListPipesFields() []projection.Field {
	return []projection.Field{
		str("NamePrefix", "name-prefix", "NamePrefix", "Only pipes whose name starts with this prefix"),
		str("SourcePrefix", "source-prefix", "SourcePrefix", "Only pipes whose source starts with this prefix"),
		str("TargetPrefix", "target-prefix", "TargetPrefix", "Only pipes whose target starts with this prefix"),
		enum("CurrentState", "current-state", "CurrentState", "Only pipes in this state",
			enumValues(types.PipeState("").Values())),
		enum("DesiredState", "desired-state", "DesiredState", "Only pipes with this desired state",
			enumValues(types.RequestedPipeState("").Values())),
		num("Limit", "limit", "Limit", "Maximum number of pipes per page"),
	}
}

// NameOnlyFields is the catalog of DescribePipe, StartPipe, StopPipe and DeletePipe.
func NameOnlyFields() []projection.Field {
	return []projection.Field{nameField()}
}

// CreatePipeFields is the catalog of CreatePipe.
func CreatePipeFields() []projection.Field {
	fields := []projection.Field{
		nameField(),
		required(str("RoleArn", "role-arn", "RoleArn", "ARN of the role the pipe assumes")),
		required(str("Source", "source", "Source", "ARN of the source resource")),
		required(str("Target", "target", "Target", "ARN of the target resource")),
		str("Description", "description", "Description", "Pipe description"),
		desiredStateField(),
		str("KmsKeyIdentifier", "kms-key-identifier", "KmsKeyIdentifier", "KMS key used to encrypt pipe data"),
		dict("Tags", "tags", "Tags", "Tags to apply, as key=value pairs"),
	}
	fields = append(fields, sourceFields(true)...)
	fields = append(fields, enrichmentFields()...)
	fields = append(fields, targetFields()...)
	return append(fields, logFields()...)
}

// UpdatePipeFields is the catalog of UpdatePipe. Only flags given on the
// command line reach the request; every other member is left absent.
func UpdatePipeFields() []projection.Field {
	fields := []projection.Field{
		nameField(),
		required(str("RoleArn", "role-arn", "RoleArn", "ARN of the role the pipe assumes")),
		str("Target", "target", "Target", "ARN of the target resource"),
		str("Description", "description", "Description", "Pipe description"),
		desiredStateField(),
		str("KmsKeyIdentifier", "kms-key-identifier", "KmsKeyIdentifier", "KMS key used to encrypt pipe data"),
	}
	fields = append(fields, sourceFields(false)...)
	fields = append(fields, enrichmentFields()...)
	fields = append(fields, targetFields()...)
	return append(fields, logFields()...)
}

// ListTagsFields is the catalog of ListTagsForResource.
func ListTagsFields() []projection.Field {
	return []projection.Field{
		required(str(ParamResourceARN, "resource-arn", "ResourceArn", "ARN of the pipe")),
	}
}

// TagResourceFields is the catalog of TagResource.
func TagResourceFields() []projection.Field {
	return []projection.Field{
		required(str(ParamResourceARN, "resource-arn", "ResourceArn", "ARN of the pipe")),
		required(dict("Tags", "tags", "Tags", "Tags to add, as key=value pairs")),
	}
}

// UntagResourceFields is the catalog of UntagResource.
func UntagResourceFields() []projection.Field {
	return []projection.Field{
		required(str(ParamResourceARN, "resource-arn", "ResourceArn", "ARN of the pipe")),
		required(list("TagKeys", "tag-keys", "TagKeys", "Tag keys to remove")),
	}
}

// sourceFields covers the SQS, Kinesis and DynamoDB stream sources. Starting
// positions can only be chosen at creation.
func sourceFields(create bool) []projection.Field {
	const (
		sqs     = "SourceParameters.SqsQueueParameters."
		kinesis = "SourceParameters.KinesisStreamParameters."
		ddb     = "SourceParameters.DynamoDBStreamParameters."
	)

	partial := enumValues(types.OnPartialBatchItemFailureStreams("").Values())

	fields := []projection.Field{
		{
			Name: "SourceFilterPatterns", Flag: "source-filter-pattern",
			Path: "SourceParameters.FilterCriteria.Filters", Kind: projection.KindStringArray,
			ElementKey: "Pattern", Usage: "Event filter pattern (repeatable)",
		},
		num("SourceSqsBatchSize", "source-sqs-batch-size", sqs+"BatchSize", "SQS batch size"),
		num("SourceSqsMaxBatchingWindow", "source-sqs-max-batching-window",
			sqs+"MaximumBatchingWindowInSeconds", "SQS batching window in seconds"),

		num("SourceKinesisBatchSize", "source-kinesis-batch-size", kinesis+"BatchSize", "Kinesis batch size"),
		num("SourceKinesisMaxBatchingWindow", "source-kinesis-max-batching-window",
			kinesis+"MaximumBatchingWindowInSeconds", "Kinesis batching window in seconds"),
		num("SourceKinesisMaxRecordAge", "source-kinesis-max-record-age",
			kinesis+"MaximumRecordAgeInSeconds", "Discard Kinesis records older than this many seconds"),
		num("SourceKinesisMaxRetries", "source-kinesis-max-retries",
			kinesis+"MaximumRetryAttempts", "Kinesis retry attempts"),
		num("SourceKinesisParallelization", "source-kinesis-parallelization",
			kinesis+"ParallelizationFactor", "Concurrent batches per Kinesis shard"),
		str("SourceKinesisDeadLetterArn", "source-kinesis-dead-letter-arn",
			kinesis+"DeadLetterConfig.Arn", "Dead-letter queue for failed Kinesis batches"),
		enum("SourceKinesisOnPartialFailure", "source-kinesis-on-partial-failure",
			kinesis+"OnPartialBatchItemFailure", "Kinesis partial batch failure handling", partial),

		num("SourceDynamoDBBatchSize", "source-dynamodb-batch-size", ddb+"BatchSize", "DynamoDB stream batch size"),
		num("SourceDynamoDBMaxBatchingWindow", "source-dynamodb-max-batching-window",
			ddb+"MaximumBatchingWindowInSeconds", "DynamoDB stream batching window in seconds"),
		num("SourceDynamoDBMaxRecordAge", "source-dynamodb-max-record-age",
			ddb+"MaximumRecordAgeInSeconds", "Discard DynamoDB stream records older than this many seconds"),
		num("SourceDynamoDBMaxRetries", "source-dynamodb-max-retries",
			ddb+"MaximumRetryAttempts", "DynamoDB stream retry attempts"),
		num("SourceDynamoDBParallelization", "source-dynamodb-parallelization",
			ddb+"ParallelizationFactor", "Concurrent batches per DynamoDB stream shard"),
		str("SourceDynamoDBDeadLetterArn", "source-dynamodb-dead-letter-arn",
			ddb+"DeadLetterConfig.Arn", "Dead-letter queue for failed DynamoDB stream batches"),
		enum("SourceDynamoDBOnPartialFailure", "source-dynamodb-on-partial-failure",
			ddb+"OnPartialBatchItemFailure", "DynamoDB stream partial batch failure handling", partial),
	}

	if create {
		fields = append(fields,
			enum("SourceKinesisStartingPosition", "source-kinesis-starting-position",
				kinesis+"StartingPosition", "Where to start reading the Kinesis stream",
				enumValues(types.KinesisStreamStartPosition("").Values())),
			enum("SourceDynamoDBStartingPosition", "source-dynamodb-starting-position",
				ddb+"StartingPosition", "Where to start reading the DynamoDB stream",
				enumValues(types.DynamoDBStreamStartPosition("").Values())),
		)
	}
	return fields
}

func enrichmentFields() []projection.Field {
	const http = "EnrichmentParameters.HttpParameters."
	return []projection.Field{
		str("Enrichment", "enrichment", "Enrichment", "ARN of the enrichment resource"),
		str("EnrichmentInputTemplate", "enrichment-input-template",
			"EnrichmentParameters.InputTemplate", "Input template sent to the enrichment"),
		dict("EnrichmentHttpHeaders", "enrichment-http-headers", http+"HeaderParameters",
			"Headers sent to an API destination enrichment"),
		list("EnrichmentHttpPathValues", "enrichment-http-path-values", http+"PathParameterValues",
			"Path parameter values for an API destination enrichment"),
		dict("EnrichmentHttpQuery", "enrichment-http-query", http+"QueryStringParameters",
			"Query string parameters for an API destination enrichment"),
	}
}

func targetFields() []projection.Field {
	const target = "TargetParameters."
	invocation := enumValues(types.PipeTargetInvocationType("").Values())

	return []projection.Field{
		str("TargetInputTemplate", "target-input-template", target+"InputTemplate",
			"Input template sent to the target"),
		str("TargetSqsMessageGroupId", "target-sqs-message-group-id",
			target+"SqsQueueParameters.MessageGroupId", "FIFO message group ID"),
		str("TargetSqsDeduplicationId", "target-sqs-deduplication-id",
			target+"SqsQueueParameters.MessageDeduplicationId", "FIFO message deduplication ID"),
		enum("TargetLambdaInvocationType", "target-lambda-invocation-type",
			target+"LambdaFunctionParameters.InvocationType", "Lambda invocation type", invocation),
		enum("TargetStepFunctionInvocationType", "target-sfn-invocation-type",
			target+"StepFunctionStateMachineParameters.InvocationType", "Step Functions invocation type", invocation),
		str("TargetKinesisPartitionKey", "target-kinesis-partition-key",
			target+"KinesisStreamParameters.PartitionKey", "Kinesis partition key"),
		str("TargetEventBusDetailType", "target-event-bus-detail-type",
			target+"EventBridgeEventBusParameters.DetailType", "Detail type of events sent to the bus"),
		str("TargetEventBusSource", "target-event-bus-source",
			target+"EventBridgeEventBusParameters.Source", "Source of events sent to the bus"),
		str("TargetEventBusEndpointId", "target-event-bus-endpoint-id",
			target+"EventBridgeEventBusParameters.EndpointId", "Global endpoint ID"),
		list("TargetEventBusResources", "target-event-bus-resources",
			target+"EventBridgeEventBusParameters.Resources", "Resource ARNs attached to events"),
		str("TargetLogStreamName", "target-log-stream-name",
			target+"CloudWatchLogsParameters.LogStreamName", "CloudWatch Logs stream name"),
		dict("TargetHttpHeaders", "target-http-headers", target+"HttpParameters.HeaderParameters",
			"Headers sent to an API destination target"),
		list("TargetHttpPathValues", "target-http-path-values", target+"HttpParameters.PathParameterValues",
			"Path parameter values for an API destination target"),
		dict("TargetHttpQuery", "target-http-query", target+"HttpParameters.QueryStringParameters",
			"Query string parameters for an API destination target"),
	}
}

func logFields() []projection.Field {
	const logs = "LogConfiguration."
	return []projection.Field{
		enum("LogLevel", "log-level", logs+"Level", "Pipe execution log level",
			enumValues(types.LogLevel("").Values())),
		list("LogIncludeExecutionData", "log-include-execution-data", logs+"IncludeExecutionData",
			"Execution data to include in pipe logs"),
		str("LogGroupArn", "log-group-arn", logs+"CloudwatchLogsLogDestination.LogGroupArn",
			"CloudWatch Logs group for pipe logs"),
		str("LogFirehoseStreamArn", "log-firehose-stream-arn", logs+"FirehoseLogDestination.DeliveryStreamArn",
			"Firehose delivery stream for pipe logs"),
		str("LogS3Bucket", "log-s3-bucket", logs+"S3LogDestination.BucketName", "S3 bucket for pipe logs"),
		str("LogS3BucketOwner", "log-s3-bucket-owner", logs+"S3LogDestination.BucketOwner",
			"Account that owns the log bucket"),
		str("LogS3Prefix", "log-s3-prefix", logs+"S3LogDestination.Prefix", "Key prefix for pipe logs"),
		enum("LogS3OutputFormat", "log-s3-output-format", logs+"S3LogDestination.OutputFormat",
			"Format of pipe logs written to S3", enumValues(types.S3OutputFormat("").Values())),
	}
}
