// Package awsutil provides shared AWS utility functions.
package awsutil

import "strings"

const (
	// arnPrefix starts every ARN.
	arnPrefix = "arn:"
	// arnMinSegments is the minimum number of colon-separated segments in a valid ARN.
	arnMinSegments = 6
	// arnServiceIndex is the zero-based index of the service segment in an ARN.
	arnServiceIndex = 2
	// arnRegionIndex is the zero-based index of the region segment in an ARN.
	arnRegionIndex = 3
	// arnResourceIndex is the zero-based index of the first resource segment in an ARN.
	arnResourceIndex = 5
)

// IsARN reports whether s looks like an ARN.
func IsARN(s string) bool {
	return strings.HasPrefix(s, arnPrefix) && len(strings.Split(s, ":")) >= arnMinSegments
}

// RegionFromARN extracts the AWS region from an ARN string.
// Returns empty string if the ARN is malformed or the region segment is empty.
func RegionFromARN(arn string) string {
	// ARN format: arn:partition:service:region:account:resource
	parts := strings.Split(arn, ":")
	if len(parts) < arnMinSegments {
		return ""
	}
	return parts[arnRegionIndex]
}

// ServiceFromARN extracts the service namespace, e.g. "pipes".
func ServiceFromARN(arn string) string {
	parts := strings.Split(arn, ":")
	if len(parts) < arnMinSegments {
		return ""
	}
	return parts[arnServiceIndex]
}

// ResourceFromARN returns everything after the account segment, which may
// itself contain colons.
func ResourceFromARN(arn string) string {
	parts := strings.SplitN(arn, ":", arnResourceIndex+1)
	if len(parts) < arnMinSegments {
		return ""
	}
	return parts[arnResourceIndex]
}

// NameFromARN returns the resource name of an ARN whose resource has the form
// "<resourceType>/<name>". Returns empty string for any other shape.
func NameFromARN(arn, resourceType string) string {
	resource := ResourceFromARN(arn)
	name, ok := strings.CutPrefix(resource, resourceType+"/")
	if !ok {
		return ""
	}
	return name
}
