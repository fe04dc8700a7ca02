// Package invocation records what one pipesctl command did and keeps a short
// file-based history of those records.
//
// A Context is created per invocation and threaded explicitly through the
// command runner: it holds the bound parameters, the last response, the page
// count and the remaining next-token. When the command ends its Snapshot is
// written to the Store under $PIPESCTL_HOME/history/ (or the project-local
// .pipesctl/history/), where entries expire after a TTL. The most recent
// listing's next-token is what `pipe list --resume` continues from.
package invocation
