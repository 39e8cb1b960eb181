// Package artifact archives run reports.
//
// A Store keeps opaque documents keyed by network id and run id. The service
// layer writes one JSON report per run; InMemoryStore serves tests and single
// process deployments, FileStore keeps a flat directory of JSON files that
// survives restarts.
package artifact
