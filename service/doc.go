// Package service manages named networks for long-lived processes.
//
// A Service keeps networks by id, applies descriptions sent by clients,
// saves and loads them as JSON files, runs them through the engine and
// archives one combined report per run. It also exposes the domain
// catalogue so clients can discover agent and task types with their
// parameters.
//
// Networks themselves are single-owner values; the Service serializes every
// operation on one network with a per-network mutex, so independent
// networks can be edited and run concurrently.
package service
