// Package testinfra starts throwaway Postgres and Redis containers for the
// integration tests. Everything here is behind the integration build tag:
//
//	go test -tags integration ./...
package testinfra
