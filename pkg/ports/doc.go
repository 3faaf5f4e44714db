/*
Package ports defines the persistence interface of the handrail state
container, following a hexagonal layout: the container depends only on
these interfaces, and backends live under pkg/adapters.

The package also ships RunStateStoreContract, a reusable test suite that
every StateStore implementation must pass.
*/
package ports
