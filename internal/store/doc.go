// Package store defines the persistence contracts of the answers core: one
// repository per entity and the UnitOfWork that binds them to a single
// transaction. Backends live under internal/platform and are interchangeable
// behind these interfaces.
package store
