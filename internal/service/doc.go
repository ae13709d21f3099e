// Package service contains the application operations built on top of a
// store.UnitOfWork.
//
// Every operation runs in its own scope obtained from a UnitOfWorkFactory and
// commits only when it succeeds. Operations are create-or-fetch: asking for a
// user, a question or an answer that already exists returns the stored record
// instead of failing, so callers can replay the same input safely.
//
// The service depends on the domain entities and the store interfaces only.
// Which backend holds the data is decided by whoever builds the factory.
package service
