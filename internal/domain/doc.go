// Package domain contains the core entities of the answers core: users,
// questions with typed answer shapes and the answers recorded against them.
// It holds the validation rules for those entities and is independent of any
// storage technology.
package domain
