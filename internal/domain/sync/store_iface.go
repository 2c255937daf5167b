package sync

import (
	"context"

	"hrsync/internal/localstore"
)

// CollectionStore is the local fallback boundary: whole-collection reads and
// replacements, namespaced by user. Satisfied by *localstore.Store.
type CollectionStore interface {
	Read(ctx context.Context, userID string, kind localstore.Kind, dest any) error
	Write(ctx context.Context, userID string, kind localstore.Kind, value any) error
	Seed(ctx context.Context, userID string) (bool, error)
}

// RemoteGateway is the remote row-CRUD boundary for the employees table,
// always scoped to an owner. The origin argument carries the mutating
// session's token so the change stream can mark echoes.
//
// Update and Delete report whether a row matched; a false result with a nil
// error means the row does not exist remotely and the caller should fall
// back to the local store.
type RemoteGateway interface {
	ListEmployees(ctx context.Context, ownerID string) ([]Employee, error)
	InsertEmployee(ctx context.Context, origin string, emp Employee) error
	UpdateEmployee(ctx context.Context, origin string, emp Employee) (bool, error)
	DeleteEmployee(ctx context.Context, origin, ownerID, id string) (bool, error)
}
