package syncer

import (
	"context"

	"refsheet/internal/zotero"
)

// Library is the item-level surface the engine needs from the library API.
// *zotero.Client satisfies it; tests supply a fake.
//
// Every write is version-gated: UpdateItem sends the version the caller last
// saw, and the library rejects the write when the item moved on. The engine
// surfaces that rejection per row rather than retrying.
type Library interface {
	// ItemsByTag lists every item carrying the tag. excludeNotes drops
	// standalone note items from the result.
	ItemsByTag(ctx context.Context, tag string, excludeNotes bool) ([]zotero.Item, error)

	// Item fetches one item by key, current version included.
	Item(ctx context.Context, key string) (zotero.Item, error)

	// UpdateItem writes data conditional on version. A concurrent remote
	// edit yields a *zotero.RemoteConflictError.
	UpdateItem(ctx context.Context, key string, version int64, data zotero.ItemData) error
}
