package capyql

import (
	"context"
	"fmt"
	"io"

	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/nasdf/capyql/codec"
	"github.com/nasdf/capyql/link"
	"github.com/nasdf/capyql/object"
	"github.com/nasdf/capyql/schema"
	"github.com/nasdf/capyql/storage"
)

// Export writes a CAR snapshot of every collection to the given writer.
//
// The snapshot contains the schema, the records and the sequence counters of
// every collection. Each collection is read from a single consistent snapshot.
func (db *DB) Export(ctx context.Context, out io.Writer) error {
	links := link.NewStore(storage.NewMemory())
	root := codec.Root{
		Schema:      db.schemas.String(),
		Collections: make(map[string]datamodel.Link, len(db.collections)),
	}
	for _, c := range db.Collections() {
		lnk, err := exportCollection(ctx, links, c)
		if err != nil {
			return fmt.Errorf("export %s: %w", c.Name(), err)
		}
		root.Collections[c.Name()] = lnk
	}
	rootNode, err := codec.EncodeRoot(root)
	if err != nil {
		return err
	}
	rootLink, err := links.Store(ctx, rootNode)
	if err != nil {
		return err
	}
	db.logger.Debug("exporting snapshot", "root", rootLink.String())
	return links.Export(ctx, rootLink, out)
}

func exportCollection(ctx context.Context, links *link.Store, c *Collection) (datamodel.Link, error) {
	col := codec.Collection{Next: c.store.Sequence()}
	for it := c.store.Scan(); !it.Done(); {
		node, err := codec.EncodeRecord(it.Next())
		if err != nil {
			return nil, err
		}
		lnk, err := links.Store(ctx, node)
		if err != nil {
			return nil, err
		}
		col.Records = append(col.Records, lnk)
	}
	node, err := codec.EncodeCollection(col)
	if err != nil {
		return nil, err
	}
	return links.Store(ctx, node)
}

// Import reads a CAR snapshot written by Export and returns a new DB holding its records.
//
// Identifiers and sequence counters are preserved.
func Import(ctx context.Context, in io.Reader, opts ...Option) (*DB, error) {
	links := link.NewStore(storage.NewMemory())
	rootLink, err := links.Import(ctx, in)
	if err != nil {
		return nil, err
	}
	rootNode, err := links.Load(ctx, rootLink)
	if err != nil {
		return nil, err
	}
	root, err := codec.DecodeRoot(rootNode)
	if err != nil {
		return nil, err
	}
	set, err := schema.Parse(root.Schema)
	if err != nil {
		return nil, err
	}
	db := New(set, opts...)
	for name, lnk := range root.Collections {
		c, ok := db.collections[name]
		if !ok {
			db.logger.Warn("skipping snapshot collection without schema", "collection", name)
			continue
		}
		if err := importCollection(ctx, links, c, lnk); err != nil {
			return nil, fmt.Errorf("import %s: %w", name, err)
		}
	}
	return db, nil
}

func importCollection(ctx context.Context, links *link.Store, c *Collection, lnk datamodel.Link) error {
	node, err := links.Load(ctx, lnk)
	if err != nil {
		return err
	}
	col, err := codec.DecodeCollection(node)
	if err != nil {
		return err
	}
	records := make([]object.Record, 0, len(col.Records))
	for _, recLink := range col.Records {
		recNode, err := links.Load(ctx, recLink)
		if err != nil {
			return err
		}
		rec, err := codec.DecodeRecord(recNode)
		if err != nil {
			return err
		}
		records = append(records, rec)
	}
	return c.store.Restore(records, col.Next)
}
