package codec

import (
	"fmt"
	"maps"
	"slices"

	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/ipld/go-ipld-prime/fluent/qp"
	"github.com/ipld/go-ipld-prime/node/basicnode"
)

const (
	// RootSchemaField is the name of the root field holding the schema SDL.
	RootSchemaField = "schema"
	// RootCollectionsField is the name of the root field mapping collection names to links.
	RootCollectionsField = "collections"
	// CollectionNextField is the name of the collection field holding the sequence counter.
	CollectionNextField = "next"
	// CollectionRecordsField is the name of the collection field listing record links.
	CollectionRecordsField = "records"
)

// Root is the decoded root node of a snapshot.
type Root struct {
	Schema      string
	Collections map[string]datamodel.Link
}

// Collection is the decoded node of a single collection in a snapshot.
type Collection struct {
	Next    int64
	Records []datamodel.Link
}

// EncodeRoot returns the root node of a snapshot.
func EncodeRoot(root Root) (datamodel.Node, error) {
	names := slices.Sorted(maps.Keys(root.Collections))
	return qp.BuildMap(basicnode.Prototype.Map, 2, func(ma datamodel.MapAssembler) {
		qp.MapEntry(ma, RootSchemaField, qp.String(root.Schema))
		qp.MapEntry(ma, RootCollectionsField, qp.Map(int64(len(names)), func(ma datamodel.MapAssembler) {
			for _, name := range names {
				qp.MapEntry(ma, name, qp.Link(root.Collections[name]))
			}
		}))
	})
}

// DecodeRoot returns the root held by a node created with EncodeRoot.
func DecodeRoot(n datamodel.Node) (Root, error) {
	schemaNode, err := n.LookupByString(RootSchemaField)
	if err != nil {
		return Root{}, fmt.Errorf("snapshot root: %w", err)
	}
	schema, err := schemaNode.AsString()
	if err != nil {
		return Root{}, fmt.Errorf("snapshot root: %w", err)
	}
	collectionsNode, err := n.LookupByString(RootCollectionsField)
	if err != nil {
		return Root{}, fmt.Errorf("snapshot root: %w", err)
	}
	root := Root{
		Schema:      schema,
		Collections: make(map[string]datamodel.Link, collectionsNode.Length()),
	}
	for iter := collectionsNode.MapIterator(); !iter.Done(); {
		k, v, err := iter.Next()
		if err != nil {
			return Root{}, err
		}
		name, err := k.AsString()
		if err != nil {
			return Root{}, err
		}
		lnk, err := v.AsLink()
		if err != nil {
			return Root{}, fmt.Errorf("collection %s: %w", name, err)
		}
		root.Collections[name] = lnk
	}
	return root, nil
}

// EncodeCollection returns the node of a single collection.
func EncodeCollection(c Collection) (datamodel.Node, error) {
	return qp.BuildMap(basicnode.Prototype.Map, 2, func(ma datamodel.MapAssembler) {
		qp.MapEntry(ma, CollectionNextField, qp.Int(c.Next))
		qp.MapEntry(ma, CollectionRecordsField, qp.List(int64(len(c.Records)), func(la datamodel.ListAssembler) {
			for _, lnk := range c.Records {
				qp.ListEntry(la, qp.Link(lnk))
			}
		}))
	})
}

// DecodeCollection returns the collection held by a node created with EncodeCollection.
func DecodeCollection(n datamodel.Node) (Collection, error) {
	nextNode, err := n.LookupByString(CollectionNextField)
	if err != nil {
		return Collection{}, err
	}
	next, err := nextNode.AsInt()
	if err != nil {
		return Collection{}, err
	}
	recordsNode, err := n.LookupByString(CollectionRecordsField)
	if err != nil {
		return Collection{}, err
	}
	c := Collection{Next: next, Records: make([]datamodel.Link, 0, recordsNode.Length())}
	for iter := recordsNode.ListIterator(); !iter.Done(); {
		_, v, err := iter.Next()
		if err != nil {
			return Collection{}, err
		}
		lnk, err := v.AsLink()
		if err != nil {
			return Collection{}, err
		}
		c.Records = append(c.Records, lnk)
	}
	return c, nil
}
