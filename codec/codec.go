// Package codec converts records and snapshot roots to and from IPLD nodes.
package codec

import (
	"fmt"

	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/ipld/go-ipld-prime/node/basicnode"
	"github.com/nasdf/capyql/object"
	"github.com/nasdf/capyql/value"
)

// EncodeValue assigns the value to the node assembler.
func EncodeValue(na datamodel.NodeAssembler, v value.Value) error {
	switch v.Kind() {
	case value.KindNull:
		return na.AssignNull()
	case value.KindBool:
		b, _ := v.AsBool()
		return na.AssignBool(b)
	case value.KindInt:
		i, _ := v.AsInt()
		return na.AssignInt(i)
	case value.KindFloat:
		f, _ := v.AsFloat()
		return na.AssignFloat(f)
	case value.KindString:
		s, _ := v.AsString()
		return na.AssignString(s)
	default:
		return fmt.Errorf("cannot encode %s value", v.Kind())
	}
}

// DecodeValue returns the value held by a scalar node.
func DecodeValue(n datamodel.Node) (value.Value, error) {
	switch n.Kind() {
	case datamodel.Kind_Null:
		return value.Null, nil
	case datamodel.Kind_Bool:
		b, err := n.AsBool()
		return value.Bool(b), err
	case datamodel.Kind_Int:
		i, err := n.AsInt()
		return value.Int(i), err
	case datamodel.Kind_Float:
		f, err := n.AsFloat()
		return value.Float(f), err
	case datamodel.Kind_String:
		s, err := n.AsString()
		return value.String(s), err
	default:
		return value.Absent, fmt.Errorf("cannot decode value from %s node", n.Kind())
	}
}

// EncodeRecord returns a map node containing the identifier and every present field of the record.
func EncodeRecord(rec object.Record) (datamodel.Node, error) {
	names := rec.Names()
	nb := basicnode.Prototype.Map.NewBuilder()
	ma, err := nb.BeginMap(int64(len(names) + 1))
	if err != nil {
		return nil, err
	}
	for _, name := range append([]string{value.IDField}, names...) {
		na, err := ma.AssembleEntry(name)
		if err != nil {
			return nil, err
		}
		if err := EncodeValue(na, rec.Get(name)); err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
	}
	if err := ma.Finish(); err != nil {
		return nil, err
	}
	return nb.Build(), nil
}

// DecodeRecord returns the record held by a map node created with EncodeRecord.
func DecodeRecord(n datamodel.Node) (object.Record, error) {
	if n.Kind() != datamodel.Kind_Map {
		return object.Record{}, fmt.Errorf("cannot decode record from %s node", n.Kind())
	}
	id := value.Absent
	fields := make(map[string]value.Value, n.Length())
	for iter := n.MapIterator(); !iter.Done(); {
		k, v, err := iter.Next()
		if err != nil {
			return object.Record{}, err
		}
		name, err := k.AsString()
		if err != nil {
			return object.Record{}, err
		}
		val, err := DecodeValue(v)
		if err != nil {
			return object.Record{}, fmt.Errorf("field %s: %w", name, err)
		}
		if name == value.IDField {
			id = val
		} else {
			fields[name] = val
		}
	}
	if id.IsAbsent() || id.IsNull() {
		return object.Record{}, fmt.Errorf("record has no %s", value.IDField)
	}
	return object.New(id, fields), nil
}
