package capsule

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/sjson"
)

// ItemOp is the change a list element asks the CRM to make.
type ItemOp int

const (
	OpAdd ItemOp = iota
	OpUpdate
	OpRemove
)

func (op ItemOp) String() string {
	switch op {
	case OpAdd:
		return "add"
	case OpUpdate:
		return "update"
	case OpRemove:
		return "remove"
	default:
		return fmt.Sprintf("ItemOp(%d)", int(op))
	}
}

var ErrDeleteWithoutID = errors.New("_delete requires an id")

// Item is an element of a repeated sub-collection (tags, fields, emails...).
// The operation is decided once when the element is decoded: no id means add,
// an id means update (or reference) an existing element, an id with
// "_delete": true means remove it.
//
// A decoded element keeps the caller's JSON in Raw and is sent back unchanged,
// including keys T does not declare. Value is the typed view of the same data.
type Item[T any] struct {
	Op    ItemOp
	ID    int64
	Value T
	Raw   json.RawMessage
}

// AddItem returns an element that creates a new entry.
func AddItem[T any](v T) Item[T] { return Item[T]{Op: OpAdd, Value: v} }

// UpdateItem returns an element that updates or references entry id.
func UpdateItem[T any](id int64, v T) Item[T] { return Item[T]{Op: OpUpdate, ID: id, Value: v} }

// RemoveItem returns an element that deletes entry id.
func RemoveItem[T any](id int64) Item[T] { return Item[T]{Op: OpRemove, ID: id} }

func (it *Item[T]) UnmarshalJSON(data []byte) error {
	var marker struct {
		ID     *int64 `json:"id"`
		Delete bool   `json:"_delete"`
	}
	if err := json.Unmarshal(data, &marker); err != nil {
		return err
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	switch {
	case marker.Delete && marker.ID == nil:
		return ErrDeleteWithoutID
	case marker.Delete:
		*it = RemoveItem[T](*marker.ID)
	case marker.ID != nil:
		*it = UpdateItem(*marker.ID, v)
	default:
		*it = AddItem(v)
	}
	it.Raw = append(json.RawMessage(nil), data...)
	return nil
}

func (it Item[T]) MarshalJSON() ([]byte, error) {
	if it.Op == OpRemove {
		data, err := sjson.SetBytes([]byte(`{}`), "id", it.ID)
		if err != nil {
			return nil, err
		}
		return sjson.SetBytes(data, "_delete", true)
	}
	if len(it.Raw) > 0 {
		return it.Raw, nil
	}
	data, err := json.Marshal(it.Value)
	if err != nil {
		return nil, err
	}
	if it.Op == OpUpdate {
		return sjson.SetBytes(data, "id", it.ID)
	}
	return data, nil
}
