package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// BlockContent is the content of a context block. It's either a plain
// string or an ordered list of strings, depending on the block's type.
// On the wire and in the database it's a JSON string or JSON array.
type BlockContent struct {
	IsList bool
	Text   string
	Items  []string
}

func NewStringContent(text string) BlockContent {
	return BlockContent{Text: text}
}

func NewListContent(items []string) BlockContent {
	return BlockContent{IsList: true, Items: items}
}

// String renders the content the way it appears in an assembled prompt.
// List items are newline-joined.
func (c BlockContent) String() string {
	if c.IsList {
		return strings.Join(c.Items, "\n")
	}
	return c.Text
}

func (c BlockContent) IsEmpty() bool {
	if c.IsList {
		return len(c.Items) == 0
	}
	return c.Text == ""
}

func (c BlockContent) MarshalJSON() ([]byte, error) {
	if c.IsList {
		items := c.Items
		if items == nil {
			items = []string{}
		}
		return json.Marshal(items)
	}
	return json.Marshal(c.Text)
}

func (c *BlockContent) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*c = BlockContent{Text: text}
		return nil
	}

	var items []string
	if err := json.Unmarshal(data, &items); err == nil {
		*c = BlockContent{IsList: true, Items: items}
		return nil
	}

	return fmt.Errorf("block content must be a string or an array of strings")
}

func (c BlockContent) Value() (driver.Value, error) {
	bytes, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("error marshalling block content: %v", err)
	}
	return bytes, nil
}

func (c *BlockContent) Scan(src interface{}) error {
	if src == nil {
		*c = BlockContent{}
		return nil
	}

	var bytes []byte
	switch s := src.(type) {
	case []byte:
		bytes = s
	case string:
		bytes = []byte(s)
	default:
		return fmt.Errorf("unsupported block content source type: %T", src)
	}

	return c.UnmarshalJSON(bytes)
}

// NullBlockContent is a nullable BlockContent for the pending_content
// column, following the database/sql Null* convention.
type NullBlockContent struct {
	Content BlockContent
	Valid   bool
}

func (n NullBlockContent) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Content.Value()
}

func (n *NullBlockContent) Scan(src interface{}) error {
	if src == nil {
		*n = NullBlockContent{}
		return nil
	}
	if err := n.Content.Scan(src); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

func (u ContextUpdates) Value() (driver.Value, error) {
	if len(u) == 0 {
		return nil, nil
	}
	bytes, err := json.Marshal(u)
	if err != nil {
		return nil, fmt.Errorf("error marshalling context updates: %v", err)
	}
	return bytes, nil
}

func (u *ContextUpdates) Scan(src interface{}) error {
	if src == nil {
		*u = nil
		return nil
	}

	var bytes []byte
	switch s := src.(type) {
	case []byte:
		bytes = s
	case string:
		bytes = []byte(s)
	default:
		return fmt.Errorf("unsupported context updates source type: %T", src)
	}

	return json.Unmarshal(bytes, u)
}
