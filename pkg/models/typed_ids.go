package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	surrealdb_models "github.com/surrealdb/surrealdb.go/pkg/models"
)

// UserID is a typed ID for users
type UserID struct {
	uuid uuid.UUID
}

func NewUserID() UserID {
	return UserID{uuid: uuid.New()}
}

func NewUserIDFromUUID(id uuid.UUID) UserID {
	return UserID{uuid: id}
}

func ParseUserID(s string) (UserID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UserID{}, fmt.Errorf("invalid user ID: %w", err)
	}
	return UserID{uuid: id}, nil
}

func (u UserID) UUID() uuid.UUID { return u.uuid }
func (u UserID) String() string  { return u.uuid.String() }
func (u UserID) IsZero() bool    { return u.uuid == uuid.Nil }

func (u UserID) RecordID() surrealdb_models.RecordID {
	return surrealdb_models.RecordID{
		Table: "users",
		ID:    u.uuid.String(),
	}
}

func (u UserID) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.uuid.String())
}

func (u *UserID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	u.uuid = id
	return nil
}

func (u UserID) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(cbor.Tag{
		Number:  8,
		Content: []any{"users", u.uuid.String()},
	})
}

func (u *UserID) UnmarshalCBOR(data []byte) error {
	return unmarshalCBORID(data, "users", &u.uuid)
}

func (u UserID) Value() (driver.Value, error) {
	if u.IsZero() {
		return nil, nil
	}
	return u.uuid.String(), nil
}

func (u *UserID) Scan(value any) error {
	return scanUUID(value, &u.uuid)
}

func (UserID) GormDataType() string { return "uuid" }

// DocumentID is a typed ID for documents
type DocumentID struct {
	uuid uuid.UUID
}

func NewDocumentID() DocumentID {
	return DocumentID{uuid: uuid.New()}
}

func NewDocumentIDFromUUID(id uuid.UUID) DocumentID {
	return DocumentID{uuid: id}
}

func ParseDocumentID(s string) (DocumentID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return DocumentID{}, fmt.Errorf("invalid document ID: %w", err)
	}
	return DocumentID{uuid: id}, nil
}

func (d DocumentID) UUID() uuid.UUID { return d.uuid }
func (d DocumentID) String() string  { return d.uuid.String() }
func (d DocumentID) IsZero() bool    { return d.uuid == uuid.Nil }

func (d DocumentID) RecordID() surrealdb_models.RecordID {
	return surrealdb_models.RecordID{
		Table: "documents",
		ID:    d.uuid.String(),
	}
}

func (d DocumentID) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.uuid.String())
}

func (d *DocumentID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	d.uuid = id
	return nil
}

func (d DocumentID) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(cbor.Tag{
		Number:  8,
		Content: []any{"documents", d.uuid.String()},
	})
}

func (d *DocumentID) UnmarshalCBOR(data []byte) error {
	return unmarshalCBORID(data, "documents", &d.uuid)
}

func (d DocumentID) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.uuid.String(), nil
}

func (d *DocumentID) Scan(value any) error {
	return scanUUID(value, &d.uuid)
}

func (DocumentID) GormDataType() string { return "uuid" }

// CollectionID is a typed ID for collections
type CollectionID struct {
	uuid uuid.UUID
}

func NewCollectionID() CollectionID {
	return CollectionID{uuid: uuid.New()}
}

func NewCollectionIDFromUUID(id uuid.UUID) CollectionID {
	return CollectionID{uuid: id}
}

func ParseCollectionID(s string) (CollectionID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return CollectionID{}, fmt.Errorf("invalid collection ID: %w", err)
	}
	return CollectionID{uuid: id}, nil
}

func (c CollectionID) UUID() uuid.UUID { return c.uuid }
func (c CollectionID) String() string  { return c.uuid.String() }
func (c CollectionID) IsZero() bool    { return c.uuid == uuid.Nil }

func (c CollectionID) RecordID() surrealdb_models.RecordID {
	return surrealdb_models.RecordID{
		Table: "collections",
		ID:    c.uuid.String(),
	}
}

func (c CollectionID) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.uuid.String())
}

func (c *CollectionID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	c.uuid = id
	return nil
}

func (c CollectionID) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(cbor.Tag{
		Number:  8,
		Content: []any{"collections", c.uuid.String()},
	})
}

func (c *CollectionID) UnmarshalCBOR(data []byte) error {
	return unmarshalCBORID(data, "collections", &c.uuid)
}

func (c CollectionID) Value() (driver.Value, error) {
	if c.IsZero() {
		return nil, nil
	}
	return c.uuid.String(), nil
}

func (c *CollectionID) Scan(value any) error {
	return scanUUID(value, &c.uuid)
}

func (CollectionID) GormDataType() string { return "uuid" }

// ConnectionID is a typed ID for CMS connections
type ConnectionID struct {
	uuid uuid.UUID
}

func NewConnectionID() ConnectionID {
	return ConnectionID{uuid: uuid.New()}
}

func NewConnectionIDFromUUID(id uuid.UUID) ConnectionID {
	return ConnectionID{uuid: id}
}

func ParseConnectionID(s string) (ConnectionID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ConnectionID{}, fmt.Errorf("invalid connection ID: %w", err)
	}
	return ConnectionID{uuid: id}, nil
}

func (c ConnectionID) UUID() uuid.UUID { return c.uuid }
func (c ConnectionID) String() string  { return c.uuid.String() }
func (c ConnectionID) IsZero() bool    { return c.uuid == uuid.Nil }

func (c ConnectionID) RecordID() surrealdb_models.RecordID {
	return surrealdb_models.RecordID{
		Table: "connections",
		ID:    c.uuid.String(),
	}
}

func (c ConnectionID) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.uuid.String())
}

func (c *ConnectionID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	c.uuid = id
	return nil
}

func (c ConnectionID) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(cbor.Tag{
		Number:  8,
		Content: []any{"connections", c.uuid.String()},
	})
}

func (c *ConnectionID) UnmarshalCBOR(data []byte) error {
	return unmarshalCBORID(data, "connections", &c.uuid)
}

func (c ConnectionID) Value() (driver.Value, error) {
	if c.IsZero() {
		return nil, nil
	}
	return c.uuid.String(), nil
}

func (c *ConnectionID) Scan(value any) error {
	return scanUUID(value, &c.uuid)
}

func (ConnectionID) GormDataType() string { return "uuid" }

// ReadingItemID is a typed ID for reading-list items
type ReadingItemID struct {
	uuid uuid.UUID
}

func NewReadingItemID() ReadingItemID {
	return ReadingItemID{uuid: uuid.New()}
}

func NewReadingItemIDFromUUID(id uuid.UUID) ReadingItemID {
	return ReadingItemID{uuid: id}
}

func ParseReadingItemID(s string) (ReadingItemID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ReadingItemID{}, fmt.Errorf("invalid reading item ID: %w", err)
	}
	return ReadingItemID{uuid: id}, nil
}

func (r ReadingItemID) UUID() uuid.UUID { return r.uuid }
func (r ReadingItemID) String() string  { return r.uuid.String() }
func (r ReadingItemID) IsZero() bool    { return r.uuid == uuid.Nil }

func (r ReadingItemID) RecordID() surrealdb_models.RecordID {
	return surrealdb_models.RecordID{
		Table: "reading_items",
		ID:    r.uuid.String(),
	}
}

func (r ReadingItemID) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.uuid.String())
}

func (r *ReadingItemID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	r.uuid = id
	return nil
}

func (r ReadingItemID) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(cbor.Tag{
		Number:  8,
		Content: []any{"reading_items", r.uuid.String()},
	})
}

func (r *ReadingItemID) UnmarshalCBOR(data []byte) error {
	return unmarshalCBORID(data, "reading_items", &r.uuid)
}

func (r ReadingItemID) Value() (driver.Value, error) {
	if r.IsZero() {
		return nil, nil
	}
	return r.uuid.String(), nil
}

func (r *ReadingItemID) Scan(value any) error {
	return scanUUID(value, &r.uuid)
}

func (ReadingItemID) GormDataType() string { return "uuid" }

// PromptID is a typed ID for saved prompts
type PromptID struct {
	uuid uuid.UUID
}

func NewPromptID() PromptID {
	return PromptID{uuid: uuid.New()}
}

func NewPromptIDFromUUID(id uuid.UUID) PromptID {
	return PromptID{uuid: id}
}

func ParsePromptID(s string) (PromptID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return PromptID{}, fmt.Errorf("invalid prompt ID: %w", err)
	}
	return PromptID{uuid: id}, nil
}

func (p PromptID) UUID() uuid.UUID { return p.uuid }
func (p PromptID) String() string  { return p.uuid.String() }
func (p PromptID) IsZero() bool    { return p.uuid == uuid.Nil }

func (p PromptID) RecordID() surrealdb_models.RecordID {
	return surrealdb_models.RecordID{
		Table: "prompts",
		ID:    p.uuid.String(),
	}
}

func (p PromptID) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.uuid.String())
}

func (p *PromptID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	p.uuid = id
	return nil
}

func (p PromptID) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(cbor.Tag{
		Number:  8,
		Content: []any{"prompts", p.uuid.String()},
	})
}

func (p *PromptID) UnmarshalCBOR(data []byte) error {
	return unmarshalCBORID(data, "prompts", &p.uuid)
}

func (p PromptID) Value() (driver.Value, error) {
	if p.IsZero() {
		return nil, nil
	}
	return p.uuid.String(), nil
}

func (p *PromptID) Scan(value any) error {
	return scanUUID(value, &p.uuid)
}

func (PromptID) GormDataType() string { return "uuid" }

// Helper functions

// scanUUID is a helper for implementing sql.Scanner interface for PostgreSQL/GORM
func scanUUID(value any, target *uuid.UUID) error {
	if value == nil {
		*target = uuid.Nil
		return nil
	}

	switch v := value.(type) {
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return err
		}
		*target = id
	case []byte:
		id, err := uuid.ParseBytes(v)
		if err != nil {
			return err
		}
		*target = id
	default:
		return fmt.Errorf("cannot scan type %T into UUID", value)
	}
	return nil
}

// unmarshalCBORID is a helper for unmarshaling SurrealDB RecordID from CBOR.
// SurrealDB uses CBOR tag 8 to identify RecordID types in its binary protocol.
// The RecordID is encoded as [table_name, id_string] within the tag.
func unmarshalCBORID(data []byte, expectedTable string, target *uuid.UUID) error {
	if len(data) == 0 {
		return fmt.Errorf("empty CBOR data")
	}

	// Check if this is a CBOR tag (major type 6)
	majorType := data[0] >> 5
	if majorType != 6 {
		return fmt.Errorf("expected CBOR tag for RecordID, got major type %d", majorType)
	}

	var tag cbor.Tag
	if err := cbor.Unmarshal(data, &tag); err != nil {
		return fmt.Errorf("failed to unmarshal CBOR tag: %w", err)
	}

	// SurrealDB uses tag 8 for RecordID
	if tag.Number != 8 {
		return fmt.Errorf("expected RecordID tag (8), got %d", tag.Number)
	}

	arr, ok := tag.Content.([]any)
	if !ok || len(arr) != 2 {
		return fmt.Errorf("invalid RecordID format: expected [table, id] array")
	}

	table, ok := arr[0].(string)
	if !ok {
		return fmt.Errorf("invalid RecordID format: table name must be string")
	}

	if table != expectedTable {
		return fmt.Errorf("expected table %s, got %s", expectedTable, table)
	}

	idStr, ok := arr[1].(string)
	if !ok {
		return fmt.Errorf("invalid RecordID format: ID must be string")
	}

	parsedUUID, err := uuid.Parse(idStr)
	if err != nil {
		return fmt.Errorf("invalid UUID in RecordID: %w", err)
	}

	*target = parsedUUID
	return nil
}
