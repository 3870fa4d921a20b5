package model

// Locator identifies where the store keeps a named attribute
type Locator struct {
	FieldID int64  `json:"field_id"`
	Column  string `json:"column"` // "custom_<field id>"
}

// EntityRecord is a contact as returned by the store. Values is keyed by Locator.Column.
type EntityRecord struct {
	ID          int64
	DisplayName string
	Category    string
	SubCategory string
	Values      map[string]string
}

// RelationshipRecord is a relationship row as returned by the store
type RelationshipRecord struct {
	ID        int64
	SourceID  int64
	TargetID  int64
	TypeID    int64
	TypeLabel string
	IsActive  bool
}

// RelationshipType describes one kind of relationship
type RelationshipType struct {
	ID           int64  `json:"id"`
	Label        string `json:"label"`
	ReverseLabel string `json:"reverse_label"`
	Name         string `json:"name"`
	IsActive     bool   `json:"is_active"`
}
