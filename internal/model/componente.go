package model

import "time"

// Collection names a catalog collection (a table or a document collection
// depending on the store driver).
type Collection string

const (
	CollProductos      Collection = "productos"
	CollSemiterminados Collection = "semiterminados"
	CollInsumos        Collection = "insumos"
)

// Component is a semi-finished part or raw material in the shared catalog.
// It is not owned by any product; products reference it by Code.
type Component struct {
	Code        string    `json:"codigo" bson:"codigo" csv:"codigo"`
	Kind        NodeKind  `json:"tipo" bson:"tipo" csv:"-"`
	Description string    `json:"descripcion" bson:"descripcion" csv:"descripcion"`
	Material    string    `json:"material,omitempty" bson:"material,omitempty" csv:"material,omitempty"`
	Unit        string    `json:"unidad,omitempty" bson:"unidad,omitempty" csv:"unidad,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" csv:"-"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at" csv:"-"`
}

// Key identifies a component across both component collections.
type Key struct {
	Kind      NodeKind
	Reference string
}
