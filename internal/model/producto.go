package model

import "time"

// Product is a top-level catalog record carrying its full bill of materials.
// Structure is the single-rooted tree; ComponentIDs is the reverse index
// derived from it and must always be written together with it.
type Product struct {
	// StorageID is assigned by the store and never serialized into the document.
	StorageID    string   `json:"-" bson:"-"`
	BusinessID   string   `json:"codigo" bson:"codigo"`
	Description  string   `json:"descripcion" bson:"descripcion"`
	Structure    *Node    `json:"estructura,omitempty" bson:"estructura,omitempty"`
	ComponentIDs []string `json:"component_ids" bson:"component_ids"`

	// Audit / approval metadata. Cleared on clone.
	ReviewedAt     *time.Time `json:"fecha_revision,omitempty" bson:"fecha_revision,omitempty"`
	ApprovedBy     string     `json:"aprobado_por,omitempty" bson:"aprobado_por,omitempty"`
	ApprovedAt     *time.Time `json:"fecha_aprobacion,omitempty" bson:"fecha_aprobacion,omitempty"`
	LastModifiedBy string     `json:"modificado_por,omitempty" bson:"modificado_por,omitempty"`
	CreatedAt      time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" bson:"updated_at"`
}

// SetStorageID lets stores stamp the document key after a read.
func (p *Product) SetStorageID(id string) { p.StorageID = id }

// IndexValues exposes the reverse index so document stores can mirror it into
// a natively indexed column.
func (p *Product) IndexValues() []string { return p.ComponentIDs }
