package models

import (
	"time"

	"github.com/lib/pq"
)

// Kategori is an equipment category with its optional sub-categories.
type Kategori struct {
	ID             string         `db:"id" json:"id"`
	Ad             string         `db:"ad" json:"ad"`
	AltKategoriler pq.StringArray `db:"alt_kategoriler" json:"alt_kategoriler"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
}
