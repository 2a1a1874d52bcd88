package models

import "time"

// Proje groups reports for a single customer engagement.
type Proje struct {
	ID        string    `db:"id" json:"id"`
	ProjeAdi  string    `db:"proje_adi" json:"proje_adi"`
	Firma     string    `db:"firma" json:"firma"`
	Sehir     string    `db:"sehir" json:"sehir"`
	Durum     string    `db:"durum" json:"durum"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
