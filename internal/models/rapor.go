package models

import "time"

// Report status values. A report stays in the system when deactivated; the
// durum flag only controls whether it counts as current.
const (
	DurumAktif = "Aktif"
	DurumPasif = "Pasif"
)

// Compliance verdict values.
const (
	UygunlukUygun      = "Uygun"
	UygunlukUygunDegil = "Uygun Değil"
)

// Rapor is a single equipment inspection report. Project name and city code
// are denormalised at creation time so list views render without joins.
type Rapor struct {
	ID               string    `db:"id" json:"id"`
	RaporNo          string    `db:"rapor_no" json:"rapor_no"`
	ProjeID          string    `db:"proje_id" json:"proje_id"`
	ProjeAdi         string    `db:"proje_adi" json:"proje_adi"`
	Sehir            string    `db:"sehir" json:"sehir"`
	SehirKodu        string    `db:"sehir_kodu" json:"sehir_kodu"`
	EkipmanAdi       string    `db:"ekipman_adi" json:"ekipman_adi"`
	Kategori         string    `db:"kategori" json:"kategori"`
	AltKategori      *string   `db:"alt_kategori" json:"alt_kategori,omitempty"`
	Firma            string    `db:"firma" json:"firma"`
	Lokasyon         *string   `db:"lokasyon" json:"lokasyon,omitempty"`
	MarkaModel       *string   `db:"marka_model" json:"marka_model,omitempty"`
	SeriNo           *string   `db:"seri_no" json:"seri_no,omitempty"`
	Periyot          *string   `db:"periyot" json:"periyot,omitempty"`
	GecerlilikTarihi *string   `db:"gecerlilik_tarihi" json:"gecerlilik_tarihi,omitempty"`
	Aciklama         *string   `db:"aciklama" json:"aciklama,omitempty"`
	Uygunluk         *string   `db:"uygunluk" json:"uygunluk,omitempty"`
	Durum            string    `db:"durum" json:"durum"`
	CreatedBy        string    `db:"created_by" json:"created_by"`
	CreatedByUsername string   `db:"created_by_username" json:"created_by_username"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// RaporFilter carries the server-side list filters. Empty string means the
// dimension is unset. Arama is a case-insensitive containment match over
// rapor_no, ekipman_adi and firma.
type RaporFilter struct {
	Arama    string
	Kategori string
	Periyot  string
	Uygunluk string
	Firma    string
	ProjeID  string
	Limit    int
	Skip     int
}
