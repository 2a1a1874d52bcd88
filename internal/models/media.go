package models

import "time"

// MediaDosya is attachment metadata for a report. The physical file lives
// under the media storage directory at DosyaYolu.
type MediaDosya struct {
	ID        string    `db:"id" json:"id"`
	RaporID   string    `db:"rapor_id" json:"rapor_id"`
	DosyaAdi  string    `db:"dosya_adi" json:"dosya_adi"`
	DosyaYolu string    `db:"dosya_yolu" json:"dosya_yolu"`
	Boyut     int64     `db:"boyut" json:"boyut"`
	MimeType  string    `db:"mime_type" json:"mime_type"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
