package service

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/ekos-sistemi/ekos-api/internal/models"
	appErrors "github.com/ekos-sistemi/ekos-api/pkg/errors"
)

type zipRaporLister interface {
	ListByIDs(ctx context.Context, ids []string) ([]models.Rapor, error)
}

type zipMediaLister interface {
	ListByRaporIDs(ctx context.Context, raporIDs []string) ([]models.MediaDosya, error)
}

type zipFileOpener interface {
	Open(filename string) (*os.File, error)
}

// ZipResult is a fully rendered archive ready to stream.
type ZipResult struct {
	Data          []byte
	Filename      string
	RaporCount    int
	KategoriCount int
}

// ZipExportService bundles selected reports into a category-grouped ZIP:
//
//	Kategori_A/RAPOR_<no>/bilgi.txt
//	Kategori_A/RAPOR_<no>/<attachments...>
//	Kategori_B/...
type ZipExportService struct {
	raporlar   zipRaporLister
	media      zipMediaLister
	storage    zipFileOpener
	maxReports int
	logger     *zap.Logger
	now        func() time.Time
}

// NewZipExportService constructs the service.
func NewZipExportService(raporlar zipRaporLister, media zipMediaLister, storage zipFileOpener, maxReports int, logger *zap.Logger) *ZipExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxReports <= 0 {
		maxReports = 100
	}
	return &ZipExportService{
		raporlar:   raporlar,
		media:      media,
		storage:    storage,
		maxReports: maxReports,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Export renders the archive for the selected report ids. The selection is
// validated before any data access so oversized requests never reach the
// database.
func (s *ZipExportService) Export(ctx context.Context, raporIDs []string, actor *models.JWTClaims) (*ZipResult, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if len(raporIDs) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "en az bir rapor seçilmelidir")
	}
	if len(raporIDs) > s.maxReports {
		return nil, appErrors.Clone(appErrors.ErrLimitExceeded, fmt.Sprintf("en fazla %d rapor seçilebilir", s.maxReports))
	}

	raporlar, err := s.raporlar.ListByIDs(ctx, raporIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch reports")
	}
	if len(raporlar) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "seçilen raporlar bulunamadı")
	}
	if actor.Role == models.RoleViewer && actor.FirmaAdi != "" {
		visible := raporlar[:0]
		for _, r := range raporlar {
			if r.Firma == actor.FirmaAdi {
				visible = append(visible, r)
			}
		}
		raporlar = visible
		if len(raporlar) == 0 {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "")
		}
	}

	byKategori := make(map[string][]models.Rapor)
	for _, r := range raporlar {
		kategori := r.Kategori
		if kategori == "" {
			kategori = "Kategorisiz"
		}
		byKategori[kategori] = append(byKategori[kategori], r)
	}
	kategoriler := make([]string, 0, len(byKategori))
	for k := range byKategori {
		kategoriler = append(kategoriler, k)
	}
	sort.Strings(kategoriler)

	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)

	for _, kategori := range kategoriler {
		for _, rapor := range byKategori[kategori] {
			folder := fmt.Sprintf("%s/RAPOR_%s", sanitizeName(kategori), sanitizeName(rapor.RaporNo))
			if err := s.writeBilgi(zw, folder, rapor); err != nil {
				_ = zw.Close()
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to write report summary")
			}
			if err := s.writeAttachments(ctx, zw, folder, rapor.ID); err != nil {
				_ = zw.Close()
				return nil, err
			}
		}
	}

	if err := zw.Close(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to finalise archive")
	}

	now := s.now()
	filename := fmt.Sprintf("Raporlar_%dKategori_%dRapor_%s.zip", len(kategoriler), len(raporlar), now.Format("20060102_1504"))

	s.logger.Info("zip export rendered",
		zap.Int("rapor_count", len(raporlar)),
		zap.Int("kategori_count", len(kategoriler)),
		zap.Int("bytes", buf.Len()),
	)

	return &ZipResult{
		Data:          buf.Bytes(),
		Filename:      filename,
		RaporCount:    len(raporlar),
		KategoriCount: len(kategoriler),
	}, nil
}

func (s *ZipExportService) writeBilgi(zw *zip.Writer, folder string, rapor models.Rapor) error {
	w, err := zw.Create(folder + "/bilgi.txt")
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, bilgiContent(rapor, s.now()))
	return err
}

func (s *ZipExportService) writeAttachments(ctx context.Context, zw *zip.Writer, folder, raporID string) error {
	dosyalar, err := s.media.ListByRaporIDs(ctx, []string{raporID})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attachments")
	}

	used := make(map[string]int)
	for _, dosya := range dosyalar {
		file, err := s.storage.Open(dosya.DosyaYolu)
		if err != nil {
			// A missing file should not sink the whole archive.
			s.logger.Warn("attachment missing on disk", zap.String("path", dosya.DosyaYolu), zap.Error(err))
			continue
		}

		name := sanitizeFileName(dosya.DosyaAdi)
		if n := used[name]; n > 0 {
			ext := ""
			base := name
			if idx := strings.LastIndex(name, "."); idx > 0 {
				base, ext = name[:idx], name[idx:]
			}
			name = fmt.Sprintf("%s_%d%s", base, n, ext)
		}
		used[sanitizeFileName(dosya.DosyaAdi)]++

		w, err := zw.Create(folder + "/" + name)
		if err == nil {
			_, err = io.Copy(w, file)
		}
		_ = file.Close()
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to bundle attachment")
		}
	}
	return nil
}

func bilgiContent(rapor models.Rapor, now time.Time) string {
	var b strings.Builder
	b.WriteString("RAPOR BİLGİLERİ\n")
	b.WriteString("===============\n\n")
	writeLine := func(label, value string) {
		if value == "" {
			value = "Belirtilmemiş"
		}
		fmt.Fprintf(&b, "%-18s: %s\n", label, value)
	}
	writeLine("Rapor No", rapor.RaporNo)
	writeLine("Oluşturma Tarihi", rapor.CreatedAt.Format("2006-01-02"))
	writeLine("Firma", rapor.Firma)
	writeLine("Ekipman Adı", rapor.EkipmanAdi)
	writeLine("Kategori", rapor.Kategori)
	writeLine("Alt Kategori", deref(rapor.AltKategori))
	writeLine("Lokasyon", deref(rapor.Lokasyon))
	writeLine("Marka/Model", deref(rapor.MarkaModel))
	writeLine("Seri No", deref(rapor.SeriNo))
	writeLine("Periyot", deref(rapor.Periyot))
	writeLine("Geçerlilik", deref(rapor.GecerlilikTarihi))
	writeLine("Uygunluk", deref(rapor.Uygunluk))
	writeLine("Şehir", rapor.Sehir)
	writeLine("Proje", rapor.ProjeAdi)
	writeLine("Oluşturan", rapor.CreatedByUsername)
	writeLine("Durum", rapor.Durum)

	b.WriteString("\nAÇIKLAMA\n--------\n")
	if aciklama := deref(rapor.Aciklama); aciklama != "" {
		b.WriteString(aciklama + "\n")
	} else {
		b.WriteString("Açıklama bulunmamaktadır.\n")
	}
	fmt.Fprintf(&b, "\nEKOS - Ekipman Kontrol Otomasyon Sistemi, %s UTC\n", now.Format("02.01.2006 15:04:05"))
	return b.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// sanitizeName keeps letters, digits, dashes, underscores, spaces and
// parentheses so category and report folders stay portable.
func sanitizeName(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("-_ ()", r) {
			return r
		}
		return '_'
	}, raw)
}

func sanitizeFileName(raw string) string {
	out := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune(".-_", r) {
			return r
		}
		return '_'
	}, raw)
	if out == "" {
		out = "dosya"
	}
	return out
}
