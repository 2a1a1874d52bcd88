// ekosctl is a terminal client for the EKOS API. It keeps a file-backed
// session, renders the report list with client-side filtering and paging,
// and downloads ZIP/Excel exports.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/ekos-sistemi/ekos-api/internal/ekos"
	"github.com/ekos-sistemi/ekos-api/internal/exporter"
	"github.com/ekos-sistemi/ekos-api/internal/listview"
	"github.com/ekos-sistemi/ekos-api/internal/models"
	"github.com/ekos-sistemi/ekos-api/pkg/config"
	"github.com/ekos-sistemi/ekos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	sessionFile := cfg.Client.SessionFile
	if sessionFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("failed to resolve home directory: %v", err)
		}
		sessionFile = filepath.Join(home, ".ekos", "session.json")
	}

	client := ekos.NewClient(ekos.Options{
		BaseURL:        cfg.Client.BaseURL,
		RequestTimeout: cfg.Client.RequestTimeout,
		ExportTimeout:  cfg.Client.ExportTimeout,
		RetryAttempts:  cfg.Client.RetryAttempts,
		RetryDelay:     cfg.Client.RetryDelay,
		Sessions:       ekos.NewFileSessionStore(sessionFile),
		Notifier: ekos.NotifierFunc(func(message string) {
			fmt.Fprintln(os.Stderr, message)
		}),
		Navigator: ekos.NavigatorFunc(func() {
			fmt.Fprintln(os.Stderr, "Giriş yapmak için: ekosctl login <kullanıcı>")
		}),
		Logger: logr,
	})

	// SIGINT cancels in-flight requests instead of leaving them running.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	app := &app{
		client:   client,
		exporter: exporter.New(client, cfg.Client.DownloadDir, logr),
		pageSize: cfg.Client.PageSize,
	}

	if err := app.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "hata: %v\n", err)
		os.Exit(1)
	}
}

type app struct {
	client   *ekos.Client
	exporter *exporter.Exporter
	pageSize int
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return a.login(ctx, args)
	case "logout":
		return a.client.Logout(ctx)
	case "me":
		info, err := a.client.Me(ctx)
		if err != nil {
			return err
		}
		return printJSON(info)
	case "list":
		return a.list(ctx, args)
	case "get":
		if len(args) != 1 {
			return fmt.Errorf("kullanım: ekosctl get <rapor-id>")
		}
		rapor, err := a.client.GetRapor(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(rapor)
	case "toggle-durum":
		if len(args) != 1 {
			return fmt.Errorf("kullanım: ekosctl toggle-durum <rapor-id>")
		}
		res, err := a.client.ToggleDurum(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Println(res.Message)
		return nil
	case "delete":
		if len(args) != 1 {
			return fmt.Errorf("kullanım: ekosctl delete <rapor-id>")
		}
		return a.client.DeleteRapor(ctx, args[0])
	case "bulk-delete":
		if len(args) == 0 {
			return fmt.Errorf("kullanım: ekosctl bulk-delete <rapor-id>...")
		}
		res, err := a.client.BulkDelete(ctx, args)
		if err != nil {
			return err
		}
		fmt.Println(res.Message)
		return nil
	case "export-zip":
		if len(args) == 0 {
			return fmt.Errorf("kullanım: ekosctl export-zip <rapor-id>...")
		}
		path, err := a.exporter.ExportZip(ctx, args)
		if err != nil {
			return err
		}
		fmt.Printf("Arşiv kaydedildi: %s\n", path)
		return nil
	case "export-excel":
		return a.exportExcel(ctx, args)
	case "projeler":
		projeler, err := a.client.ListProjeler(ctx)
		if err != nil {
			return err
		}
		return printJSON(projeler)
	case "kategoriler":
		kategoriler, err := a.client.ListKategoriler(ctx)
		if err != nil {
			return err
		}
		return printJSON(kategoriler)
	case "stats":
		stats, err := a.client.DashboardStats(ctx)
		if err != nil {
			return err
		}
		return printJSON(stats)
	default:
		usage()
		return fmt.Errorf("bilinmeyen komut: %s", command)
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("kullanım: ekosctl login <kullanıcı>")
	}

	fmt.Fprint(os.Stderr, "Parola: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}

	user, err := a.client.Login(ctx, args[0], string(password))
	if err != nil {
		return err
	}
	fmt.Printf("Giriş başarılı: %s (%s)\n", user.FullName, user.Role)
	return nil
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	kategori := fs.String("kategori", "", "kategori filtresi")
	periyot := fs.String("periyot", "", "periyot filtresi")
	uygunluk := fs.String("uygunluk", "", "uygunluk filtresi")
	firma := fs.String("firma", "", "firma filtresi")
	arama := fs.String("arama", "", "arama terimi")
	page := fs.Int("sayfa", 1, "sayfa numarası")
	oldest := fs.Bool("eski", false, "en eskiden yeniye sırala")
	if err := fs.Parse(args); err != nil {
		return err
	}

	raporlar, err := a.client.ListRaporlar(ctx, models.RaporFilter{})
	if err != nil {
		return err
	}

	ctl := listview.NewController(a.pageSize, nil)
	ctl.SetRecords(raporlar)
	ctl.SetFilter(listview.FilterKategori, *kategori)
	ctl.SetFilter(listview.FilterPeriyot, *periyot)
	ctl.SetFilter(listview.FilterUygunluk, *uygunluk)
	ctl.SetFilter(listview.FilterFirma, *firma)
	ctl.SetSearchTerm(*arama)
	if *oldest {
		ctl.SetSortOrder(listview.SortOldest)
	}
	ctl.SetPage(*page)

	view := ctl.DerivedView()
	for _, r := range view.Records {
		uygunlukStr := "-"
		if r.Uygunluk != nil {
			uygunlukStr = *r.Uygunluk
		}
		fmt.Printf("%-14s %-28s %-20s %-10s %s\n", r.RaporNo, truncate(r.EkipmanAdi, 28), truncate(r.Firma, 20), r.Durum, uygunlukStr)
	}
	fmt.Printf("Sayfa %d/%d, toplam %d rapor\n", view.Page, view.TotalPages, view.TotalFiltered)
	return nil
}

func (a *app) exportExcel(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export-excel", flag.ContinueOnError)
	kategori := fs.String("kategori", "", "kategori filtresi")
	periyot := fs.String("periyot", "", "periyot filtresi")
	uygunluk := fs.String("uygunluk", "", "uygunluk filtresi")
	firma := fs.String("firma", "", "firma filtresi")
	arama := fs.String("arama", "", "arama terimi")
	if err := fs.Parse(args); err != nil {
		return err
	}

	path, err := a.exporter.ExportExcel(ctx, models.RaporFilter{
		Arama:    *arama,
		Kategori: *kategori,
		Periyot:  *periyot,
		Uygunluk: *uygunluk,
		Firma:    *firma,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Tablo kaydedildi: %s\n", path)
	return nil
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n-1])) + "…"
}

func usage() {
	fmt.Fprintln(os.Stderr, `kullanım: ekosctl <komut> [seçenekler]

komutlar:
  login <kullanıcı>          giriş yap
  logout                     oturumu kapat
  me                         oturum bilgisi
  list [filtreler]           raporları listele
  get <id>                   tek rapor
  toggle-durum <id>          durumu Aktif/Pasif değiştir
  delete <id>                rapor sil
  bulk-delete <id>...        toplu sil
  export-zip <id>...         seçilen raporları ZIP olarak indir
  export-excel [filtreler]   listeyi Excel olarak indir
  projeler                   proje listesi
  kategoriler                kategori listesi
  stats                      gösterge paneli sayaçları`)
}
