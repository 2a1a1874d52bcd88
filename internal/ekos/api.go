package ekos

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ekos-sistemi/ekos-api/internal/dto"
	"github.com/ekos-sistemi/ekos-api/internal/models"
	appErrors "github.com/ekos-sistemi/ekos-api/pkg/errors"
)

// Login authenticates and persists the returned session token. A new login
// invalidates tokens issued to other devices.
func (c *Client) Login(ctx context.Context, username, password string) (*models.UserInfo, error) {
	req := models.LoginRequest{Username: username, Password: password}
	var res models.LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", nil, req, &res); err != nil {
		return nil, err
	}
	if err := c.sessions.Save(&Session{Token: res.AccessToken, User: res.User}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist session")
	}
	return &res.User, nil
}

// Logout terminates the server-side session and drops local credentials.
func (c *Client) Logout(ctx context.Context) error {
	err := c.doJSON(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
	if clearErr := c.sessions.Clear(); clearErr != nil && err == nil {
		err = clearErr
	}
	return err
}

// Me returns the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*models.UserInfo, error) {
	var info models.UserInfo
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// ListRaporlar fetches reports matching the filter.
func (c *Client) ListRaporlar(ctx context.Context, filter models.RaporFilter) ([]models.Rapor, error) {
	query := url.Values{}
	setIf := func(key, value string) {
		if value != "" {
			query.Set(key, value)
		}
	}
	setIf("arama", filter.Arama)
	setIf("kategori", filter.Kategori)
	setIf("periyot", filter.Periyot)
	setIf("uygunluk", filter.Uygunluk)
	setIf("firma", filter.Firma)
	setIf("proje_id", filter.ProjeID)
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.Skip > 0 {
		query.Set("skip", strconv.Itoa(filter.Skip))
	}

	var raporlar []models.Rapor
	if err := c.doJSON(ctx, http.MethodGet, "/raporlar", query, nil, &raporlar); err != nil {
		return nil, err
	}
	return raporlar, nil
}

// GetRapor fetches a single report.
func (c *Client) GetRapor(ctx context.Context, id string) (*models.Rapor, error) {
	var rapor models.Rapor
	if err := c.doJSON(ctx, http.MethodGet, "/raporlar/"+id, nil, nil, &rapor); err != nil {
		return nil, err
	}
	return &rapor, nil
}

// CreateRapor creates a report.
func (c *Client) CreateRapor(ctx context.Context, req dto.CreateRaporRequest) (*models.Rapor, error) {
	var rapor models.Rapor
	if err := c.doJSON(ctx, http.MethodPost, "/raporlar", nil, req, &rapor); err != nil {
		return nil, err
	}
	return &rapor, nil
}

// UpdateRapor applies a partial update.
func (c *Client) UpdateRapor(ctx context.Context, id string, req dto.UpdateRaporRequest) (*models.Rapor, error) {
	var rapor models.Rapor
	if err := c.doJSON(ctx, http.MethodPut, "/raporlar/"+id, nil, req, &rapor); err != nil {
		return nil, err
	}
	return &rapor, nil
}

// ToggleDurum flips a report between Aktif and Pasif.
func (c *Client) ToggleDurum(ctx context.Context, id string) (*dto.DurumResponse, error) {
	var res dto.DurumResponse
	if err := c.doJSON(ctx, http.MethodPatch, "/raporlar/"+id+"/durum", nil, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// DeleteRapor removes a report and its attachments.
func (c *Client) DeleteRapor(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/raporlar/"+id, nil, nil, nil)
}

// BulkDelete removes the selected reports in one all-or-nothing call. An
// empty selection is rejected before any network traffic.
func (c *Client) BulkDelete(ctx context.Context, ids []string) (*dto.BulkDeleteResponse, error) {
	if len(ids) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "en az bir rapor seçilmelidir")
	}
	var res dto.BulkDeleteResponse
	if err := c.doJSON(ctx, http.MethodPost, "/raporlar/bulk-delete", nil, ids, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ListProjeler fetches the project registry.
func (c *Client) ListProjeler(ctx context.Context) ([]models.Proje, error) {
	var projeler []models.Proje
	if err := c.doJSON(ctx, http.MethodGet, "/projeler", nil, nil, &projeler); err != nil {
		return nil, err
	}
	return projeler, nil
}

// ListKategoriler fetches the equipment categories.
func (c *Client) ListKategoriler(ctx context.Context) ([]models.Kategori, error) {
	var kategoriler []models.Kategori
	if err := c.doJSON(ctx, http.MethodGet, "/kategoriler", nil, nil, &kategoriler); err != nil {
		return nil, err
	}
	return kategoriler, nil
}

// DashboardStats fetches the landing page counters.
func (c *Client) DashboardStats(ctx context.Context) (*dto.DashboardStats, error) {
	var stats dto.DashboardStats
	if err := c.doJSON(ctx, http.MethodGet, "/dashboard/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Download is a streamed export response. The caller owns Body.
type Download struct {
	Body        io.ReadCloser
	Filename    string
	ContentType string
	Size        int64
}

// ZipExport requests a ZIP bundle of the selected reports. The selection
// bounds are checked client-side before the request goes out.
func (c *Client) ZipExport(ctx context.Context, ids []string) (*Download, error) {
	if len(ids) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "en az bir rapor seçilmelidir")
	}
	if len(ids) > 100 {
		return nil, appErrors.Clone(appErrors.ErrLimitExceeded, "en fazla 100 rapor seçilebilir")
	}
	return c.download(ctx, http.MethodPost, "/raporlar/zip-export", nil, dto.ZipExportRequest{RaporIDs: ids})
}

// ExcelExport requests the filtered report list as a workbook.
func (c *Client) ExcelExport(ctx context.Context, filter models.RaporFilter) (*Download, error) {
	query := url.Values{}
	setIf := func(key, value string) {
		if value != "" {
			query.Set(key, value)
		}
	}
	setIf("arama", filter.Arama)
	setIf("kategori", filter.Kategori)
	setIf("periyot", filter.Periyot)
	setIf("uygunluk", filter.Uygunluk)
	setIf("firma", filter.Firma)
	setIf("proje_id", filter.ProjeID)
	return c.download(ctx, http.MethodGet, "/raporlar/excel-export", query, nil)
}

// download issues an export request on the extended timeout budget and
// hands the body back unconsumed. Exports are never auto-retried.
func (c *Client) download(ctx context.Context, method, path string, query url.Values, body interface{}) (*Download, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode request")
		}
	}

	resp, err := c.send(ctx, method, path, query, payload, c.exportTimeout)
	if err != nil {
		return nil, appErrors.Wrap(err, "NETWORK_ERROR", http.StatusServiceUnavailable, "sunucuya ulaşılamıyor")
	}

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(resp.Body)
		resp.Body.Close() //nolint:errcheck
		apiErr := c.decodeError(resp.StatusCode, raw)
		if resp.StatusCode == http.StatusUnauthorized {
			c.handleUnauthorized(apiErr)
		}
		return nil, apiErr
	}

	return &Download{
		Body:        resp.Body,
		Filename:    filenameFromDisposition(resp.Header.Get("Content-Disposition")),
		ContentType: resp.Header.Get("Content-Type"),
		Size:        resp.ContentLength,
	}, nil
}

// filenameFromDisposition extracts the attachment filename, empty when the
// header is missing or malformed so callers fall back to a derived name.
func filenameFromDisposition(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}

// FallbackFilename derives a deterministic export filename when the server
// does not provide one.
func FallbackFilename(entity, format string, now time.Time) string {
	switch format {
	case "zip":
		return entity + "_" + now.Format("2006-01-02_1504") + ".zip"
	default:
		return entity + "_" + now.Format("2006-01-02") + ".xlsx"
	}
}
