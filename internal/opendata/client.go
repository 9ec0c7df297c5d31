package opendata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/nfgomez/secop-analyzer/internal/datasets"
	"github.com/nfgomez/secop-analyzer/internal/models"
	"github.com/nfgomez/secop-analyzer/internal/normalize"
)

// Validation and outcome errors. Messages match what the front-ends show.
var (
	ErrUnsupportedDataset = errors.New("dataset no soportado")
	ErrNoNoticeUID        = errors.New("no se encontró noticeUID en la URL SECOP")
	ErrEmptyTerm          = errors.New("debes ingresar una palabra clave")
	// ErrNotFound means the exact lookup was well-formed but matched no row;
	// the identifier may not exist yet in the open-data mirror.
	ErrNotFound = errors.New("no se encontró el proceso/contrato en Datos Abiertos")
)

// DefaultSearchLimit caps keyword search when the caller passes no ceiling.
const DefaultSearchLimit = 25

var nonDigits = regexp.MustCompile(`\D`)

// Client queries the datos.gov.co Socrata resources. Every call is an
// independent request/response unit; the client holds only static
// configuration and is safe for concurrent use.
type Client struct {
	baseURL      string
	registry     datasets.Registry
	http         *http.Client
	providerHTTP *http.Client
	log          *slog.Logger
}

// New builds a client against the given portal base URL. timeout bounds
// dataset queries, providerTimeout the provider lookup.
func New(baseURL string, registry datasets.Registry, timeout, providerTimeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	if providerTimeout <= 0 {
		providerTimeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		registry:     registry,
		http:         &http.Client{Timeout: timeout},
		providerHTTP: &http.Client{Timeout: providerTimeout},
		log:          logger,
	}
}

// LookupByURL resolves a SECOP detail URL into exactly one canonical record
// of the labeled dataset.
func (c *Client) LookupByURL(ctx context.Context, rawURL, datasetLabel string) (models.CanonicalRecord, error) {
	desc, ok := c.registry.Lookup(datasetLabel)
	if !ok {
		return nil, ErrUnsupportedDataset
	}
	normalizer, ok := normalize.ForType(desc.RecordType)
	if !ok {
		return nil, ErrUnsupportedDataset
	}

	noticeUID := normalize.NoticeUID(rawURL)
	if noticeUID == "" {
		return nil, ErrNoNoticeUID
	}

	params := url.Values{}
	params.Set("$limit", "1")
	params.Set("$where", exactFilter(noticeUID))

	rows, err := c.fetchRows(ctx, c.http, desc.RemoteID, params)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	c.log.Debug("lookup matched", slog.String("dataset", desc.RemoteID), slog.String("notice_uid", noticeUID))
	return normalize.Sanitize(normalizer(rows[0], noticeUID), time.Now()), nil
}

// SearchByKeyword returns up to limit canonical records whose searchable
// columns contain the term. Zero matches is a valid empty result, not an
// error. Output preserves the portal's row order.
func (c *Client) SearchByKeyword(ctx context.Context, term, datasetLabel string, limit int) ([]models.CanonicalRecord, error) {
	desc, ok := c.registry.Lookup(datasetLabel)
	if !ok {
		return nil, ErrUnsupportedDataset
	}
	normalizer, ok := normalize.ForType(desc.RecordType)
	if !ok {
		return nil, ErrUnsupportedDataset
	}

	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrEmptyTerm
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	params := url.Values{}
	params.Set("$limit", strconv.Itoa(limit))
	params.Set("$where", keywordFilter(desc.RecordType, term))

	rows, err := c.fetchRows(ctx, c.http, desc.RemoteID, params)
	if err != nil {
		return nil, err
	}

	records := make([]models.CanonicalRecord, 0, len(rows))
	for _, row := range rows {
		// Identifier recovery is best effort here; sanitation turns a
		// missing one into the sentinel instead of failing the row.
		noticeUID := normalize.NoticeUIDFromRow(row)
		records = append(records, normalize.Sanitize(normalizer(row, noticeUID), time.Now()))
	}

	c.log.Debug("keyword search done",
		slog.String("dataset", desc.RemoteID),
		slog.String("term", term),
		slog.Int("rows", len(records)),
	)
	return records, nil
}

// LookupProvider fetches the registered-provider row matching a tax ID,
// ignoring every non-digit character in the input. All failure modes —
// digit-less input, transport error, empty result — collapse to found=false;
// callers only need a binary answer. Transport errors are logged before
// collapsing.
func (c *Client) LookupProvider(ctx context.Context, taxID string) (models.RawRow, bool) {
	nit := nonDigits.ReplaceAllString(taxID, "")
	if nit == "" {
		return nil, false
	}

	params := url.Values{}
	params.Set("$limit", "1")
	params.Set("nit", nit)

	rows, err := c.fetchRows(ctx, c.providerHTTP, datasets.ProviderDatasetID, params)
	if err != nil {
		c.log.Warn("provider lookup failed", slog.String("nit", nit), slog.Any("err", err))
		return nil, false
	}
	if len(rows) == 0 {
		return nil, false
	}
	return rows[0], true
}

func (c *Client) fetchRows(ctx context.Context, httpClient *http.Client, datasetID string, params url.Values) ([]models.RawRow, error) {
	endpoint := fmt.Sprintf("%s/resource/%s.json?%s", c.baseURL, datasetID, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("open data request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return nil, fmt.Errorf("open data status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var rows []models.RawRow
	if err := json.NewDecoder(res.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode open data response: %w", err)
	}
	return rows, nil
}
