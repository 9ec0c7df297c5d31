package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/nfgomez/secop-analyzer/internal/config"
	"github.com/nfgomez/secop-analyzer/internal/datasets"
	"github.com/nfgomez/secop-analyzer/internal/logger"
	"github.com/nfgomez/secop-analyzer/internal/models"
	"github.com/nfgomez/secop-analyzer/internal/normalize"
	"github.com/nfgomez/secop-analyzer/internal/opendata"
)

func main() {
	var (
		lookupURL = flag.String("url", "", "SECOP detail URL for an exact lookup")
		term      = flag.String("term", "", "keyword to search for")
		dataset   = flag.String("dataset", "", "dataset label (defaults to the first registered one)")
		limit     = flag.Int("limit", 0, "maximum keyword search results")
		nit       = flag.String("nit", "", "provider tax ID to look up")
		save      = flag.Bool("save", false, "export the first record as JSON")
		outPath   = flag.String("o", "", "export file path (default secop-<uuid>.json)")
	)
	flag.Parse()

	log := logger.New("cli")
	cfg, err := config.LoadCLI()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	modes := 0
	for _, set := range []bool{*lookupURL != "", *term != "", *nit != ""} {
		if set {
			modes++
		}
	}
	if modes != 1 {
		fmt.Fprintln(os.Stderr, "exactly one of -url, -term or -nit is required")
		flag.Usage()
		os.Exit(2)
	}

	registry := datasets.Default()
	client := opendata.New(cfg.OpenDataBaseURL, registry, cfg.RequestTimeout, cfg.ProviderTimeout, log)

	label := *dataset
	if label == "" {
		label = registry.DefaultLabel()
	}
	if *limit <= 0 {
		*limit = cfg.DefaultLimit
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	switch {
	case *nit != "":
		row, ok := client.LookupProvider(ctx, *nit)
		if !ok {
			fmt.Fprintf(os.Stderr, "no se encontró información de proveedor para el NIT %s\n", *nit)
			os.Exit(1)
		}
		renderProvider(os.Stdout, row)

	case *lookupURL != "":
		record, err := client.LookupByURL(ctx, *lookupURL, label)
		if err != nil {
			log.Error("lookup failed", slog.Any("err", err))
			os.Exit(1)
		}
		desc, _ := registry.Lookup(label)
		renderRecord(os.Stdout, record, desc)
		if *save {
			exportRecord(log, record, *outPath)
		}

	default:
		records, err := client.SearchByKeyword(ctx, *term, label, *limit)
		if err != nil {
			log.Error("search failed", slog.Any("err", err))
			os.Exit(1)
		}
		if len(records) == 0 {
			fmt.Println("Sin resultados.")
			return
		}
		desc, _ := registry.Lookup(label)
		for i, record := range records {
			fmt.Printf("--- Resultado #%d ---\n", i+1)
			renderRecord(os.Stdout, record, desc)
		}
		if *save {
			exportRecord(log, records[0], *outPath)
		}
	}
}

// renderRecord prints the canonical fields in descriptor order, currency
// formatting the monetary ones.
func renderRecord(w io.Writer, record models.CanonicalRecord, desc models.DatasetDescriptor) {
	for _, name := range desc.CanonicalFields {
		value := record[name]
		if desc.MonetaryFields[name] {
			value = formatCurrency(value)
		}
		fmt.Fprintf(w, "%-28s %s\n", name+":", value)
	}
	fmt.Fprintf(w, "%-28s %s\n", "Consultado:", record["Consultado"])
}

// renderProvider prints the raw provider row field by field, skipping Socrata
// metadata keys.
func renderProvider(w io.Writer, row models.RawRow) {
	keys := make([]string, 0, len(row))
	for key := range row {
		if strings.HasPrefix(key, ":") {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		label := strings.ReplaceAll(key, "_", " ")
		fmt.Fprintf(w, "%s: %v\n", label, row[key])
	}
}

// formatCurrency renders a stored value as Colombian pesos with thousands
// separators, passing through anything that does not parse as a number.
func formatCurrency(raw string) string {
	if raw == "" || raw == normalize.Sentinel {
		return normalize.Sentinel
	}
	cleaned := strings.NewReplacer(",", "", " ", "").Replace(raw)
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return raw
	}
	return "$" + groupThousands(value) + " COP"
}

func groupThousands(value float64) string {
	s := strconv.FormatFloat(value, 'f', 0, 64)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	var b strings.Builder
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	return sign + b.String()
}

func exportRecord(log *slog.Logger, record models.CanonicalRecord, path string) {
	if path == "" {
		path = "secop-" + uuid.NewString() + ".json"
	}
	data, err := marshalRecord(record)
	if err != nil {
		log.Error("encode record", slog.Any("err", err))
		os.Exit(1)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Error("write export", slog.String("path", path), slog.Any("err", err))
		os.Exit(1)
	}
	fmt.Printf("Consulta guardada en %s\n", path)
}

// marshalRecord serializes the record as indented JSON without escaping the
// accented field names.
func marshalRecord(record models.CanonicalRecord) ([]byte, error) {
	var buf strings.Builder
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(record); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}
