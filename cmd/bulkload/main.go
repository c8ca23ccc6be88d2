// Command bulkload seeds the vector store from CSV or XLSX patent datasets.
// Each row becomes one record embedding "Title - Field Of Invention".
//
// Note: the default collection here (patent_data) is not the collection the
// interactive upload/query path uses (patent_chunks). See DESIGN.md.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"patent-insight-backend/internal/ai"
	"patent-insight-backend/internal/config"
	"patent-insight-backend/internal/logger"
	"patent-insight-backend/models"
	"patent-insight-backend/services"

	"github.com/xuri/excelize/v2"
)

const (
	embedBatchSize  = 100
	insertBatchSize = 500
)

type patentRow struct {
	SourceFile string
	Title      string
	Field      string
	Date       string
	Assignee   string
}

func main() {
	dataDir := flag.String("data", "", "directory containing CSV/XLSX patent datasets")
	collectionName := flag.String("collection", "patent_data", "target collection name")
	flag.Parse()

	if *dataDir == "" {
		log.Fatal("missing required -data flag")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	logger.InitLogger(cfg)

	if cfg.GoogleAPIKey == "" {
		log.Fatal("GOOGLE_API_KEY environment variable not set.")
	}

	ctx := context.Background()

	mongoClient, err := config.ConnectMongoDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(disconnectCtx)
	}()

	gemini, err := ai.NewGeminiClient(ctx, cfg, nil)
	if err != nil {
		log.Fatal("Failed to create Gemini client:", err)
	}
	defer gemini.Close()

	rows, err := loadDatasets(*dataDir)
	if err != nil {
		log.Fatal("Failed to load datasets:", err)
	}
	if len(rows) == 0 {
		log.Fatal("no rows found in ", *dataDir)
	}
	logger.Info("loaded dataset rows", "rows", len(rows))

	collection := mongoClient.Database(cfg.DBName).Collection(*collectionName)
	store := services.NewMongoVectorStore(collection, nil)

	logger.Info("generating embeddings for all texts, this may take a while")

	var records []models.StoredChunk
	for start := 0; start < len(rows); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]

		texts := make([]string, len(batch))
		for i, row := range batch {
			texts[i] = row.Title + " - " + row.Field
		}

		vectors, err := gemini.EmbedBatch(ctx, texts)
		if err != nil {
			log.Fatalf("embedding batch starting at %d failed: %v", start, err)
		}

		for i, row := range batch {
			records = append(records, models.StoredChunk{
				ID:          strconv.Itoa(start + i),
				Text:        texts[i],
				SourcePath:  row.SourceFile,
				FilenameKey: row.SourceFile,
				Title:       row.Title,
				Date:        row.Date,
				Assignee:    row.Assignee,
				Vector:      vectors[i],
			})
		}
		logger.Info("embedded batch", "from", start, "to", end-1)
	}

	for start := 0; start < len(records); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(records) {
			end = len(records)
		}
		if err := store.Upsert(ctx, records[start:end]); err != nil {
			log.Fatalf("insert batch starting at %d failed: %v", start, err)
		}
		logger.Info("inserted batch", "from", start, "to", end-1)
	}

	logger.Info("all data stored", "collection", *collectionName, "records", len(records))
}

func loadDatasets(dir string) ([]patentRow, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var rows []patentRow
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		var raw [][]string
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".csv":
			raw, err = readCSV(path)
		case ".xlsx":
			raw, err = readXLSX(path)
		default:
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}

		parsed, err := parseRows(entry.Name(), raw)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", entry.Name(), err)
		}
		rows = append(rows, parsed...)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets in workbook")
	}
	return f.GetRows(sheets[0])
}

// parseRows maps a header row plus data rows into patent rows. Only Title
// is required; the remaining columns default to empty.
func parseRows(sourceFile string, raw [][]string) ([]patentRow, error) {
	if len(raw) < 2 {
		return nil, nil
	}

	header := make(map[string]int)
	for i, name := range raw[0] {
		header[strings.TrimSpace(name)] = i
	}
	titleIdx, ok := header["Title"]
	if !ok {
		return nil, fmt.Errorf("missing Title column")
	}
	fieldIdx, hasField := header["Field Of Invention"]
	dateIdx, hasDate := header["Application Date"]
	assigneeIdx, hasAssignee := header["Applicant Name"]

	cell := func(row []string, idx int, ok bool) string {
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var rows []patentRow
	for _, row := range raw[1:] {
		rows = append(rows, patentRow{
			SourceFile: sourceFile,
			Title:      cell(row, titleIdx, true),
			Field:      cell(row, fieldIdx, hasField),
			Date:       cell(row, dateIdx, hasDate),
			Assignee:   cell(row, assigneeIdx, hasAssignee),
		})
	}
	return rows, nil
}
