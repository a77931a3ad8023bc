package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"EntryFeed/internal/domain/models"
	"EntryFeed/internal/domain/repository"
	"EntryFeed/pkg/logger"
	"EntryFeed/pkg/util"
)

type studyCSVSource struct {
	path string
	log  *logger.Logger
}

// NewStudyCSVSource reads percentile study rows from a semicolon CSV.
func NewStudyCSVSource(path string, log *logger.Logger) repository.StudySource {
	return &studyCSVSource{path: path, log: log}
}

func (s *studyCSVSource) Load(ctx context.Context) ([]models.StudyEntry, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open study file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read study file: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("study file %s is empty", s.path)
	}

	cols, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}

	entries := make([]models.StudyEntry, 0, len(rows)-1)
	skipped := 0
	for _, row := range rows[1:] {
		entry, ok := parseStudyRow(row, cols)
		if !ok {
			skipped++
			continue
		}
		entries = append(entries, entry)
	}
	if skipped > 0 {
		s.log.Warn("skipped malformed study rows",
			logger.Int("skipped", skipped),
			logger.Int("kept", len(entries)))
	}
	return entries, nil
}

// headerIndex locates the required columns case-insensitively.
func headerIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToUpper(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"PAR", "LADO", "PERCENTIL", "ALVO_PCT"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("study file missing column %s", required)
		}
	}
	return cols, nil
}

func parseStudyRow(row []string, cols map[string]int) (models.StudyEntry, bool) {
	field := func(name string) string {
		i := cols[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	pair := strings.ToUpper(field("PAR"))
	if pair == "" {
		return models.StudyEntry{}, false
	}

	// Sides other than LONG/SHORT are kept as-is; the deriver resolves them
	// to NO_ENTRY. Unparsable numerics default to 0, which fails the gates
	// for the same outcome. Either way the pair stays visible in the feed.
	side := strings.ToUpper(field("LADO"))
	switch {
	case strings.Contains(side, "LONG"):
		side = models.SideLong
	case strings.Contains(side, "SHORT"):
		side = models.SideShort
	}

	percentile := util.ParseFloatDefault(field("PERCENTIL"), 0)
	move := util.ParseFloatDefault(field("ALVO_PCT"), 0)

	return models.StudyEntry{
		Pair:          pair,
		Side:          side,
		Percentile:    percentile,
		TargetMovePct: move,
	}, true
}
