package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EntryFeed/internal/domain/models"
	"EntryFeed/pkg/logger"
)

func writeStudy(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "study.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestStudyCSVLoad(t *testing.T) {
	path := writeStudy(t, "PAR;LADO;PERCENTIL;ALVO_PCT\nBTC;LONG;72;6.5\neth;short;55;4,2\n")
	src := NewStudyCSVSource(path, logger.Nop())

	entries, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, models.StudyEntry{Pair: "BTC", Side: "LONG", Percentile: 72, TargetMovePct: 6.5}, entries[0])
	assert.Equal(t, "ETH", entries[1].Pair)
	assert.Equal(t, "SHORT", entries[1].Side)
	assert.InDelta(t, 4.2, entries[1].TargetMovePct, 1e-9)
}

func TestStudyCSVHeaderCaseInsensitive(t *testing.T) {
	path := writeStudy(t, "par;Lado;Percentil;alvo_pct\nBTC;LONG;72;6.5\n")
	src := NewStudyCSVSource(path, logger.Nop())

	entries, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStudyCSVMissingColumnFails(t *testing.T) {
	path := writeStudy(t, "PAR;LADO;PERCENTIL\nBTC;LONG;72\n")
	src := NewStudyCSVSource(path, logger.Nop())

	_, err := src.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ALVO_PCT")
}

func TestStudyCSVSkipsRowsWithoutPair(t *testing.T) {
	path := writeStudy(t, "PAR;LADO;PERCENTIL;ALVO_PCT\n"+
		"BTC;LONG;72;6.5\n"+
		";LONG;50;3\n"+
		"DOT;COMPRA LONG;61;4.1\n")
	src := NewStudyCSVSource(path, logger.Nop())

	entries, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "BTC", entries[0].Pair)
	assert.Equal(t, "DOT", entries[1].Pair)
	assert.Equal(t, "LONG", entries[1].Side)
}

func TestStudyCSVKeepsRowsWithBadNumbers(t *testing.T) {
	path := writeStudy(t, "PAR;LADO;PERCENTIL;ALVO_PCT\n"+
		"SOL;SHORT;abc;3\n"+
		"ADA;LONG;60\n")
	src := NewStudyCSVSource(path, logger.Nop())

	entries, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "SOL", entries[0].Pair)
	assert.Zero(t, entries[0].Percentile)
	assert.InDelta(t, 3, entries[0].TargetMovePct, 1e-9)

	assert.Equal(t, "ADA", entries[1].Pair)
	assert.InDelta(t, 60, entries[1].Percentile, 1e-9)
	assert.Zero(t, entries[1].TargetMovePct)
}

func TestStudyCSVKeepsUnknownSides(t *testing.T) {
	path := writeStudy(t, "PAR;LADO;PERCENTIL;ALVO_PCT\nETH;HOLD;50;3\n")
	src := NewStudyCSVSource(path, logger.Nop())

	entries, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "HOLD", entries[0].Side)
}

func TestStudyCSVMissingFile(t *testing.T) {
	src := NewStudyCSVSource(filepath.Join(t.TempDir(), "nope.csv"), logger.Nop())
	_, err := src.Load(context.Background())
	require.Error(t, err)
}
