package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/deckpilot/deckpilot/constants"
	"github.com/deckpilot/deckpilot/internal/fingerprint"
	"github.com/deckpilot/deckpilot/internal/record"
)

func auditRecord(t *testing.T, path, hash, name string) *record.Record {
	t.Helper()
	return record.New(fingerprint.Key{Path: path, Hash: hash}, name)
}

func TestAuditXLSX_RendersNewestFirst(t *testing.T) {
	older := auditRecord(t, "/in/a.docx", "aaa", "a.docx")
	newer := auditRecord(t, "/in/b.pdf", "bbb", "b.pdf")
	newer.GenerationID = "gen-2"
	require.NoError(t, newer.AdvanceStatus(constants.StatusGenerating))
	require.NoError(t, newer.AdvanceStatus(constants.StatusCompleted))
	require.NoError(t, newer.MarkExported("/out/b_deck.pdf", "api"))

	raw, err := AuditXLSX([]*record.Record{older, newer}, testLogger())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	const sheet = "Generation Records"
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "File Name", rows[0][0])
	assert.Equal(t, "Status", rows[0][4])

	// newest record on the first data row
	assert.Equal(t, "b.pdf", rows[1][0])
	assert.Equal(t, "gen-2", rows[1][3])
	assert.Equal(t, "completed", rows[1][4])
	assert.Equal(t, "exported", rows[1][6])
	assert.Equal(t, "api", rows[1][7])
	assert.Equal(t, "/out/b_deck.pdf", rows[1][8])

	assert.Equal(t, "a.docx", rows[2][0])
	assert.Equal(t, "pending", rows[2][4])
}

func TestAuditXLSX_EmptyHistoryStillHasHeader(t *testing.T) {
	raw, err := AuditXLSX(nil, testLogger())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Generation Records")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "File Name", rows[0][0])
}
