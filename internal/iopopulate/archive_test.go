package iopopulate

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeArchive builds a small SQLite archive with the tables populate
// expects.
func makeArchive(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "dataset.sqlite")
	archiveDB, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer archiveDB.Close()

	_, err = archiveDB.Exec(`
		CREATE TABLE pages (
			file_name TEXT NOT NULL,
			width INT NOT NULL,
			height INT NOT NULL,
			year TEXT,
			nr TEXT
		);
		CREATE TABLE annotations (
			category_id INT NOT NULL,
			bbox TEXT NOT NULL,
			file_name TEXT NOT NULL,
			width REAL,
			height REAL,
			percent_page REAL
		);
	`)
	require.NoError(t, err)

	_, err = archiveDB.Exec(`
		INSERT INTO pages VALUES
			('1897_page007.jpg', 2000, 2800, '1897', '7'),
			('1897_page008.jpg', 2000, 2800, NULL, NULL);
		INSERT INTO annotations VALUES
			(6, '[10, 20, 110, 220]', '1897_page007/anzeige_01',
			 640, 480, 0.25),
			(0, '[0, 0, 50, 50]', '1897_page008/foto_01',
			 NULL, NULL, NULL);
	`)
	require.NoError(t, err)

	return path
}

func TestReadArchive(t *testing.T) {
	path := makeArchive(t)

	archiveDB, err := openArchive(path)
	require.NoError(t, err)
	defer archiveDB.Close()

	pages, err := readArchivePages(archiveDB)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "1897_page007", pages[0].FileName)
	assert.Equal(t, "1897", pages[0].Year)
	assert.Empty(t, pages[1].Year)

	anns, err := readArchiveAnnotations(archiveDB)
	require.NoError(t, err)
	require.Len(t, anns, 2)

	require.NotNil(t, anns[0].Size)
	assert.Equal(t, [2]float64{640, 480}, *anns[0].Size)
	require.NotNil(t, anns[0].PercentPage)
	assert.InDelta(t, 0.25, *anns[0].PercentPage, 1e-9)

	assert.Nil(t, anns[1].Size)
	assert.Nil(t, anns[1].PercentPage)
	assert.InDelta(t, 50, anns[1].BBox.Width(), 1e-9)
}

func TestOpenArchiveMissing(t *testing.T) {
	_, err := openArchive(filepath.Join(t.TempDir(), "nope.sqlite"))
	assert.Error(t, err)
}

func TestReadArchiveBadBBox(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.sqlite")
	archiveDB, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer archiveDB.Close()

	_, err = archiveDB.Exec(`
		CREATE TABLE annotations (
			category_id INT, bbox TEXT, file_name TEXT,
			width REAL, height REAL, percent_page REAL
		);
		INSERT INTO annotations VALUES (0, 'not json', 'x', 1, 1, 0);
	`)
	require.NoError(t, err)

	_, err = readArchiveAnnotations(archiveDB)
	assert.Error(t, err)
}
