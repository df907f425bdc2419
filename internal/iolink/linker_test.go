package iolink

import (
	"context"
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/seiten/pagedb/internal/iodb"
	"github.com/seiten/pagedb/internal/ioschema"
	"github.com/seiten/pagedb/internal/iostore"
	"github.com/seiten/pagedb/internal/iotesting"
	"github.com/seiten/pagedb/pkg/errcode"
	"github.com/seiten/pagedb/pkg/lifecycle"
	"github.com/seiten/pagedb/pkg/schema"
	"github.com/seiten/pagedb/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanErrorStructure(t *testing.T) {
	cause := errors.New("boom")
	err := ScanError("annotations", cause)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")

	assert.Equal(t, errcode.LinkScanError, gnErr.Code)
	assert.Equal(t, []any{"annotations"}, gnErr.Vars)
	assert.ErrorIs(t, gnErr.Err, cause)
}

func setupLinker(t *testing.T) (lifecycle.Linker, store.PageStore, store.AnnotationStore) {
	t.Helper()

	ctx := context.Background()
	cfg := iotesting.GetTestConfig()

	op := iodb.NewPgxOperator()
	err := op.Connect(ctx, &cfg.Database)
	require.NoError(t, err, "pagedb_test database should be reachable")
	t.Cleanup(func() { op.Close() })

	require.NoError(t, op.DropAllTables(ctx))
	require.NoError(t, ioschema.NewManager(op).Create(ctx, cfg))

	return New(op), iostore.NewPageStore(op), iostore.NewAnnotationStore(op)
}

func TestReconcileAll(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	linker, pages, anns := setupLinker(t)

	_, err := pages.Upsert(ctx, schema.Page{
		FileName: "1897_page007", Width: 2000, Height: 2800,
	})
	require.NoError(t, err)
	_, err = pages.Upsert(ctx, schema.Page{
		FileName: "1897_page008", Width: 2000, Height: 2800,
	})
	require.NoError(t, err)

	ins := []store.AnnotationInput{
		{CategoryID: 0, FileName: "1897_page007/anzeige_01",
			BBox: schema.NewBBox([]float64{0, 0, 10, 10})},
		{CategoryID: 1, FileName: "1897_page007/anzeige_02",
			BBox: schema.NewBBox([]float64{0, 0, 10, 10})},
		{CategoryID: 2, FileName: "1897_page008/anzeige_01",
			BBox: schema.NewBBox([]float64{0, 0, 10, 10})},
		{CategoryID: 3, FileName: "1899_page001/anzeige_01",
			BBox: schema.NewBBox([]float64{0, 0, 10, 10})},
	}

	n, err := anns.BulkInsert(ctx, ins, nil)
	require.NoError(t, err)
	require.Equal(t, 4, n)

	updated, err := linker.ReconcileAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, updated)

	// The annotation naming an absent page stays unlinked; the linker
	// never creates pages.
	unlinked, err := anns.Unlinked(ctx)
	require.NoError(t, err)
	require.Len(t, unlinked, 1)
	for _, name := range unlinked {
		assert.Equal(t, "1899_page001/anzeige_01", name)
	}

	got, err := anns.ByPage(ctx, "1897_page007")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestReconcileAllIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	linker, pages, anns := setupLinker(t)

	_, err := pages.Upsert(ctx, schema.Page{
		FileName: "1897_page007", Width: 2000, Height: 2800,
	})
	require.NoError(t, err)

	_, err = anns.BulkInsert(ctx, []store.AnnotationInput{
		{CategoryID: 0, FileName: "1897_page007/anzeige_01",
			BBox: schema.NewBBox([]float64{0, 0, 10, 10})},
	}, nil)
	require.NoError(t, err)

	first, err := linker.ReconcileAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	second, err := linker.ReconcileAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, second, "a second run must find nothing to update")
}

func TestReconcileAllEmpty(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	linker, _, _ := setupLinker(t)

	n, err := linker.ReconcileAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
