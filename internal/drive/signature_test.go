package drive

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, height/2, color.Black)
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalizeSignaturePassThrough(t *testing.T) {
	out, err := NormalizeSignature(encodePNG(t, 300, 100))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
}

func TestNormalizeSignatureScalesDown(t *testing.T) {
	out, err := NormalizeSignature(encodePNG(t, 1200, 400))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, maxSignatureWidth, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestNormalizeSignatureRejectsGarbage(t *testing.T) {
	_, err := NormalizeSignature([]byte("not an image"))
	assert.Error(t, err)
}

func TestMemStoreRoundTrip(t *testing.T) {
	store := NewMemStore()
	ctx := t.Context()

	meta, err := store.Upload(ctx, "laporan.pdf", "laporan bulanan", "application/pdf", bytes.NewReader([]byte("content")))
	require.NoError(t, err)
	require.NotEmpty(t, meta.ID)

	got, err := store.Metadata(ctx, meta.ID)
	require.NoError(t, err)
	assert.Equal(t, "laporan.pdf", got.Name)
	assert.EqualValues(t, 7, got.Size)

	updated, err := store.UpdateContent(ctx, meta.ID, "laporan-v2.pdf", "", bytes.NewReader([]byte("new content")))
	require.NoError(t, err)
	assert.Equal(t, "laporan-v2.pdf", updated.Name)
	assert.EqualValues(t, 11, updated.Size)

	require.NoError(t, store.StampSignature(ctx, meta.ID, []byte{1}, SignaturePlacement{Page: 1}))
	assert.Len(t, store.Stamps(meta.ID), 1)

	_, err = store.Metadata(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
