package media

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairEncoding(t *testing.T) {
	valid := []byte("déjà vu")
	assert.Equal(t, valid, RepairEncoding(valid))

	latin1 := []byte{'d', 0xe9, 'j', 0xe0}
	assert.Equal(t, "déjà", string(RepairEncoding(latin1)))

	cp1252 := []byte{0x93, 'q', 0x94}
	assert.Equal(t, "“q”", string(RepairEncoding(cp1252)))
}

func TestProbeImageSize_PNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 640, 480))))

	size, err := ProbeImageSize(&buf)
	require.NoError(t, err)
	assert.Equal(t, Size{Width: 640, Height: 480}, size)
}

func TestProbeImageSize_Garbage(t *testing.T) {
	_, err := ProbeImageSize(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}

func TestTypePredicates(t *testing.T) {
	assert.True(t, IsOCRType(TypeALTO))
	assert.True(t, IsOCRType(TypePdf2Xml))
	assert.False(t, IsOCRType(TypeTextXML))
	assert.True(t, IsGenericXML(TypeAppXML))
	assert.True(t, IsImageType("image/jp2"))
	assert.False(t, IsImageType("application/pdf"))
	assert.True(t, Size{Width: 1, Height: 1}.Known())
	assert.False(t, Size{Width: 1}.Known())
}
