package media

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultClassifier(t *testing.T) *Classifier {
	t.Helper()
	table, err := DefaultTable()
	require.NoError(t, err)
	return NewClassifier(table)
}

func TestClassifier_Refine(t *testing.T) {
	c := defaultClassifier(t)
	tests := []struct {
		name    string
		content string
		coarse  string
		want    string
	}{
		{
			name:    "alto v4 namespace",
			content: `<?xml version="1.0"?><alto xmlns="http://www.loc.gov/standards/alto/ns-v4#"><Layout/></alto>`,
			coarse:  TypeTextXML,
			want:    TypeALTO,
		},
		{
			name:    "alto v2 prefixed",
			content: `<a:alto xmlns:a="http://www.loc.gov/standards/alto/ns-v2#"/>`,
			coarse:  TypeAppXML,
			want:    TypeALTO,
		},
		{
			name:    "alto without namespace",
			content: `<alto><Layout/></alto>`,
			coarse:  TypeTextXML,
			want:    TypeALTO,
		},
		{
			name:    "pdf2xml doctype",
			content: "<?xml version=\"1.0\"?>\n<!DOCTYPE pdf2xml SYSTEM \"pdf2xml.dtd\">\n<pdf2xml producer=\"poppler\"><page number=\"1\"/></pdf2xml>",
			coarse:  TypeTextXML,
			want:    TypePdf2Xml,
		},
		{
			name:    "pdf2xml root only",
			content: `<pdf2xml><page number="1"/></pdf2xml>`,
			coarse:  TypeAppXML,
			want:    TypePdf2Xml,
		},
		{
			name:    "unknown xml stays generic",
			content: `<catalog><item/></catalog>`,
			coarse:  TypeTextXML,
			want:    TypeTextXML,
		},
		{
			name:    "not xml at all",
			content: `just text`,
			coarse:  TypeTextXML,
			want:    TypeTextXML,
		},
		{
			name:    "images are not inspected",
			content: `<alto/>`,
			coarse:  "image/jpeg",
			want:    "image/jpeg",
		},
		{
			name:    "already refined",
			content: `<pdf2xml/>`,
			coarse:  TypeALTO,
			want:    TypeALTO,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Refine(strings.NewReader(tt.content), tt.coarse))
		})
	}
}

func TestClassifier_NeedsContent(t *testing.T) {
	c := defaultClassifier(t)
	assert.True(t, c.NeedsContent(TypeTextXML))
	assert.True(t, c.NeedsContent(TypeAppXML))
	assert.True(t, c.NeedsContent("application/mets+xml"))
	assert.False(t, c.NeedsContent(TypeALTO))
	assert.False(t, c.NeedsContent("image/tiff"))
}

func TestNewTable_Validation(t *testing.T) {
	_, err := NewTable([]Signature{{Root: "x"}})
	assert.Error(t, err)
	_, err = NewTable([]Signature{{MediaType: "a/b"}})
	assert.Error(t, err)
	_, err = ParseTable([]byte(`{not json`))
	assert.Error(t, err)
}

func TestTable_LookupOrder(t *testing.T) {
	table, err := NewTable([]Signature{
		{Root: "doc", MediaType: "by/root"},
		{Namespace: "urn:x", MediaType: "by/ns"},
		{Doctype: "doc", MediaType: "by/doctype"},
	})
	require.NoError(t, err)

	got, ok := table.Lookup("doc", "urn:x:1", "doc")
	assert.True(t, ok)
	assert.Equal(t, "by/doctype", got)

	got, _ = table.Lookup("", "urn:x:1", "doc")
	assert.Equal(t, "by/ns", got)

	got, _ = table.Lookup("", "", "doc")
	assert.Equal(t, "by/root", got)

	_, ok = table.Lookup("", "", "other")
	assert.False(t, ok)
}
