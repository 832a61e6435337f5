package report

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeckWritesValidPackage(t *testing.T) {
	r := NewRenderer(DefaultStyle(), nil)
	cs, err := r.RenderAll(testDataset())
	require.NoError(t, err)

	data, err := BuildDeck(cs).Bytes()
	require.NoError(t, err)
	require.NotEmpty(t, data)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err, "deck must be a readable zip package")

	names := make(map[string]bool, len(zr.File))
	for _, f := range zr.File {
		names[f.Name] = true
	}

	for _, want := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"ppt/presentation.xml",
		"ppt/slideMasters/slideMaster1.xml",
		"ppt/slideLayouts/slideLayout1.xml",
		"ppt/theme/theme1.xml",
		"ppt/slides/slide1.xml",
		"ppt/slides/slide2.xml",
		"ppt/slides/slide3.xml",
	} {
		assert.True(t, names[want], "missing package part %s", want)
	}

	// Three slides x two images each.
	images := 0
	for name := range names {
		if strings.HasPrefix(name, "ppt/media/image") {
			images++
		}
	}
	assert.Equal(t, 6, images)
}

func TestDeckSlideContent(t *testing.T) {
	deck := &Deck{Slides: []Slide{
		{
			Title: "Control Chart (AfterBaking)",
			Images: []SlideImage{
				{Label: "Auto Scale", PNG: tinyPNG(t)},
				{Label: "Fixed Scale", PNG: tinyPNG(t)},
			},
		},
	}}

	data, err := deck.Bytes()
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	slideXML := readZipFile(t, zr, "ppt/slides/slide1.xml")
	assert.Contains(t, slideXML, "Control Chart (AfterBaking)")
	assert.Contains(t, slideXML, "Auto Scale")
	assert.Contains(t, slideXML, "Fixed Scale")
	assert.Contains(t, slideXML, `r:embed="rId2"`)
	assert.Contains(t, slideXML, `r:embed="rId3"`)

	rels := readZipFile(t, zr, "ppt/slides/_rels/slide1.xml.rels")
	assert.Contains(t, rels, "../media/image1.png")
	assert.Contains(t, rels, "../media/image2.png")
}

func TestDeckEscapesTitles(t *testing.T) {
	deck := &Deck{Slides: []Slide{
		{Title: "Spec <0.25 & >-0.25", Images: []SlideImage{
			{Label: "Auto Scale", PNG: tinyPNG(t)},
			{Label: "Fixed Scale", PNG: tinyPNG(t)},
		}},
	}}

	data, err := deck.Bytes()
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	slideXML := readZipFile(t, zr, "ppt/slides/slide1.xml")
	assert.Contains(t, slideXML, "Spec &lt;0.25 &amp; &gt;-0.25")
}

func TestReportConstants(t *testing.T) {
	assert.Equal(t, "Factory_JMP_Report.pptx", ReportFileName)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.presentationml.presentation",
		MIMEType)
}

func readZipFile(t *testing.T, zr *zip.Reader, name string) string {
	t.Helper()
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(data)
	}
	t.Fatalf("zip member %s not found", name)
	return ""
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	r := NewRenderer(DefaultStyle(), nil)
	img, err := r.BoxPlot(testDataset(), "fixture", nil)
	require.NoError(t, err)
	return img
}
