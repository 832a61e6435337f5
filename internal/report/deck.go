package report

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"image/png"
	"io"
	"time"
)

// ReportFileName is the fixed download name for the generated deck.
const ReportFileName = "Factory_JMP_Report.pptx"

// MIMEType is the presentation content type served with the deck.
const MIMEType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

// Deck is a presentation: an ordered list of slides, each a title with
// a pair of labeled chart images.
type Deck struct {
	Slides []Slide
}

// Slide is one content slide of the deck.
type Slide struct {
	Title  string
	Images []SlideImage
}

// SlideImage is a labeled PNG placed on a slide.
type SlideImage struct {
	Label string
	PNG   []byte
}

// emu converts inches to English Metric Units, the OOXML coordinate unit.
func emu(inches float64) int64 {
	return int64(inches * 914400)
}

// Slide geometry, in inches, mirroring the reviewed report layout:
// title band on top, auto-scale image left, fixed-scale image right.
const (
	slideWidthIn  = 10.0
	slideHeightIn = 7.5
	imageWidthIn  = 4.8
	imageTopIn    = 1.5
	labelTopIn    = 1.2
)

var imageLeftIn = []float64{0.2, 5.1}
var labelLeftIn = []float64{1.5, 6.5}

// WriteTo streams the deck as a minimal PPTX (OOXML) package. The
// writer emits only the parts PowerPoint requires to open the file:
// content types, package relationships, presentation, one blank
// master/layout/theme chain, and the content slides with their media.
func (d *Deck) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)

	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", d.contentTypes()},
		{"_rels/.rels", []byte(packageRels)},
		{"docProps/core.xml", d.coreProps()},
		{"docProps/app.xml", []byte(appProps)},
		{"ppt/presentation.xml", d.presentation()},
		{"ppt/_rels/presentation.xml.rels", d.presentationRels()},
		{"ppt/slideMasters/slideMaster1.xml", []byte(slideMasterXML)},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", []byte(slideMasterRels)},
		{"ppt/slideLayouts/slideLayout1.xml", []byte(slideLayoutXML)},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", []byte(slideLayoutRels)},
		{"ppt/theme/theme1.xml", []byte(themeXML)},
	}

	imageIdx := 1
	for si, slide := range d.Slides {
		slideXML, relsXML, media, err := d.slideParts(slide, imageIdx)
		if err != nil {
			return cw.n, fmt.Errorf("slide %d: %w", si+1, err)
		}
		parts = append(parts,
			struct {
				name string
				data []byte
			}{fmt.Sprintf("ppt/slides/slide%d.xml", si+1), slideXML},
			struct {
				name string
				data []byte
			}{fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", si+1), relsXML},
		)
		for _, m := range media {
			parts = append(parts, struct {
				name string
				data []byte
			}{m.name, m.data})
		}
		imageIdx += len(slide.Images)
	}

	for _, part := range parts {
		f, err := zw.Create(part.name)
		if err != nil {
			return cw.n, fmt.Errorf("create %s: %w", part.name, err)
		}
		if _, err := f.Write(part.data); err != nil {
			return cw.n, fmt.Errorf("write %s: %w", part.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return cw.n, fmt.Errorf("finalize package: %w", err)
	}
	return cw.n, nil
}

// Bytes renders the deck into memory.
func (d *Deck) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type mediaPart struct {
	name string
	data []byte
}

// slideParts builds one slide's XML, its relationship part, and its
// media files. imageIdx numbers media files across the whole deck.
func (d *Deck) slideParts(slide Slide, imageIdx int) ([]byte, []byte, []mediaPart, error) {
	var shapes bytes.Buffer
	shapeID := 2

	fmt.Fprintf(&shapes, slideTitleTmpl,
		shapeID, emu(0.5), emu(0.2), emu(9.0), emu(1.0), xmlEscape(slide.Title))
	shapeID++

	var rels bytes.Buffer
	rels.WriteString(xml.Header)
	rels.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	rels.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>`)

	var media []mediaPart
	for i, img := range slide.Images {
		if i >= len(imageLeftIn) {
			break
		}
		widthIn := imageWidthIn
		heightIn := widthIn * 0.75
		if cfg, err := png.DecodeConfig(bytes.NewReader(img.PNG)); err == nil && cfg.Width > 0 {
			heightIn = widthIn * float64(cfg.Height) / float64(cfg.Width)
		}

		relID := fmt.Sprintf("rId%d", i+2)
		mediaName := fmt.Sprintf("ppt/media/image%d.png", imageIdx+i)

		fmt.Fprintf(&shapes, slideLabelTmpl,
			shapeID, emu(labelLeftIn[i]), emu(labelTopIn), emu(2.0), emu(0.5), xmlEscape(img.Label))
		shapeID++
		fmt.Fprintf(&shapes, slidePicTmpl,
			shapeID, shapeID, relID, emu(imageLeftIn[i]), emu(imageTopIn), emu(widthIn), emu(heightIn))
		shapeID++

		rels.WriteString(fmt.Sprintf(`<Relationship Id="%s" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="../media/image%d.png"/>`, relID, imageIdx+i))
		media = append(media, mediaPart{name: mediaName, data: img.PNG})
	}
	rels.WriteString(`</Relationships>`)

	var sld bytes.Buffer
	sld.WriteString(xml.Header)
	fmt.Fprintf(&sld, slideTmpl, shapes.String())

	return sld.Bytes(), rels.Bytes(), media, nil
}

func (d *Deck) contentTypes() []byte {
	var b bytes.Buffer
	b.WriteString(xml.Header)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	b.WriteString(`<Default Extension="png" ContentType="image/png"/>`)
	b.WriteString(`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>`)
	for i := range d.Slides {
		b.WriteString(fmt.Sprintf(`<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i+1))
	}
	b.WriteString(`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>`)
	b.WriteString(`<Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>`)
	b.WriteString(`</Types>`)
	return b.Bytes()
}

func (d *Deck) presentation() []byte {
	var b bytes.Buffer
	b.WriteString(xml.Header)
	b.WriteString(`<p:presentation xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`)
	b.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	b.WriteString(`<p:sldIdLst>`)
	for i := range d.Slides {
		b.WriteString(fmt.Sprintf(`<p:sldId id="%d" r:id="rId%d"/>`, 256+i, i+2))
	}
	b.WriteString(`</p:sldIdLst>`)
	fmt.Fprintf(&b, `<p:sldSz cx="%d" cy="%d" type="screen4x3"/><p:notesSz cx="%d" cy="%d"/>`,
		emu(slideWidthIn), emu(slideHeightIn), emu(slideHeightIn), emu(slideWidthIn))
	b.WriteString(`</p:presentation>`)
	return b.Bytes()
}

func (d *Deck) presentationRels() []byte {
	var b bytes.Buffer
	b.WriteString(xml.Header)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	b.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="slideMasters/slideMaster1.xml"/>`)
	for i := range d.Slides {
		b.WriteString(fmt.Sprintf(`<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide%d.xml"/>`, i+2, i+1))
	}
	b.WriteString(fmt.Sprintf(`<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme" Target="theme/theme1.xml"/>`, len(d.Slides)+2))
	b.WriteString(`</Relationships>`)
	return b.Bytes()
}

func (d *Deck) coreProps() []byte {
	now := time.Now().UTC().Format(time.RFC3339)
	return []byte(xml.Header + `<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` +
		`<dc:title>Factory Optical Test Report</dc:title>` +
		`<dcterms:created xsi:type="dcterms:W3CDTF">` + now + `</dcterms:created>` +
		`<dcterms:modified xsi:type="dcterms:W3CDTF">` + now + `</dcterms:modified>` +
		`</cp:coreProperties>`)
}

// xmlEscape escapes a string for embedding in element text.
func xmlEscape(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
