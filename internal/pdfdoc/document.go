// Package pdfdoc wraps PDF decoding behind a small read-only accessor.
//
// Two decoders share the work: github.com/ledongthuc/pdf supplies the text
// layer (per-glyph content items with font metadata), and pdfcpu supplies
// everything that lives outside content streams (bookmark outline, document
// info dictionary, embedded images). Neither path ever writes to the source.
package pdfdoc

import (
	"fmt"
	"os"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Metadata holds the document info dictionary as free-form strings.
// Values are reported as-is; nothing here is validated.
type Metadata struct {
	Title        string `json:"title,omitempty"`
	Author       string `json:"author,omitempty"`
	Subject      string `json:"subject,omitempty"`
	Creator      string `json:"creator,omitempty"`
	Producer     string `json:"producer,omitempty"`
	CreationDate string `json:"creationDate,omitempty"`
	ModDate      string `json:"modDate,omitempty"`
}

// Document is an immutable handle to an opened PDF. Open once, read many
// times, Close when structure resolution and content extraction are done.
type Document struct {
	path      string
	textFile  *os.File
	reader    *pdflib.Reader
	ctxFile   *os.File
	ctx       *model.Context
	pageCount int
	meta      Metadata
}

// Open opens the PDF at path for reading. A missing, corrupt, or encrypted
// file fails with *OpenError.
func Open(path string) (*Document, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}

	cf, err := os.Open(path)
	if err != nil {
		f.Close()
		return nil, &OpenError{Path: path, Err: err}
	}
	ctx, err := api.ReadValidateAndOptimize(cf, model.NewDefaultConfiguration())
	if err != nil {
		f.Close()
		cf.Close()
		return nil, &OpenError{Path: path, Err: fmt.Errorf("pdfcpu read: %w", err)}
	}

	return &Document{
		path:      path,
		textFile:  f,
		reader:    reader,
		ctxFile:   cf,
		ctx:       ctx,
		pageCount: reader.NumPage(),
		meta: Metadata{
			Title:        ctx.Title,
			Author:       ctx.Author,
			Subject:      ctx.Subject,
			Creator:      ctx.Creator,
			Producer:     ctx.Producer,
			CreationDate: ctx.XRefTable.CreationDate,
			ModDate:      ctx.ModDate,
		},
	}, nil
}

// Path returns the source file path.
func (d *Document) Path() string { return d.path }

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int { return d.pageCount }

// Metadata returns the document info dictionary.
func (d *Document) Metadata() Metadata { return d.meta }

// Close releases both underlying readers. The Document must not be used
// afterwards.
func (d *Document) Close() error {
	err := d.textFile.Close()
	if cerr := d.ctxFile.Close(); err == nil {
		err = cerr
	}
	return err
}
