// Package loader reads syntax-tree documents from JSON files or txtar
// bundles, validates them against DocumentSchema and decodes them.
package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/tools/txtar"

	"github.com/unbound-force/stubmock/internal/syntax"
)

const schemaResource = "syntax-document.json"

// ErrNotDocument is wrapped by Decode errors for data that is not JSON
// or does not match DocumentSchema.
var ErrNotDocument = errors.New("not a syntax document")

// Loader decodes input documents. It is safe for concurrent use.
type Loader struct {
	schema *jsonschema.Schema
}

// New compiles the embedded document schema.
func New() (*Loader, error) {
	sch, err := jsonschema.UnmarshalJSON(strings.NewReader(DocumentSchema))
	if err != nil {
		return nil, fmt.Errorf("parsing document schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaResource, sch); err != nil {
		return nil, fmt.Errorf("adding document schema: %w", err)
	}
	compiled, err := c.Compile(schemaResource)
	if err != nil {
		return nil, fmt.Errorf("compiling document schema: %w", err)
	}
	return &Loader{schema: compiled}, nil
}

// Load reads the input at path. A .txtar bundle yields one document per
// .json member; any other file is decoded as a single JSON document.
func (l *Loader) Load(path string) ([]*syntax.Document, error) {
	if strings.EqualFold(filepath.Ext(path), ".txtar") {
		return l.LoadArchive(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document %q: %w", path, err)
	}
	doc, err := l.Decode(path, data)
	if err != nil {
		return nil, err
	}
	return []*syntax.Document{doc}, nil
}

// LoadArchive decodes every .json member of the txtar bundle at path,
// in archive order. Other members are ignored.
func (l *Loader) LoadArchive(path string) ([]*syntax.Document, error) {
	ar, err := txtar.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bundle %q: %w", path, err)
	}
	return l.DecodeArchive(path, ar)
}

// DecodeArchive decodes every .json member of ar. name identifies the
// bundle in error messages.
func (l *Loader) DecodeArchive(name string, ar *txtar.Archive) ([]*syntax.Document, error) {
	var docs []*syntax.Document
	for _, f := range ar.Files {
		if !strings.EqualFold(filepath.Ext(f.Name), ".json") {
			continue
		}
		doc, err := l.Decode(name+"#"+f.Name, f.Data)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("bundle %q contains no .json documents", name)
	}
	return docs, nil
}

// Decode validates data against DocumentSchema and decodes it. name
// identifies the document in error messages.
func (l *Loader) Decode(name string, data []byte) (*syntax.Document, error) {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing document %q: %w: %w", name, ErrNotDocument, err)
	}
	if err := l.schema.Validate(inst); err != nil {
		return nil, fmt.Errorf("document %q does not match the syntax schema: %w: %w", name, ErrNotDocument, err)
	}

	var doc syntax.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding document %q: %w", name, err)
	}
	return &doc, nil
}
