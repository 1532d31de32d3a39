package graph

import (
	"sort"
)

// DocumentKind indicates what an emitted document represents
type DocumentKind string

const (
	KindAPI   DocumentKind = "API"   // registration source
	KindPage  DocumentKind = "Page"  // documentation page of a definition
	KindIndex DocumentKind = "Index" // documentation root index
)

// Document represents emitted output file
type Document struct {
	Kind    DocumentKind `json:"kind"`
	Path    string       `json:"path"` // path relative to output location
	Name    string       `json:"name"` // resolved name of the documented symbol
	Content []byte       `json:"content"`
	Hash    uint64       `json:"hash"`
}

// HashContent generates content hash
func (d *Document) HashContent() uint64 {
	hash, _ := Hash(d.Content)
	return hash
}

type Documents []*Document

// Append appends document computing its hash
func (d *Documents) Append(doc *Document) {
	doc.Hash = doc.HashContent()
	*d = append(*d, doc)
}

// Lookup returns document by path
func (d Documents) Lookup(path string) *Document {
	for _, doc := range d {
		if doc.Path == path {
			return doc
		}
	}
	return nil
}

// Count returns number of documents of kind
func (d Documents) Count(kind DocumentKind) int {
	count := 0
	for _, doc := range d {
		if doc.Kind == kind {
			count++
		}
	}
	return count
}

// Paths returns sorted document paths
func (d Documents) Paths() []string {
	var result []string
	for _, doc := range d {
		result = append(result, doc.Path)
	}
	sort.Strings(result)
	return result
}
