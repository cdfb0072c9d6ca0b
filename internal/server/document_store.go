package server

import (
	"sync"

	"github.com/antimonylang/antimony-ls/internal/session"
)

// Document represents an open document in the workspace. The Session
// owns the document's text, version, and derived semantic snapshot.
type Document struct {
	URI        string
	LanguageID string
	Session    *session.Session
}

// DocumentStore manages all open documents.
type DocumentStore struct {
	documents map[string]*Document
	mu        sync.RWMutex
}

// NewDocumentStore creates a new document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]*Document),
	}
}

// Open creates (or replaces) the document for uri and returns it.
func (ds *DocumentStore) Open(uri, languageID string) *Document {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	doc := &Document{
		URI:        uri,
		LanguageID: languageID,
		Session:    session.New(),
	}
	ds.documents[uri] = doc

	return doc
}

// Get retrieves a document by URI.
func (ds *DocumentStore) Get(uri string) (*Document, bool) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	doc, ok := ds.documents[uri]

	return doc, ok
}

// Delete removes a document from the store.
func (ds *DocumentStore) Delete(uri string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	delete(ds.documents, uri)
}

// List returns all document URIs.
func (ds *DocumentStore) List() []string {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	uris := make([]string, 0, len(ds.documents))
	for uri := range ds.documents {
		uris = append(uris, uri)
	}

	return uris
}

// Clear removes all documents from the store.
func (ds *DocumentStore) Clear() {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	ds.documents = make(map[string]*Document)
}
