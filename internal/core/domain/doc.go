// Package domain contains the core business types for the fathom
// pipeline: documents and chunks, vector collections, conversation
// memory, blog generation state, provider settings and the typed errors
// shared across all layers. It has no dependencies on adapters.
package domain
