// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): chat models, embedding services, the
// vector store, content loaders and the prompt store.
package driven
