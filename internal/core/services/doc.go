// Package services implements the application's use cases: model
// resolution, ingestion, the vector library, map-reduce summarisation,
// retrieval QA and blog generation. Services depend only on the domain
// and the driven ports, never on concrete adapters.
package services
