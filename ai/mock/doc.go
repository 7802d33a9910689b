// Package mock provides test doubles for the ai interfaces.
// The default behaviors are deterministic so tests can rely on stable
// vectors and answers without network access.
package mock
