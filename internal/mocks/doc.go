// Package mocks holds exported test doubles shared across packages: a
// recording platform client and an in-memory game store. Packages that only
// need a double locally keep it in their own _test files instead.
package mocks
