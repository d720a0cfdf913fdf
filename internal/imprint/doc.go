// Package imprint defines the central Definition entity: the complete,
// internally consistent description of a publishing imprint that every
// downstream component (validators, artifact generators, promotion) consumes.
//
// Definitions are plain values. Pipeline stages take a definition and return
// a new one; nothing in this package mutates shared state. The Name field is
// the stable store key and is immutable once a definition has been persisted.
//
// Enumerated vocabulary (trim sizes, genre families) lives here so that the
// schema validator, the consistency checker, and the expansion defaults all
// agree on the same value sets.
package imprint
