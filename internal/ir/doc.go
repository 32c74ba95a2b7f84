// Package ir provides the data model shared by every stage of the avrconf
// engine: raw configuration entries produced by the parser, attribute values,
// and the resolved programmer and part records served by the index.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Attribute values are a closed set: String, Int, Bytes and Block
//   - Attributes preserve declaration order and are immutable once built
//   - Records are values; handing one out never exposes index state
//   - A Signature is an opaque 3-byte key, never compared as a number
package ir
