// Package table implements the stable-handle, dense-compacted column store
// shared by every row table in this module (nodes, links, fragments, scene
// entities). Handles are small non-zero integers; index 0 is a reserved
// degenerate slot that always resolves to a valid, default-valued row.
package table
