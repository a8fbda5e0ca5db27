// Package preview hands out revocable references to in-memory image bytes.
//
// A [Ref] stands in for a browser object URL. The bytes stay reachable until [Store.Revoke] is
// called, and [Store.Live] reports how many references are outstanding.
//
// [Store.Render] paints a scaled copy of the image in half-block cells for display in a terminal.
package preview
