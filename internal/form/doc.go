// Package form implements the upload form controller: the selection state machine behind the
// file-or-URL upload form and its contract with the upload endpoint.
//
// # State
//
// [State] is an immutable snapshot. Every operation builds a new snapshot and swaps it in under a
// lock, so readers always see a consistent value. At most one of File and URL is set at a time;
// setting one clears the other (last write wins).
//
// # Operations
//
//   - [Controller.Select] : choose a local file, creating an image preview when the type is image/*
//   - [Controller.SetURL] : store typed text verbatim, dropping any file and preview
//   - [Controller.Submit] : validate, post once, and apply the outcome
//   - [Controller.Clear]  : reset everything and bump the reset token
//
// Submit is also available in three steps ([Controller.Prepare], [Controller.Send],
// [Controller.Complete]) for callers such as the TUI that run the network call off the UI loop.
//
// # Generations
//
// Generation increases on every selection transition. Complete applies an outcome only when the
// generation still matches the one captured by Prepare; otherwise the outcome is stale and dropped.
// ResetToken increases on Clear and on a successful upload and tells the presentation layer to
// discard state held by its input widgets.
//
// # Error Handling
//
//   - [ErrNothingSelected] : local validation failure, no request made
//   - [ErrSubmitInFlight] : a request is already outstanding
//
// Server rejections and transport failures are not returned as errors; they become the Status.
package form
