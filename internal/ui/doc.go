// Package ui implements the interactive upload form using bubbletea's Elm architecture.
//
// The screen is a single form:
//  1. navbar : static logo
//  2. file picker : browse and choose a local file
//  3. URL input : type or paste a link
//  4. preview : half-block image render, or the thumbnail URL of a YouTube link
//  5. status : outcome of the most recent upload
//
// All form state lives in a [form.Controller]; the [Model] holds only widget state and mirrors the
// controller's latest [form.State]. Uploads run as a tea.Cmd and report back through the Msg union.
// A changed reset token recreates the file picker so it forgets its selection.
//
// Keys use ctrl chords (ctrl+s upload, ctrl+r clear, ctrl+o open thumbnail, ctrl+c quit) with tab
// switching focus, so ordinary typing reaches the URL input.
package ui
