// Package upload sends a single file or URL to the upload endpoint as a multipart form POST.
//
// # Wire format
//
// The request body carries exactly one of two fields:
//   - file : the raw bytes of a local file, with its original filename and content type
//   - url  : the raw text of a URL
//
// The endpoint answers with a JSON object holding a "message" string. The HTTP status decides
// whether the upload succeeded; the message is surfaced verbatim either way.
//
// # Error Handling
//
// [Client.Upload] returns a [Response] for any HTTP answer with a readable JSON body, including
// non-2xx ones. Everything else is an error:
//   - [shared.ErrAPIRequest] : the request could not be built or completed
//   - [shared.ErrMalformedResponse] : the body was unreadable or not the expected JSON
//
// No retries are attempted. A [rate.Limiter] spaces consecutive uploads.
package upload
