// Package extractor pulls YouTube video identifiers out of arbitrary text.
//
// [ExtractVideoID] is pure and never fails loudly: unrecognized input yields ok == false and callers
// simply skip the thumbnail preview. [ThumbnailURL] maps an identifier onto the public i.ytimg.com
// thumbnail for that video.
package extractor
