// Package httpapi exposes the wound analysis pipeline over HTTP.
//
// The server accepts a single photograph per request, runs the full
// pipeline against it, and returns either one rendered artifact
// (POST /upload) or just the predicted PWAT score (POST /upload/pwat).
// Uploads and rendered responses are staged in a temp directory and
// deleted shortly after the response is served.
package httpapi
