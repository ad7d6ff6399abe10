package lspserver

import (
	"fmt"
	"net/url"
	"path/filepath"
)

// uriToPath converts a file:// URI, as sent by an LSP client, to a local
// filesystem path. Only the file scheme is supported; anything else is
// rejected since this server only ever analyzes on-disk source trees.
func uriToPath(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parse URI %q: %w", uri, err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("not a file URI: %s", uri)
	}
	return filepath.FromSlash(u.Path), nil
}

// pathToURI is the inverse of uriToPath, used to turn a client's legacy
// rootPath into a URI when no rootUri or workspace folders were sent.
func pathToURI(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}
