package lspsrv

import (
	"strings"

	"go.lsp.dev/protocol"
)

// uriToPath strips the file:// scheme an LSP client always sends for
// local files. This set of editors never hands us anything else.
func uriToPath(uri protocol.DocumentURI) string {
	return strings.TrimPrefix(string(uri), "file://")
}

// pathToURI is the inverse of uriToPath, used when building responses.
func pathToURI(path string) protocol.DocumentURI {
	if strings.HasPrefix(path, "file://") {
		return protocol.DocumentURI(path)
	}
	return protocol.DocumentURI("file://" + path)
}
