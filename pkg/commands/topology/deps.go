// Package topology provides CLI commands for generating the messaging topology.
package topology

import (
	"io"
	"os"

	"github.com/wxrp-bridge/omnichain-deployments/topology"
)

// ProfileResolverFunc resolves a preset name or profile set file.
type ProfileResolverFunc func(nameOrPath string) (topology.ProfileSet, error)

// DocumentWriterFunc opens the destination of a generated document.
type DocumentWriterFunc func(path string) (io.WriteCloser, error)

// defaultDocumentWriter creates or truncates the file at path.
func defaultDocumentWriter(path string) (io.WriteCloser, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644) //nolint:gosec // generated documents are public
}

// Deps holds the injectable dependencies for topology commands.
// All fields are optional; nil values will use production defaults.
type Deps struct {
	// ProfileResolver resolves the --profiles flag.
	// Default: topology.ResolveProfileSet
	ProfileResolver ProfileResolverFunc

	// DocumentWriter opens the --out file.
	// Default: os.OpenFile
	DocumentWriter DocumentWriterFunc
}

// applyDefaults fills in nil dependencies with production defaults.
func (d *Deps) applyDefaults() {
	if d.ProfileResolver == nil {
		d.ProfileResolver = topology.ResolveProfileSet
	}
	if d.DocumentWriter == nil {
		d.DocumentWriter = defaultDocumentWriter
	}
}
