// Package transports provides the bundled file transports.
package transports

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/zjrosen/entrypoints/internal/loader"
)

func init() {
	loader.RegisterType(func() *LocalTransport { return &LocalTransport{} })
}

// LocalTransport copies files on the local filesystem.
type LocalTransport struct{}

// Put copies src to dst, creating dst's directory.
func (t *LocalTransport) Put(src, dst string) error {
	in, err := os.Open(src) //nolint:gosec // G304: caller-provided path
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return fmt.Errorf("creating destination directory: %w", err)
	}
	out, err := os.Create(dst) //nolint:gosec // G304: caller-provided path
	if err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copying: %w", err)
	}
	return out.Close()
}

func (t *LocalTransport) String() string { return "local transport" }
