package diagram

import (
	"os"

	"github.com/stateviz/stateviz/pkg/schema"
)

// WriteFile writes rendered diagram text to the named file. This is the
// only I/O boundary of the package; failures carry the underlying
// system error and are never retried.
func WriteFile(path string, rendered string) error {
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return schema.NewErrorf(schema.ErrCodeIO, "write diagram to %s", path).WithCause(err)
	}
	return nil
}
