package txn

import "github.com/pkg/errors"

// ErrNotClosed is the "user program misuse" error of spec.md §7: Run
// returned without calling Commit or Abort. Declared as a package-level
// sentinel the way the teacher's pkg/a_misc/errmsg and the original
// pkg/txn/z_error.go both declare their errors.
var ErrNotClosed = errors.New("txn: Run returned without signalling commit or abort")
