package pool

import "go.uber.org/multierr"

// appendErr accumulates independent close errors (e.g. from Pool.Close
// closing every idle connection) without losing any of them to a single
// "last error wins" return.
func appendErr(errs, err error) error {
	return multierr.Append(errs, err)
}
