package native

import (
	"go.uber.org/zap"

	"github.com/wippyai/snpe-runtime/errors"
)

// Strings copies every entry of a native string list, in order, and releases
// the list. The release runs exactly once on every exit path, including a
// panic during extraction.
func Strings(api API, list Handle) ([]string, error) {
	if list == Null {
		return nil, errors.InvalidInput(errors.PhaseCatalog, "null string list")
	}
	defer releaseStrings(api, list)

	n := api.StringListSize(list)
	if n < 0 {
		return nil, errors.InvalidInput(errors.PhaseCatalog, "negative string list size")
	}

	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, api.StringListAt(list, i))
	}
	return out, nil
}

func releaseStrings(api API, list Handle) {
	if code := api.StringListDelete(list); code != errors.CodeSuccess {
		Logger().Warn("release string list",
			zap.Int32("code", int32(code)),
			zap.String("message", api.LastErrorString()),
		)
	}
}
