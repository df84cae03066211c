package outfit

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/arthur-debert/outfit/pkg/errors"
	"github.com/pterm/pterm"
)

// PrintError writes a fatal error with its code and details.
func PrintError(w io.Writer, err error) {
	message := err.Error()
	code := errors.GetErrorCode(err)
	if code != errors.ErrUnknown {
		message = strings.TrimPrefix(message, "["+string(code)+"] ")
	}
	pterm.Error.WithWriter(w).Println(message)

	details := errors.GetErrorDetails(err)
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		pterm.Fprintln(w, pterm.Gray(fmt.Sprintf("  %s: %v", k, details[k])))
	}
	if code != errors.ErrUnknown {
		pterm.Fprintln(w, pterm.Gray(fmt.Sprintf("  code: %s", code)))
	}
}
