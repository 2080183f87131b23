package navigator

import (
	"fmt"

	"github.com/ziadkadry99/learnhub/internal/fetcher"
)

// Explain returns the message shown in the content pane for a failed fetch.
func Explain(err *fetcher.Error) string {
	if err == nil {
		return ""
	}
	switch err.Kind {
	case fetcher.KindNotFound:
		return fmt.Sprintf("File not found: %s. Check the path in the catalog.", err.Path)
	case fetcher.KindNetwork:
		return "Cannot reach the server. Are you opening the hub via file:// instead of http://? Start it with `learnhub serve`."
	case fetcher.KindServer:
		if err.Status != 0 {
			return fmt.Sprintf("The server failed to return %s (HTTP %d).", err.Path, err.Status)
		}
		return fmt.Sprintf("The server failed to return %s: %v", err.Path, err.Err)
	default:
		return err.Error()
	}
}
