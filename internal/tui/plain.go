package tui

import (
	"fmt"
	"io"

	"github.com/waabox/plugforge/internal/domain"
)

// PlainObserver writes one line per progress update to w. It is used when
// output is not a terminal.
func PlainObserver(w io.Writer) domain.Observer {
	return func(u domain.ProgressUpdate) {
		switch {
		case u.Step == domain.StepError:
			fmt.Fprintf(w, "[error] %s: %s\n", u.Message, u.Error)
		case u.Status == domain.StatusInProgress:
			fmt.Fprintf(w, "[%s] %s\n", u.Step, u.Message)
		default:
			fmt.Fprintf(w, "[%s] %s (%s)\n", u.Step, u.Message, u.Status)
		}
	}
}
