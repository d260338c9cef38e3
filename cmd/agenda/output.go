package main

import (
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/and161185/agenda/internal/result"
	"github.com/and161185/agenda/internal/validate"
)

// errFailed marks a command whose envelope was printed with ok=false.
var errFailed = errors.New("operation failed")

// emit prints the envelope as indented JSON and reports failed envelopes.
func emit[T any](w io.Writer, res result.Result[T]) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return err
	}
	if !res.OK {
		return errFailed
	}
	return nil
}

// field maps a command flag onto an input key.
type field struct {
	flag string
	key  string
}

// inputFrom collects the flags the user actually set. An explicitly empty
// value is passed as nil so updates can clear optional fields.
func inputFrom(cmd *cobra.Command, fields ...field) validate.Input {
	fs := cmd.Flags()
	in := validate.Input{}
	for _, f := range fields {
		fl := fs.Lookup(f.flag)
		if fl == nil || !fl.Changed {
			continue
		}
		v := fl.Value.String()
		switch {
		case v == "":
			in[f.key] = nil
		case fl.Value.Type() == "int":
			n, _ := fs.GetInt(f.flag)
			in[f.key] = n
		default:
			in[f.key] = v
		}
	}
	return in
}

// tomorrowAt returns a time on the day after now, at the given hour, in UTC.
func tomorrowAt(now time.Time, hour int) time.Time {
	d := now.UTC().AddDate(0, 0, 1)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.UTC)
}
