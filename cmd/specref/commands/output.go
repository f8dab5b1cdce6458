package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"github.com/fujidana/specref/errors"
)

// entryRow is one line of a snippet or mnemonic listing
type entryRow struct {
	Name        string `json:"name" yaml:"name" toml:"name"`
	Signature   string `json:"signature" yaml:"signature" toml:"signature"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Snippet     string `json:"snippet,omitempty" yaml:"snippet,omitempty" toml:"snippet,omitempty"`
}

// entryList wraps rows so TOML has a top-level table to write into
type entryList struct {
	Entries []entryRow `json:"entries" yaml:"entries" toml:"entries"`
}

// writeEntries renders rows as a table or in a structured format
func writeEntries(w io.Writer, format string, rows []entryRow) error {
	switch format {
	case "table", "":
		data := pterm.TableData{{"Name", "Signature", "Description"}}
		for _, r := range rows {
			data = append(data, []string{r.Name, r.Signature, r.Description})
		}
		table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return errors.Wrap(err, "failed to render table")
		}
		fmt.Fprintln(w, table)
		return nil
	default:
		return writeStructured(w, format, entryList{Entries: rows})
	}
}

// writeStructured marshals v as json, yaml or toml
func writeStructured(w io.Writer, format string, v any) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case "json":
		data, err = json.MarshalIndent(v, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	case "yaml":
		data, err = yaml.Marshal(v)
	case "toml":
		data, err = toml.Marshal(v)
	default:
		return errors.NewInvalidRequestError("unsupported format: %s (supported: table, json, yaml, toml)", format)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to marshal %s", format)
	}
	_, err = w.Write(data)
	return err
}
