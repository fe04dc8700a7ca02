package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"slices"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	formatText   = "text"
	formatJSON   = "json"
	formatYAML   = "yaml"
	formatNDJSON = "ndjson"
	formatTable  = "table"
)

// tabPadding is the column padding of table output.
const tabPadding = 2

// resultMetadataField is the SDK's per-response middleware metadata. It has
// no exported content and is dropped from output.
const resultMetadataField = "ResultMetadata"

// tableColumnOrder puts the identifying columns of pipe summaries first.
//
//nolint:gochecknoglobals // Read-only lookup table.
var tableColumnOrder = []string{
	"Name", "CurrentState", "DesiredState", "StateReason",
	"Source", "Target", "Enrichment", "Arn", "CreationTime", "LastModifiedTime",
}

// emitter writes selected values one at a time, so a paginated command
// prints each page as soon as it arrives. A nil value prints nothing.
type emitter interface {
	Emit(v any) error
	Flush() error
}

// newEmitter returns the emitter for format.
func newEmitter(format string, w io.Writer) emitter {
	switch format {
	case formatJSON:
		return &jsonEmitter{w: w, indent: true}
	case formatNDJSON:
		return &jsonEmitter{w: w}
	case formatYAML:
		return &yamlEmitter{enc: yaml.NewEncoder(w)}
	case formatTable:
		return &tableEmitter{w: w}
	default:
		return &textEmitter{w: w}
	}
}

// encodeJSON renders v as JSON with SDK metadata removed.
func encodeJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding output: %w", err)
	}
	if gjson.GetBytes(raw, resultMetadataField).Exists() {
		if raw, err = sjson.DeleteBytes(raw, resultMetadataField); err != nil {
			return nil, fmt.Errorf("encoding output: %w", err)
		}
	}
	return raw, nil
}

// genericValue renders v as the maps, slices and scalars of its JSON form.
func genericValue(v any) (any, error) {
	raw, err := encodeJSON(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err = json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding output: %w", err)
	}
	return out, nil
}

// scalarString formats v when it is a scalar, dereferencing pointers.
func scalarString(v any) (string, bool) {
	if t, ok := v.(time.Time); ok {
		return t.Format(time.RFC3339), true
	}
	if t, ok := v.(*time.Time); ok && t != nil {
		return t.Format(time.RFC3339), true
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", true
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), true
	default:
		return "", false
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// textEmitter prints scalars plainly and everything else as indented JSON.
type textEmitter struct {
	w io.Writer
}

func (e *textEmitter) Emit(v any) error {
	if isNil(v) {
		return nil
	}
	if s, ok := scalarString(v); ok {
		_, err := fmt.Fprintln(e.w, s)
		return err
	}
	return writeIndentedJSON(e.w, v)
}

func (e *textEmitter) Flush() error { return nil }

func writeIndentedJSON(w io.Writer, v any) error {
	g, err := genericValue(v)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// jsonEmitter prints one JSON document per value, indented or one per line.
type jsonEmitter struct {
	w      io.Writer
	indent bool
}

func (e *jsonEmitter) Emit(v any) error {
	if isNil(v) {
		return nil
	}
	if e.indent {
		return writeIndentedJSON(e.w, v)
	}
	raw, err := encodeJSON(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(e.w, string(raw))
	return err
}

func (e *jsonEmitter) Flush() error { return nil }

// yamlEmitter prints a "---" separated YAML document per value.
type yamlEmitter struct {
	enc *yaml.Encoder
}

func (e *yamlEmitter) Emit(v any) error {
	if isNil(v) {
		return nil
	}
	g, err := genericValue(v)
	if err != nil {
		return err
	}
	if err = e.enc.Encode(g); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}

func (e *yamlEmitter) Flush() error {
	return e.enc.Close()
}

// tableEmitter prints lists of objects as rows and objects as key/value
// pairs. Nested values are shown as compact JSON.
type tableEmitter struct {
	w             io.Writer
	headerWritten bool
	columns       []string
}

func (e *tableEmitter) Emit(v any) error {
	if isNil(v) {
		return nil
	}
	if s, ok := scalarString(v); ok {
		_, err := fmt.Fprintln(e.w, s)
		return err
	}

	g, err := genericValue(v)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(e.w, 0, 0, tabPadding, ' ', 0)
	switch val := g.(type) {
	case []any:
		e.writeRows(tw, val)
	case map[string]any:
		writeKeyValues(tw, val)
	default:
		fmt.Fprintln(tw, cellString(val))
	}
	return tw.Flush()
}

func (e *tableEmitter) Flush() error { return nil }

// writeRows prints one row per element. Columns are fixed by the first page
// so that later pages line up under the same header.
func (e *tableEmitter) writeRows(tw io.Writer, rows []any) {
	if len(rows) == 0 {
		return
	}
	if !e.headerWritten {
		e.columns = tableColumns(rows)
		header := make([]string, len(e.columns))
		for i, c := range e.columns {
			header[i] = strings.ToUpper(c)
		}
		fmt.Fprintln(tw, strings.Join(header, "\t"))
		e.headerWritten = true
	}

	for _, row := range rows {
		obj, ok := row.(map[string]any)
		if !ok {
			fmt.Fprintln(tw, cellString(row))
			continue
		}
		cells := make([]string, len(e.columns))
		for i, c := range e.columns {
			cells[i] = cellString(obj[c])
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
}

// tableColumns returns the keys holding a non-null scalar in rows, known
// columns first.
func tableColumns(rows []any) []string {
	seen := make(map[string]bool)
	for _, row := range rows {
		obj, ok := row.(map[string]any)
		if !ok {
			continue
		}
		for k, v := range obj {
			switch v.(type) {
			case nil, map[string]any, []any:
				continue
			}
			seen[k] = true
		}
	}

	var columns []string
	for _, c := range tableColumnOrder {
		if seen[c] {
			columns = append(columns, c)
			delete(seen, c)
		}
	}
	rest := make([]string, 0, len(seen))
	for k := range seen {
		rest = append(rest, k)
	}
	sort.Strings(rest)
	return slices.Concat(columns, rest)
}

func writeKeyValues(tw io.Writer, obj map[string]any) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintln(tw, "KEY\tVALUE")
	for _, k := range keys {
		fmt.Fprintf(tw, "%s\t%s\n", k, cellString(obj[k]))
	}
}

func cellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case map[string]any, []any:
		raw, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(raw)
	default:
		if s, ok := scalarString(val); ok {
			return s
		}
		return fmt.Sprint(val)
	}
}
