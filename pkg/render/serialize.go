package render

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/arthur-debert/outfit/pkg/errors"
	"github.com/beevik/etree"
	"gopkg.in/yaml.v3"
)

// Serialize writes data in a structured mode. Pretty only affects JSON.
func Serialize(mode OutputMode, data interface{}, pretty bool) (string, error) {
	switch mode {
	case ModeJSON:
		return serializeJSON(data, pretty)
	case ModeYAML:
		return serializeYAML(data)
	case ModeXML:
		return serializeXML(data)
	case ModeCSV:
		return serializeCSV(data)
	default:
		return "", errors.Newf(errors.ErrSerialize, "%s is not a structured output mode", mode)
	}
}

// Normalize converts data into the generic shape serializers work on:
// map[string]interface{}, []interface{}, string, bool, int64, float64 and
// nil. Struct tags are honored through a JSON round trip.
func Normalize(data interface{}) (interface{}, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrSerialize, "data cannot be serialized")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out interface{}
	if err := dec.Decode(&out); err != nil {
		return nil, errors.Wrap(err, errors.ErrSerialize, "data cannot be serialized")
	}
	return convertNumbers(out), nil
}

func convertNumbers(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, item := range t {
			t[k] = convertNumbers(item)
		}
		return t
	case []interface{}:
		for i, item := range t {
			t[i] = convertNumbers(item)
		}
		return t
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	default:
		return v
	}
}

func serializeJSON(data interface{}, pretty bool) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(data); err != nil {
		return "", errors.Wrap(err, errors.ErrSerialize, "failed to encode JSON")
	}
	return buf.String(), nil
}

func serializeYAML(data interface{}) (string, error) {
	norm, err := Normalize(data)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(norm); err != nil {
		return "", errors.Wrap(err, errors.ErrSerialize, "failed to encode YAML")
	}
	if err := enc.Close(); err != nil {
		return "", errors.Wrap(err, errors.ErrSerialize, "failed to encode YAML")
	}
	return buf.String(), nil
}

// XMLRoot is the document element; array items are XMLItem elements.
const (
	XMLRoot = "root"
	XMLItem = "item"
)

func serializeXML(data interface{}) (string, error) {
	norm, err := Normalize(data)
	if err != nil {
		return "", err
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement(XMLRoot)

	switch v := norm.(type) {
	case map[string]interface{}, []interface{}:
		writeXMLValue(root, v)
	default:
		return "", errors.Newf(errors.ErrSerialize, "XML output needs an object or an array, got %T", data)
	}

	doc.Indent(2)
	out, err := doc.WriteToString()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrSerialize, "failed to encode XML")
	}
	return out, nil
}

func writeXMLValue(el *etree.Element, v interface{}) {
	switch t := v.(type) {
	case map[string]interface{}:
		for _, k := range sortedKeys(t) {
			writeXMLValue(el.CreateElement(xmlName(k)), t[k])
		}
	case []interface{}:
		for _, item := range t {
			writeXMLValue(el.CreateElement(XMLItem), item)
		}
	case nil:
	default:
		el.SetText(scalarString(t))
	}
}

// xmlName makes k usable as an element name.
func xmlName(k string) string {
	if k == "" {
		return "_"
	}
	var b strings.Builder
	for i, r := range k {
		valid := r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
		if i > 0 {
			valid = valid || r == '-' || r == '.' || r >= '0' && r <= '9'
		}
		if valid {
			b.WriteRune(r)
			continue
		}
		if i == 0 && r >= '0' && r <= '9' {
			b.WriteRune('_')
			b.WriteRune(r)
			continue
		}
		b.WriteRune('_')
	}
	return b.String()
}

// CSVValueColumn is the header used for scalar rows.
const CSVValueColumn = "value"

func serializeCSV(data interface{}) (string, error) {
	norm, err := Normalize(data)
	if err != nil {
		return "", err
	}

	var rows []map[string]string
	switch v := norm.(type) {
	case []interface{}:
		for _, item := range v {
			rows = append(rows, flattenRow(item))
		}
	default:
		rows = append(rows, flattenRow(v))
	}

	columns := map[string]bool{}
	for _, row := range rows {
		for k := range row {
			columns[k] = true
		}
	}
	header := make([]string, 0, len(columns))
	for k := range columns {
		header = append(header, k)
	}
	sort.Strings(header)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if len(header) > 0 {
		if err := w.Write(header); err != nil {
			return "", errors.Wrap(err, errors.ErrSerialize, "failed to write CSV")
		}
	}
	for _, row := range rows {
		record := make([]string, len(header))
		for i, col := range header {
			record[i] = row[col]
		}
		if err := w.Write(record); err != nil {
			return "", errors.Wrap(err, errors.ErrSerialize, "failed to write CSV")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", errors.Wrap(err, errors.ErrSerialize, "failed to write CSV")
	}
	return buf.String(), nil
}

func flattenRow(v interface{}) map[string]string {
	row := map[string]string{}
	if m, ok := v.(map[string]interface{}); ok {
		flattenInto(row, "", m)
		return row
	}
	row[CSVValueColumn] = cellString(v)
	return row
}

func flattenInto(row map[string]string, prefix string, m map[string]interface{}) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]interface{}); ok && len(nested) > 0 {
			flattenInto(row, key, nested)
			continue
		}
		row[key] = cellString(v)
	}
}

func cellString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []interface{}, map[string]interface{}:
		raw, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(raw)
	default:
		return scalarString(t)
	}
}

func scalarString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
