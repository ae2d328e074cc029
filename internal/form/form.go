// Package form owns the draft state of a create/edit submission: field
// values, file attachments, and the encoding rules that differ between
// JSON and multipart transmission.
package form

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
)

// Mode distinguishes a create draft from an edit draft. Edit drafts
// submitted as multipart carry the _method=PUT override.
type Mode int

const (
	Create Mode = iota
	Edit
)

// File is a binary attachment (meal image, restaurant logo).
type File struct {
	Filename string
	Content  []byte
}

// Form is a draft of one record. Create drafts start empty; edit drafts
// are seeded from the existing record so an unchanged resubmission is
// idempotent.
type Form struct {
	mode   Mode
	fields map[string]any
	order  []string
	files  map[string]File

	// alwaysSend lists fields transmitted even when empty, to satisfy
	// server-side required validation.
	alwaysSend map[string]bool
	required   []string
}

// New returns an empty draft.
func New(mode Mode) *Form {
	return &Form{
		mode:       mode,
		fields:     map[string]any{},
		files:      map[string]File{},
		alwaysSend: map[string]bool{},
	}
}

// Seed copies an existing record's fields into the draft, for edit.
func (f *Form) Seed(record map[string]any) *Form {
	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		f.Set(k, record[k])
	}
	return f
}

// Set assigns one field. Later Sets overwrite but keep the original
// position.
func (f *Form) Set(field string, value any) *Form {
	if _, ok := f.fields[field]; !ok {
		f.order = append(f.order, field)
	}
	f.fields[field] = value
	return f
}

// Get returns the current value of a field.
func (f *Form) Get(field string) (any, bool) {
	v, ok := f.fields[field]
	return v, ok
}

// Attach adds a binary field. Any attachment forces multipart encoding.
func (f *Form) Attach(field, filename string, content []byte) *Form {
	f.files[field] = File{Filename: filename, Content: content}
	return f
}

// AlwaysSend marks fields that are transmitted even when empty.
func (f *Form) AlwaysSend(fields ...string) *Form {
	for _, field := range fields {
		f.alwaysSend[field] = true
		if _, ok := f.fields[field]; !ok {
			f.Set(field, "")
		}
	}
	return f
}

// Require marks fields that must be non-empty before submission.
func (f *Form) Require(fields ...string) *Form {
	f.required = append(f.required, fields...)
	return f
}

// Mode reports whether this is a create or edit draft.
func (f *Form) Mode() Mode { return f.mode }

// HasFiles reports whether any binary field is attached.
func (f *Form) HasFiles() bool { return len(f.files) > 0 }

// Validate checks the required markers. It runs before any network call;
// a failure blocks submission entirely.
func (f *Form) Validate() error {
	var missing []string
	for _, field := range f.required {
		if isEmpty(f.fields[field]) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("required fields missing: %v", missing)
	}
	return nil
}

// JSONBody builds the JSON submission payload with native types. Empty
// fields are omitted unless marked AlwaysSend.
func (f *Form) JSONBody() map[string]any {
	body := make(map[string]any, len(f.fields))
	for _, field := range f.order {
		value := f.fields[field]
		if isEmpty(value) && !f.alwaysSend[field] {
			continue
		}
		body[field] = value
	}
	return body
}

// MultipartBody encodes the draft as multipart form data. Multipart
// fields are text-only, so numbers and booleans are stringified and
// array values are JSON-encoded. Edit drafts carry _method=PUT for
// edit-as-POST semantics.
func (f *Form) MultipartBody() (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, field := range f.order {
		value := f.fields[field]
		if isEmpty(value) && !f.alwaysSend[field] {
			continue
		}
		s, err := stringify(value)
		if err != nil {
			return nil, "", fmt.Errorf("field %s: %w", field, err)
		}
		if err := w.WriteField(field, s); err != nil {
			return nil, "", err
		}
	}

	if f.mode == Edit {
		if err := w.WriteField("_method", "PUT"); err != nil {
			return nil, "", err
		}
	}

	names := make([]string, 0, len(f.files))
	for name := range f.files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		file := f.files[name]
		part, err := w.CreateFormFile(name, file.Filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(file.Content); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// ValidatePassword applies the local pre-submit password rules: minimum
// length and confirmation match.
func ValidatePassword(password, confirmation string, minLen int) error {
	if len(password) < minLen {
		return fmt.Errorf("password must be at least %d characters", minLen)
	}
	if password != confirmation {
		return errors.New("password confirmation does not match")
	}
	return nil
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	default:
		return false
	}
}

func stringify(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case decimal.Decimal:
		return v.String(), nil
	case []string, []int64, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("unsupported multipart value type %T", value)
	}
}
