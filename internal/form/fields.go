package form

// Field identifies one input slot of the contact form. The set is closed:
// every Values map carries exactly these keys.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldMessage Field = "message"
)

// fieldOrder fixes the presentation and payload ordering.
var fieldOrder = []Field{FieldName, FieldEmail, FieldMessage}

// Fields returns the closed, ordered set of form fields.
func Fields() []Field {
	out := make([]Field, len(fieldOrder))
	copy(out, fieldOrder)
	return out
}

// Label returns the human-facing caption for a field.
func (f Field) Label() string {
	switch f {
	case FieldName:
		return "Name"
	case FieldEmail:
		return "Email"
	case FieldMessage:
		return "Message"
	}
	return string(f)
}

// Values maps every field to its current raw input. Raw means raw: invalid
// text stays in the map exactly as typed, errors live elsewhere.
type Values map[Field]string

// NewValues seeds all fields with empty strings so the key set is complete
// from the start.
func NewValues() Values {
	v := make(Values, len(fieldOrder))
	for _, f := range fieldOrder {
		v[f] = ""
	}
	return v
}

// Reset puts every field back to its empty default in place.
func (v Values) Reset() {
	for _, f := range fieldOrder {
		v[f] = ""
	}
}

// Clone returns an independent copy, used to snapshot a submission payload.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Errors holds the per-field validation outcome. Only failing fields have
// entries; an empty map means the form is valid.
type Errors map[Field]string
