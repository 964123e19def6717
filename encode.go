package tojson

import "strings"

// Only backslash and double quote are escaped. Control characters and
// non-ASCII text are written as is.
var textEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Encode returns the compact JSON text for v. On error the result is empty.
func Encode(v Value) (string, error) {
	var e encoder
	if err := e.encode(v); err != nil {
		return "", err
	}
	return e.sb.String(), nil
}

// Marshal converts x with From and encodes the result.
func Marshal(x any) (string, error) {
	v, err := From(x)
	if err != nil {
		return "", err
	}
	return Encode(v)
}

type encoder struct {
	sb strings.Builder
}

func (e *encoder) encode(v Value) error {
	switch v.kind {
	case KindNull:
		e.sb.WriteString("null")
	case KindBool:
		if v.b {
			e.sb.WriteString("true")
		} else {
			e.sb.WriteString("false")
		}
	case KindNumber:
		e.sb.WriteString(v.s)
	case KindText:
		e.text(v.s)
	case KindMapping:
		e.sb.WriteByte('{')
		for i, m := range v.members {
			if i > 0 {
				e.sb.WriteByte(',')
			}
			e.text(m.Key)
			e.sb.WriteByte(':')
			if err := e.encode(m.Value); err != nil {
				return err
			}
		}
		e.sb.WriteByte('}')
	case KindSequence:
		e.sb.WriteByte('[')
		for i, el := range v.seq {
			if i > 0 {
				e.sb.WriteByte(',')
			}
			if err := e.encode(el); err != nil {
				return err
			}
		}
		e.sb.WriteByte(']')
	default:
		return &UnsupportedTypeError{Type: kindType, Value: v.kind}
	}
	return nil
}

func (e *encoder) text(s string) {
	e.sb.WriteByte('"')
	textEscaper.WriteString(&e.sb, s)
	e.sb.WriteByte('"')
}
