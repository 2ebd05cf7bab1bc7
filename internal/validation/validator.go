package validation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// Field is a request value together with whether its key was sent at all.
type Field struct {
	Present bool
	Value   any
}

// Value builds a present field.
func Value(v any) Field { return Field{Present: true, Value: v} }

// Missing builds an absent field.
func Missing() Field { return Field{} }

// FieldFrom extracts key from a decoded JSON object.
func FieldFrom(m map[string]any, key string) Field {
	v, ok := m[key]
	if !ok {
		return Missing()
	}
	return Value(v)
}

// normalized returns the value with empty strings converted to nil,
// so "" fails required and is skipped by nullable fields.
// Trimming is the caller's job; passwords keep their whitespace.
func (f Field) normalized() any {
	if s, ok := f.Value.(string); ok && s == "" {
		return nil
	}
	return f.Value
}

// String returns the value as a string and whether it was one.
func (f Field) String() (string, bool) {
	if v := f.normalized(); v != nil {
		s, ok := v.(string)
		return s, ok
	}
	return "", false
}

// Filled reports whether the field carries a non-empty value.
func (f Field) Filled() bool {
	return f.Present && f.normalized() != nil
}

// UniqueFunc reports whether value is already taken.
type UniqueFunc func(ctx context.Context, value string) (bool, error)

// Rules describes the checks for one field, applied in this order:
// required, string, Tags (validator tags), Confirm, Unique.
type Rules struct {
	Field Field

	// Sometimes skips every rule when the key is absent.
	Sometimes bool
	// Nullable skips every rule when the value is null or "".
	Nullable bool
	Required bool

	Tags []string

	// Confirm, when non-nil, must hold the same string value.
	Confirm *Field
	Unique  UniqueFunc
}

var messages = map[string]string{
	"required":  "The {0} field is required.",
	"string":    "The {0} field must be a string.",
	"email":     "The {0} field must be a valid email address.",
	"max":       "The {0} field must not be greater than {1} characters.",
	"min":       "The {0} field must be at least {1} characters.",
	"confirmed": "The {0} field confirmation does not match.",
	"unique":    "The {0} has already been taken.",
	"invalid":   "The {0} field is invalid.",
}

type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func New() *Validator {
	locale := en.New()
	uni := ut.New(locale, locale)
	trans, _ := uni.GetTranslator("en")

	for key, text := range messages {
		// keys are static; Add only fails on duplicates
		_ = trans.Add(key, text, false)
	}

	return &Validator{
		validate: validator.New(),
		trans:    trans,
	}
}

// Validate runs every field's rules and returns a field -> messages map.
// A nil map means the input is valid. The error is non-nil only when a
// uniqueness lookup fails.
func (v *Validator) Validate(ctx context.Context, fields map[string]Rules) (map[string][]string, error) {
	var out map[string][]string

	for name, rules := range fields {
		msgs, err := v.check(ctx, name, rules)
		if err != nil {
			return nil, err
		}
		if len(msgs) == 0 {
			continue
		}
		if out == nil {
			out = make(map[string][]string)
		}
		out[name] = msgs
	}

	return out, nil
}

func (v *Validator) check(ctx context.Context, name string, r Rules) ([]string, error) {
	if r.Sometimes && !r.Field.Present {
		return nil, nil
	}

	val := r.Field.normalized()
	if val == nil {
		if r.Required && !r.Nullable {
			return []string{v.message("required", name)}, nil
		}
		// non-implicit rules never run against an empty value
		return nil, nil
	}

	s, ok := val.(string)
	if !ok {
		return []string{v.message("string", name)}, nil
	}

	var msgs []string
	for _, tag := range r.Tags {
		if err := v.validate.Var(s, tag); err != nil {
			msgs = append(msgs, v.fromValidatorError(name, tag, err))
		}
	}

	if r.Confirm != nil {
		other, isStr := r.Confirm.Value.(string)
		if !r.Confirm.Present || !isStr || v.validate.VarWithValue(s, other, "eqfield") != nil {
			msgs = append(msgs, v.message("confirmed", name))
		}
	}

	if r.Unique != nil {
		taken, err := r.Unique(ctx, s)
		if err != nil {
			return nil, err
		}
		if taken {
			msgs = append(msgs, v.message("unique", name))
		}
	}

	return msgs, nil
}

func (v *Validator) fromValidatorError(name, tag string, err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return v.message(fe.Tag(), name, fe.Param())
	}
	return v.message(strings.SplitN(tag, "=", 2)[0], name)
}

func (v *Validator) message(key, field string, params ...string) string {
	args := append([]string{field}, params...)
	msg, err := v.trans.T(key, args...)
	if err != nil || msg == "" {
		msg, _ = v.trans.T("invalid", field)
	}
	if msg == "" {
		return fmt.Sprintf("The %s field is invalid.", field)
	}
	return msg
}
