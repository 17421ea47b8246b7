package forms

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance.
var validate = validator.New()

// Rule builds a ValidatorFunc from go-playground/validator tag syntax,
// applied to the control's value. Each failed rule contributes an entry
// keyed by its tag:
//
//	age := forms.NewField(nil, forms.WithValidators(forms.Rule("required,min=18")))
//
// A nil value passes every rule except required.
func Rule(tag string) ValidatorFunc {
	return func(c Control) Errors {
		v := c.Value()
		if v == nil {
			if strings.Contains(tag, "required") {
				return Errors{"required": true}
			}
			return nil
		}
		err := validate.Var(v, tag)
		if err == nil {
			return nil
		}
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return Errors{"validation": err.Error()}
		}
		out := Errors{}
		for _, fe := range verrs {
			if fe.Param() != "" {
				out[fe.Tag()] = map[string]any{
					"requirement": fe.Param(),
					"actual":      v,
				}
			} else {
				out[fe.Tag()] = true
			}
		}
		return out
	}
}

// Required fails on nil, empty strings, and zero values.
var Required = Rule("required")

// Email fails on values that are not well-formed email addresses.
var Email = Rule("email")

// Min fails on numbers below n. Applied to a string or collection the rule
// constrains length instead, following validator tag semantics.
func Min(n float64) ValidatorFunc {
	return Rule(fmt.Sprintf("min=%v", n))
}

// Max fails on numbers above n, or strings/collections longer than n.
func Max(n float64) ValidatorFunc {
	return Rule(fmt.Sprintf("max=%v", n))
}

// MinLength fails on strings shorter than n.
func MinLength(n int) ValidatorFunc {
	return Rule(fmt.Sprintf("min=%d", n))
}

// MaxLength fails on strings longer than n.
func MaxLength(n int) ValidatorFunc {
	return Rule(fmt.Sprintf("max=%d", n))
}

// Pattern fails on non-empty string values that do not match expr. The
// expression must compile; Pattern panics otherwise, matching
// regexp.MustCompile.
func Pattern(expr string) ValidatorFunc {
	re := regexp.MustCompile(expr)
	return func(c Control) Errors {
		s, ok := c.Value().(string)
		if !ok || s == "" {
			return nil
		}
		if re.MatchString(s) {
			return nil
		}
		return Errors{"pattern": map[string]any{
			"requirement": expr,
			"actual":      s,
		}}
	}
}
