package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var queueNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.:-]{1,128}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("queuename", func(fl validator.FieldLevel) bool {
		return queueNamePattern.MatchString(fl.Field().String())
	})
	return v
}

// IsRequestValid validates req and returns a readable message on failure.
func IsRequestValid(req any) (bool, string) {
	err := validate.Struct(req)
	if err == nil {
		return true, ""
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return false, err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s", fe.Field(), fe.Tag()))
		}
	}
	return false, strings.Join(msgs, "; ")
}

// IsQueueName reports whether name is a valid queue name.
func IsQueueName(name string) bool {
	return queueNamePattern.MatchString(name)
}
