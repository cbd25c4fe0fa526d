package common

import (
	"github.com/go-playground/validator/v10"
)

// Validate is the shared validator instance used outside of gin's binding
// tags, e.g. common.Validate.Var(email, "required,email").
var Validate = validator.New()
