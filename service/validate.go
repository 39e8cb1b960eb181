package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hupe1980/agentnet/core"
	"github.com/hupe1980/agentnet/network"
)

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// validateDescription checks the structural rules of a description. Semantic
// rules (unknown agents, duplicate ids, dangling connections) are enforced
// when the description is applied to a network.
func (s *Service) validateDescription(d *network.Description) error {
	if d == nil {
		return fmt.Errorf("%w: network description is required", core.ErrInvalidArgument)
	}

	err := s.validate.Struct(d)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", core.ErrInvalidArgument, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		// Namespace is "Description.tasks[0].agent_id"
		_, field, _ := strings.Cut(fe.Namespace(), ".")
		msgs = append(msgs, fmt.Sprintf("%s is %s", field, fe.Tag()))
	}

	return fmt.Errorf("%w: %s", core.ErrInvalidArgument, strings.Join(msgs, "; "))
}
