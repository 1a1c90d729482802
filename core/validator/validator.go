package validator

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Validator validates structs against `validate` tags.
type Validator interface {
	// Struct validates a struct value.
	Struct(s any) error

	// StructCtx validates a struct value with a context.
	StructCtx(ctx context.Context, s any) error

	// GetValidator returns the underlying validator instance.
	GetValidator() *validator.Validate
}

type validatorImpl struct {
	validator *validator.Validate
	trans     ut.Translator
}

// Validate is the global validator instance.
var (
	Validate Validator
	once     sync.Once
)

func init() {
	once.Do(func() {
		Validate = New()
	})
}

// New creates a validator with English error translations.
func New() Validator {
	v := &validatorImpl{
		validator: validator.New(),
	}

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	if trans, found := uni.GetTranslator("en"); found {
		v.trans = trans
		_ = en_translations.RegisterDefaultTranslations(v.validator, trans)
	}

	return v
}

func (v *validatorImpl) Struct(s any) error {
	if s == nil {
		return errors.New("validation target cannot be nil")
	}
	return v.translate(v.validator.Struct(s))
}

func (v *validatorImpl) StructCtx(ctx context.Context, s any) error {
	if s == nil {
		return errors.New("validation target cannot be nil")
	}
	return v.translate(v.validator.StructCtx(ctx, s))
}

func (v *validatorImpl) GetValidator() *validator.Validate {
	return v.validator
}

// translate flattens validator.ValidationErrors into a single readable error.
func (v *validatorImpl) translate(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if v.trans != nil {
			messages = append(messages, fe.Translate(v.trans))
		} else {
			messages = append(messages, fe.Error())
		}
	}

	return errors.New(strings.Join(messages, "; "))
}
