package validator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"stayops/shared/constant"
	"stayops/shared/failure"
	"strings"
	"time"

	val "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate *val.Validate

// decimalValue hands decimal amounts to the validator as their exact string form.
func decimalValue(field reflect.Value) any {
	if amount, ok := field.Interface().(decimal.Decimal); ok {
		return amount.String()
	}

	return nil
}

func parseAmount(fl val.FieldLevel) (decimal.Decimal, bool) {
	amount, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return decimal.Zero, false
	}

	return amount, true
}

func amountPositive(fl val.FieldLevel) bool {
	amount, ok := parseAmount(fl)

	return ok && amount.IsPositive()
}

func amountNonZero(fl val.FieldLevel) bool {
	amount, ok := parseAmount(fl)

	return ok && !amount.IsZero()
}

func dateOnly(fl val.FieldLevel) bool {
	_, err := time.Parse(constant.DateOnlyFormat, fl.Field().String())

	return err == nil
}

func jsonName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return field.Name
	}

	return name
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonName)
	validate.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})

	err := validate.RegisterValidation("empty", func(fl val.FieldLevel) bool {
		empty := fl.Field().IsZero()

		return empty
	})

	if err != nil {
		panic(err)
	}

	for tag, fn := range map[string]val.Func{
		"amount_positive": amountPositive,
		"amount_nonzero":  amountNonZero,
		"date_only":       dateOnly,
	} {
		if err = validate.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
}

// Validate reads from the given io.Reader into the given struct, and then performs validation
// on the struct using the validator package. If the struct is invalid according to the
// validation rules, an error is returned. Otherwise, nil is returned.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(r)
	err := decoder.Decode(data)

	if err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

// ValidateOptional validates a body the client may leave out entirely. An empty body leaves
// data at its zero value.
func ValidateOptional[T any](r io.Reader, data *T) error {
	if r == nil {
		return ValidateStruct(data)
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return failure.BadRequest(fmt.Errorf("failed to read request body: %w", err)) //nolint:wrapcheck
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return ValidateStruct(data)
	}

	return Validate(bytes.NewReader(body), data)
}

func ValidateStruct[T any](data *T) error {
	err := validate.Struct(data)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	err := validate.Var(field, tag)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}
