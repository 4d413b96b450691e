package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/facussc24/2026-sub001/internal/apierror"
	"github.com/facussc24/2026-sub001/internal/flatten"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails.
// The caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string)
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError hands err to middleware.ErrorHandler, which picks the
// status from the error code and writes the outcome envelope.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
}

// filterFromQuery reads ?niveles= and ?material=. An absent niveles shows
// every level; niveles= with no values shows none.
func filterFromQuery(c *gin.Context) (flatten.Filter, bool) {
	raw, present := c.GetQuery("niveles")
	levels, err := flatten.ParseLevels(raw, present)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return flatten.Filter{}, false
	}
	return flatten.Filter{Levels: levels, Material: c.Query("material")}, true
}
