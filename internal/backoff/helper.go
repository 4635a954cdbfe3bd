package backoff

import (
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// ParseRetryPolicyConfig hydrates a RetryPolicyConfig from a string map such as
// query parameters, environment values or resource metadata.
// Keys follow the mapstructure tags ("attempts", "base-delay-ms", ...).
//
// Numeric strings that do not parse decode as NaN, so Normalize later clamps
// them to the range minimum instead of rejecting the whole map. Missing keys
// keep the zero value. The returned config is not normalized.
func ParseRetryPolicyConfig(values map[string]string) (RetryPolicyConfig, error) {
	var result RetryPolicyConfig
	if err := decodeLenient(values, &result); err != nil {
		return RetryPolicyConfig{}, err
	}
	return result, nil
}

// LenientDecodeHook is the decode hook used by ParseRetryPolicyConfig.
// It is exported so config loaders built on mapstructure (viper) decode
// policies the same way.
func LenientDecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		stringToLenientFloatHook(),
	)
}

func decodeLenient(input any, out any) error {
	config := &mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook:       LenientDecodeHook(),
	}

	decoder, err := mapstructure.NewDecoder(config)
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// stringToLenientFloatHook parses strings into float64 targets, turning
// anything unparseable into NaN rather than an error.
func stringToLenientFloatHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to.Kind() != reflect.Float64 {
			return data, nil
		}

		raw := strings.TrimSpace(reflect.ValueOf(data).String())
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return math.NaN(), nil
		}
		return v, nil
	}
}
