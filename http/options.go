package http

import (
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Option identifies a transport option. The core never interprets options;
// they are handed to the Transport as is, so transport-specific identifiers
// not listed here pass through untouched.
type Option string

const (
	OptVerbose            Option = "verbose"
	OptReturnTransfer     Option = "return_transfer"
	OptHeader             Option = "header"
	OptTimeout            Option = "timeout"
	OptConnectTimeout     Option = "connect_timeout"
	OptFollowLocation     Option = "follow_location"
	OptMaxRedirects       Option = "max_redirects"
	OptUserAgent          Option = "user_agent"
	OptHTTPHeader         Option = "http_header"
	OptInsecureSkipVerify Option = "insecure_skip_verify"
	OptProxy              Option = "proxy"
)

// Options maps option identifiers to values.
type Options map[Option]any

// DefaultOptions returns the options every request starts from: verbose off,
// body capture on, header capture on.
func DefaultOptions() Options {
	return Options{
		OptVerbose:        false,
		OptReturnTransfer: true,
		OptHeader:         true,
	}
}

// Merge returns a new Options with overrides applied on top of o.
func (o Options) Merge(overrides Options) Options {
	merged := make(Options, len(o)+len(overrides))
	for k, v := range o {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}

// Clone returns a shallow copy.
func (o Options) Clone() Options {
	return Options{}.Merge(o)
}

// Bool returns the option as a boolean, false when absent or not a bool.
func (o Options) Bool(opt Option) bool {
	b, _ := o[opt].(bool)
	return b
}

// transportSettings is the typed view of Options understood by HTTPTransport.
type transportSettings struct {
	Verbose            bool          `mapstructure:"verbose"`
	ReturnTransfer     bool          `mapstructure:"return_transfer"`
	Header             bool          `mapstructure:"header"`
	Timeout            time.Duration `mapstructure:"timeout"`
	ConnectTimeout     time.Duration `mapstructure:"connect_timeout"`
	FollowLocation     bool          `mapstructure:"follow_location"`
	MaxRedirects       int           `mapstructure:"max_redirects"`
	UserAgent          string        `mapstructure:"user_agent"`
	HTTPHeader         []string      `mapstructure:"http_header"`
	InsecureSkipVerify bool          `mapstructure:"insecure_skip_verify"`
	Proxy              string        `mapstructure:"proxy"`
}

var durationType = reflect.TypeOf(time.Duration(0))

// secondsToDuration reads bare numbers as seconds, the unit transports
// conventionally use for timeouts.
func secondsToDuration(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != durationType || from == durationType {
		return data, nil
	}
	switch v := reflect.ValueOf(data); v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return time.Duration(v.Int()) * time.Second, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return time.Duration(v.Uint()) * time.Second, nil
	case reflect.Float32, reflect.Float64:
		return time.Duration(v.Float() * float64(time.Second)), nil
	}
	return data, nil
}

func decodeSettings(opts Options) (transportSettings, error) {
	settings := transportSettings{
		ReturnTransfer: true,
		Header:         true,
	}

	input := make(map[string]any, len(opts))
	for k, v := range opts {
		input[string(k)] = v
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &settings,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			secondsToDuration,
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return settings, err
	}
	if err := decoder.Decode(input); err != nil {
		return settings, err
	}
	return settings, nil
}
