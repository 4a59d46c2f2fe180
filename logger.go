package saml

import (
	"net/http"

	cleanhttp "github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-hclog"
)

// Observer receives non-fatal findings produced while building a
// descriptor or validating inbound material: certificate verification
// warnings today, metadata parse warnings tomorrow. It replaces writing a
// warning straight to stderr with a structured callback the caller controls.
type Observer func(warning error)

// coreOptions carries the ambient, cross-cutting settings every
// constructor in this package accepts: a logger, an HTTP client, and an
// Observer for non-fatal warnings.
type coreOptions struct {
	logger     hclog.Logger
	httpClient *http.Client
	observer   Observer
}

func coreOptionsDefault() coreOptions {
	return coreOptions{
		logger: hclog.New(&hclog.LoggerOptions{
			Name:  "saml",
			Level: hclog.Warn,
		}),
		httpClient: cleanhttp.DefaultClient(),
	}
}

func getCoreOptions(opt ...Option) coreOptions {
	opts := coreOptionsDefault()
	ApplyOpts(&opts, opt...)
	return opts
}

// WithLogger overrides the structured logger used for warnings that have
// no registered Observer.
func WithLogger(l hclog.Logger) Option {
	return func(o interface{}) {
		if o, ok := o.(*coreOptions); ok && l != nil {
			o.logger = l
		}
	}
}

// WithHTTPClient overrides the HTTP client used to fetch IdP metadata.
func WithHTTPClient(c *http.Client) Option {
	return func(o interface{}) {
		if o, ok := o.(*coreOptions); ok && c != nil {
			o.httpClient = c
		}
	}
}

// WithObserver registers a callback that receives every non-fatal warning
// produced during construction, instead of the default behavior of logging
// it and continuing.
func WithObserver(fn Observer) Option {
	return func(o interface{}) {
		if o, ok := o.(*coreOptions); ok && fn != nil {
			o.observer = fn
		}
	}
}

// warn delivers a non-fatal finding to the registered Observer, or logs it
// at WARN if no Observer was registered.
func (o coreOptions) warn(err error) {
	if o.observer != nil {
		o.observer(err)
		return
	}
	if o.logger != nil {
		o.logger.Warn(err.Error())
	}
}
