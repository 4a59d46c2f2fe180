package handler

import (
	"net/http"

	"github.com/capsaml/saml"
	"github.com/capsaml/saml/models/core"
)

// RequestHandler dispatches to the HTTP-POST or HTTP-Redirect AuthnRequest
// handler depending on binding, defaulting to HTTP-POST for anything else.
func RequestHandler(sp *saml.ServiceProvider, binding core.ServiceBinding) (http.HandlerFunc, error) {
	switch binding {
	case core.ServiceBindingHTTPRedirect:
		return RedirectBindingHandlerFunc(sp)
	default:
		return PostBindingHandlerFunc(sp), nil
	}
}
