package handler

import (
	"fmt"
	"net/http"

	"github.com/capsaml/saml"
)

// RedirectBindingHandlerFunc creates a handler function that issues a
// HTTP-Redirect bound AuthnRequest.
func RedirectBindingHandlerFunc(sp *saml.ServiceProvider) (http.HandlerFunc, error) {
	const op = "handler.RedirectBindingHandlerFunc"
	if sp == nil {
		return nil, fmt.Errorf("%s: missing service provider", op)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		redirectURL, _, err := sp.AuthnRequestRedirect(r.URL.Query().Get("RelayState"))
		if err != nil {
			http.Error(
				w,
				fmt.Sprintf("failed to create SAML AuthnRequest: %s", err.Error()),
				http.StatusInternalServerError,
			)
			return
		}

		http.Redirect(w, r, redirectURL.String(), http.StatusFound)
	}, nil
}
