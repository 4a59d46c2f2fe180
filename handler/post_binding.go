package handler

import (
	"net/http"

	"github.com/capsaml/saml"
)

// PostBindingHandlerFunc creates a handler function that serves the
// auto-submitting HTML form for an HTTP-POST bound AuthnRequest.
func PostBindingHandlerFunc(sp *saml.ServiceProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _, err := sp.AuthnRequestPost(r.URL.Query().Get("RelayState"))
		if err != nil {
			http.Error(w, "failed to create SAML POST AuthnRequest", http.StatusInternalServerError)
			return
		}

		saml.WritePostBindingRequestHeader(w)
		if _, err := w.Write(body); err != nil {
			http.Error(w, "failed to serve POST binding request", http.StatusInternalServerError)
			return
		}
	}
}
