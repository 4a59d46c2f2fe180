package handler

import (
	"encoding/base64"
	"fmt"
	"net/http"

	saml2 "github.com/russellhaering/gosaml2"
	dsig "github.com/russellhaering/goxmldsig"

	"github.com/capsaml/saml"
)

// ACSHandlerFunc handles the HTTP-POST bound Assertion Consumer Service
// endpoint: it verifies the Response's XML signature with goxmldsig via
// gosaml2, then parses and validates the embedded Assertion with this
// module's own Assertion type.
func ACSHandlerFunc(sp *saml.ServiceProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "failed to parse form", http.StatusBadRequest)
			return
		}

		samlResp := r.PostForm.Get("SAMLResponse")
		relayState := r.PostForm.Get("RelayState")

		raw, err := base64.StdEncoding.DecodeString(samlResp)
		if err != nil {
			http.Error(w, "malformed SAMLResponse", http.StatusBadRequest)
			return
		}

		material, err := sp.POSTBinding()
		if err != nil {
			http.Error(w, "service provider not bound to an identity provider", http.StatusInternalServerError)
			return
		}

		certStore := dsig.MemoryX509CertificateStore{}
		for _, pem := range material.IdPCertPEM {
			cert, err := saml.LoadPEM([]byte(pem))
			if err != nil {
				continue
			}
			certStore.Roots = append(certStore.Roots, cert)
		}

		verifier := &saml2.SAMLServiceProvider{
			IdentityProviderIssuer:      sp.IdP().EntityID(),
			ServiceProviderIssuer:       sp.Config().Issuer.String(),
			AssertionConsumerServiceURL: sp.Config().AssertionConsumerServiceURL.String(),
			AudienceURI:                 sp.Config().EntityID.String(),
			IDPCertificateStore:         &certStore,
		}

		if _, err := verifier.ValidateEncodedResponse(samlResp); err != nil {
			http.Error(w, fmt.Sprintf("signature validation failed: %s", err.Error()), http.StatusUnauthorized)
			return
		}

		assertion, err := saml.ParseAssertion(raw)
		if err != nil {
			http.Error(w, fmt.Sprintf("failed to parse assertion: %s", err.Error()), http.StatusUnauthorized)
			return
		}

		if !assertion.Valid(sp.Config().EntityID.String(), "") {
			http.Error(w, "assertion failed validity checks", http.StatusUnauthorized)
			return
		}

		fmt.Fprintf(w, "Authenticated %s (relay state %q)", assertion.Name(), relayState)
	}
}
