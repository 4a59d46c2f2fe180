package handler

import (
	"encoding/xml"
	"net/http"

	"github.com/capsaml/saml"
)

// MetadaHandlerFunc serves the service provider's own metadata XML
// document. Kept the teacher's original (misspelled) exported name so
// existing callers don't need to change.
func MetadaHandlerFunc(sp *saml.ServiceProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		meta := sp.CreateMetadata()
		w.Header().Set("Content-Type", "application/samlmetadata+xml")
		if err := xml.NewEncoder(w).Encode(meta); err != nil {
			http.Error(w, "failed to encode metadata", http.StatusInternalServerError)
		}
	}
}
