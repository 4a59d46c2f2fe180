package main

import (
	"fmt"
	"html/template"
	"net/http"
	"os"

	"github.com/capsaml/saml"
	"github.com/capsaml/saml/handler"
	"github.com/capsaml/saml/models/core"
)

func main() {
	entityID := os.Getenv("CAP_SAML_ENTITY_ID")
	acs := os.Getenv("CAP_SAML_ACS")
	issuer := os.Getenv("CAP_SAML_ISSUER")
	metadataURL := os.Getenv("CAP_SAML_METADATA")
	certPath := os.Getenv("CAP_SAML_CERT")
	keyPath := os.Getenv("CAP_SAML_KEY")

	certPEM, keyPEM, err := saml.LoadCertFile(certPath, keyPath)
	exitOnError(err)

	cfg, err := saml.NewConfig(entityID, acs, issuer, metadataURL, certPEM, keyPEM)
	exitOnError(err)

	sp, err := saml.NewServiceProvider(cfg, nil)
	exitOnError(err)

	_, err = sp.FetchMetadata(nil, saml.QuirkFlags{})
	exitOnError(err)

	http.HandleFunc("/saml/acs", handler.ACSHandlerFunc(sp))
	http.HandleFunc("/metadata", handler.MetadaHandlerFunc(sp))

	redirectHandler, err := handler.RequestHandler(sp, core.ServiceBindingHTTPRedirect)
	exitOnError(err)
	http.HandleFunc("/saml/auth", redirectHandler)

	http.HandleFunc("/login", func(w http.ResponseWriter, _ *http.Request) {
		ts, _ := template.New("sso").Parse(
			`<html><form method="GET" action="/saml/auth"><button type="submit">Submit</button></form></html>`,
		)

		ts.Execute(w, nil)
	})

	fmt.Println("Visit http://localhost:8000/login")

	err = http.ListenAndServe(":8000", nil)
	exitOnError(err)
}

func exitOnError(err error) {
	if err != nil {
		fmt.Printf("failed to run demo: %s\n", err.Error())
		os.Exit(1)
	}
}
