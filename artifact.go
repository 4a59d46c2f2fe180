package saml

import (
	"fmt"

	"github.com/capsaml/saml/models/core"
)

// CreateArtifactResolve builds an ArtifactResolve for the opaque artifact
// string handed back by the IdP on the HTTP-Artifact binding. The
// Artifact Resolution profile is always carried over SOAP.
func (sp *ServiceProvider) CreateArtifactResolve(id, artifact string) (*core.ArtifactResolve, error) {
	const op = "saml.ServiceProvider.CreateArtifactResolve"

	if id == "" {
		return nil, fmt.Errorf("%s: no ID provided: %w", op, ErrInvalidParameter)
	}
	if artifact == "" {
		return nil, fmt.Errorf("%s: no artifact provided: %w", op, ErrInvalidParameter)
	}

	destination, err := sp.artifactDestination()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ar := &core.ArtifactResolve{}
	ar.ID = id
	ar.Version = core.SAMLVersion2
	ar.Destination = destination
	ar.IssueInstant = authnRequestOptionsDefault().clock.Now().UTC()
	ar.Issuer = &core.Issuer{}
	ar.Issuer.Value = sp.cfg.EntityID.String()
	ar.Artifact = artifact

	return ar, nil
}

// ParseArtifactResponse parses a SOAP-unwrapped ArtifactResponse body and
// returns the Assertion embedded in its Response, parsed with
// ParseAssertion. It does not call Valid and does not check a signature.
//
// Options:
//   - WithClock
func ParseArtifactResponse(raw []byte, opt ...Option) (*Assertion, error) {
	const op = "saml.ParseArtifactResponse"

	a, err := ParseAssertion(raw, opt...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}
