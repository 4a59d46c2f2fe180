package saml_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/capsaml/saml"
	"github.com/capsaml/saml/models/core"
)

func Test_CreateLogoutRequest(t *testing.T) {
	r := require.New(t)

	tp, provider := testProviderAndSP(t)
	defer tp.Close()

	_, err := provider.CreateLogoutRequest("", "user@example.com", core.ServiceBindingHTTPRedirect)
	r.Error(err)
	r.ErrorContains(err, "saml.ServiceProvider.CreateLogoutRequest: no ID provided: invalid parameter")

	_, err = provider.CreateLogoutRequest("abc123", "", core.ServiceBindingHTTPRedirect)
	r.Error(err)
	r.ErrorContains(err, "saml.ServiceProvider.CreateLogoutRequest: no nameID provided: invalid parameter")

	// The test IdP fixture only advertises an SSO binding, not SLO, so
	// resolving any SLO destination fails.
	_, err = provider.CreateLogoutRequest("abc123", "user@example.com", core.ServiceBindingHTTPRedirect)
	r.Error(err)
}

func Test_LogoutRequestRedirect(t *testing.T) {
	r := require.New(t)

	certPEM, keyPEM := generateTestCertPEM(t)
	cfg, err := saml.NewConfig(
		"http://test.me/entity",
		"http://test.me/saml/acs",
		"http://test.me/entity",
		"http://test.idp/metadata",
		certPEM,
		keyPEM,
	)
	r.NoError(err)

	provider, err := saml.NewServiceProvider(cfg, nil)
	r.NoError(err)

	idp, err := saml.FromXML([]byte(idpMetadataWithSLOFixture(t)), nil, saml.QuirkFlags{})
	r.NoError(err)
	provider.SetIdPDescriptor(idp)

	redirect, lr, err := provider.LogoutRequestRedirect("abc123", "user@example.com", "relay", saml.WithSessionIndex("_sess1"))
	r.NoError(err)
	r.NotNil(lr)
	r.Equal([]string{"_sess1"}, lr.SessionIndex)
	r.Equal("https://idp.example.com/slo/redirect", fmt.Sprintf("%s://%s%s", redirect.Scheme, redirect.Host, redirect.Path))
	r.Equal("relay", redirect.Query().Get("RelayState"))
	r.NotEmpty(redirect.Query().Get("SAMLRequest"))
}

func Test_CreateLogoutResponse(t *testing.T) {
	r := require.New(t)

	certPEM, keyPEM := generateTestCertPEM(t)
	cfg, err := saml.NewConfig(
		"http://test.me/entity",
		"http://test.me/saml/acs",
		"http://test.me/entity",
		"http://test.idp/metadata",
		certPEM,
		keyPEM,
	)
	r.NoError(err)

	provider, err := saml.NewServiceProvider(cfg, nil)
	r.NoError(err)

	idp, err := saml.FromXML([]byte(idpMetadataWithSLOFixture(t)), nil, saml.QuirkFlags{})
	r.NoError(err)
	provider.SetIdPDescriptor(idp)

	lr, err := provider.CreateLogoutResponse("abc123", "req1", core.StatusCodeSuccess, core.ServiceBindingHTTPRedirect)
	r.NoError(err)
	r.Equal("req1", lr.InResponseTo)
	r.Equal(core.StatusCodeSuccess, lr.Status.StatusCode.Value)
	r.Equal("https://idp.example.com/slo/redirect", lr.Destination)

	_, err = provider.CreateLogoutResponse("", "req1", core.StatusCodeSuccess, core.ServiceBindingHTTPRedirect)
	r.Error(err)
}

func idpMetadataWithSLOFixture(t *testing.T) string {
	t.Helper()
	return fmt.Sprintf(`
<md:EntityDescriptor xmlns:md="urn:oasis:names:tc:SAML:2.0:metadata" entityID="https://idp.example.com">
  <md:IDPSSODescriptor protocolSupportEnumeration="urn:oasis:names:tc:SAML:2.0:protocol">
    <md:SingleSignOnService Binding="urn:oasis:names:tc:SAML:2.0:bindings:HTTP-Redirect" Location="https://idp.example.com/sso/redirect"/>
    <md:SingleLogoutService Binding="urn:oasis:names:tc:SAML:2.0:bindings:HTTP-Redirect" Location="https://idp.example.com/slo/redirect"/>
  </md:IDPSSODescriptor>
</md:EntityDescriptor>
`)
}
