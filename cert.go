package saml

import (
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"regexp"
	"strings"
)

// pemCertBlock is the PEM block type produced by RewrapBase64 and expected
// by LoadPEM.
const pemCertBlock = "CERTIFICATE"

var whitespace = regexp.MustCompile(`\s+`)

// LoadPEM parses a PEM-encoded X.509 certificate. It fails with
// InvalidCertificateError if the bytes aren't a parseable PEM certificate.
func LoadPEM(raw []byte) (*x509.Certificate, error) {
	const op = "saml.LoadPEM"

	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, &InvalidCertificateError{Reason: "not a PEM block", Op: op}
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, &InvalidCertificateError{Reason: err.Error(), Op: op}
	}

	return cert, nil
}

// StripArmor removes PEM armor (the BEGIN/END lines) and all whitespace
// from a PEM-encoded certificate, returning the bare base64 body. Used to
// produce the cert_text embedded verbatim in emitted metadata.
func StripArmor(pemBytes []byte) (string, error) {
	const op = "saml.StripArmor"

	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return "", &InvalidCertificateError{Reason: "not a PEM block", Op: op}
	}

	return base64.StdEncoding.EncodeToString(block.Bytes), nil
}

// RewrapBase64 takes a possibly-unwrapped base64 blob (as commonly found,
// unwrapped, inside an IdP's metadata KeyDescriptor) and re-wraps it to
// width-column lines with standard PEM certificate armor. Lines of the input
// that start with "-----" (PEM BEGIN/END armor) are dropped, so rewrapping
// RewrapBase64's own output at the same width returns it unchanged.
func RewrapBase64(base64Body string, width int) []byte {
	var bodyLines []string
	for _, line := range strings.Split(base64Body, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "-----") {
			continue
		}
		bodyLines = append(bodyLines, line)
	}
	body := whitespace.ReplaceAllString(strings.Join(bodyLines, ""), "")

	var lines []string
	for len(body) > width {
		lines = append(lines, body[:width])
		body = body[width:]
	}
	if len(body) > 0 {
		lines = append(lines, body)
	}

	var b strings.Builder
	b.WriteString("-----BEGIN CERTIFICATE-----\n")
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	b.WriteString("-----END CERTIFICATE-----\n")

	return []byte(b.String())
}

// VerifyCertificate verifies cert against caBundle using non-strict
// verification: no hostname check, any extended key usage accepted. This
// mirrors the underlying library's "strict_certs=0" mode — real-world IdPs
// routinely ship expired-but-pinned certificates, and the operator, not
// this library, decides whether to trust them. A verification failure is
// returned as an error so the caller can turn it into a warning; it is
// never used to abort construction of a descriptor.
func VerifyCertificate(cert *x509.Certificate, caBundle *x509.CertPool) error {
	if cert == nil {
		return fmt.Errorf("saml.VerifyCertificate: %w", ErrInvalidParameter)
	}
	if caBundle == nil {
		return fmt.Errorf("saml.VerifyCertificate: no CA bundle provided: %w", ErrInvalidParameter)
	}

	_, err := cert.Verify(x509.VerifyOptions{
		Roots:     caBundle,
		KeyUsages: []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
	})
	return err
}
