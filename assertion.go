package saml

import (
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/jonboulle/clockwork"

	"github.com/capsaml/saml/xmlutil"
)

// Assertion is the parsed, validated view of an inbound SAML assertion.
// It is built directly off the XML tree via xmlutil rather than
// encoding/xml.Unmarshal, for the same signature-wrapping reasons the IdP
// Descriptor is.
type Assertion struct {
	id           string
	issuer       string
	nameID       string
	nameIDFormat string
	sessionIndex string

	attributes map[string][]string

	audience     string
	notBefore    time.Time
	notOnOrAfter time.Time

	inResponseTo   string
	responseStatus string

	clock clockwork.Clock
}

type assertionOptions struct {
	clock clockwork.Clock
}

func assertionOptionsDefault() assertionOptions {
	return assertionOptions{clock: clockwork.NewRealClock()}
}

func getAssertionOptions(opt ...Option) assertionOptions {
	opts := assertionOptionsDefault()
	ApplyOpts(&opts, opt...)
	return opts
}

// ParseAssertion parses a single saml:Assertion (or a samlp:Response
// wrapping exactly one) into the validated domain view. raw may be either
// element. It returns an error wrapping ErrMissingSubject if no Subject
// element is present, or ErrInvalidTime if Conditions carries a malformed
// or inverted NotBefore/NotOnOrAfter pair.
//
// Options:
//   - WithClock
func ParseAssertion(raw []byte, opt ...Option) (*Assertion, error) {
	const op = "saml.ParseAssertion"
	opts := getAssertionOptions(opt...)

	doc, err := xmlutil.Parse(raw)
	if err != nil {
		return nil, &MetadataParseError{Reason: err.Error()}
	}

	ctx := xmlutil.NewContext(doc)
	root := ctx.Root()
	if root == nil {
		return nil, &MetadataParseError{Reason: "empty document"}
	}

	el := root
	if root.Tag != "Assertion" {
		assertions := xmlutil.LocalNameDescendants(root, "Assertion")
		if len(assertions) == 0 {
			return nil, &MetadataParseError{Reason: "no Assertion element found"}
		}
		el = assertions[0]
	}

	a := &Assertion{
		attributes: map[string][]string{},
		clock:      opts.clock,
	}

	if id, ok := xmlutil.Attr(el, "ID"); ok {
		a.id = id
	}

	if issuerEls := xmlutil.LocalNameChildren(el, "Issuer"); len(issuerEls) > 0 {
		a.issuer = strings.TrimSpace(issuerEls[0].Text())
	}

	if err := parseSubject(el, a); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := parseConditions(el, a); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	parseAuthnStatements(el, a)
	parseAttributeStatements(el, a)

	// response_status tolerates an absent Status entirely: ParseAssertion is
	// sometimes handed a bare Assertion subtree with no enclosing Response,
	// and that is not itself a validation failure.
	if statusEls := xmlutil.LocalNameDescendants(root, "StatusCode"); len(statusEls) > 0 {
		if v, ok := xmlutil.Attr(statusEls[0], "Value"); ok {
			a.responseStatus = v
		}
	}

	return a, nil
}

func parseSubject(el *etree.Element, a *Assertion) error {
	subjects := xmlutil.LocalNameChildren(el, "Subject")
	if len(subjects) == 0 {
		return ErrMissingSubject
	}
	subject := subjects[0]

	if nameIDs := xmlutil.LocalNameChildren(subject, "NameID"); len(nameIDs) > 0 {
		a.nameID = strings.TrimSpace(nameIDs[0].Text())
		if f, ok := xmlutil.Attr(nameIDs[0], "Format"); ok {
			a.nameIDFormat = f
		}
	}

	for _, confirmation := range xmlutil.LocalNameChildren(subject, "SubjectConfirmation") {
		for _, data := range xmlutil.LocalNameChildren(confirmation, "SubjectConfirmationData") {
			if irt, ok := xmlutil.Attr(data, "InResponseTo"); ok && irt != "" {
				a.inResponseTo = irt
			}
		}
	}

	return nil
}

// defaultConditionsWindow is the fallback validity window, from the
// current instant, applied when Conditions (or one of its NotBefore/
// NotOnOrAfter attributes) is absent.
const defaultConditionsWindow = 1000 * time.Second

func parseConditions(el *etree.Element, a *Assertion) error {
	now := a.clock.Now().UTC()
	a.notBefore = now
	a.notOnOrAfter = now.Add(defaultConditionsWindow)

	conditions := xmlutil.LocalNameChildren(el, "Conditions")
	if len(conditions) == 0 {
		// No Conditions element at all: fall back to the default window
		// rather than rejecting the assertion outright — callers that
		// require a Conditions element enforce that themselves.
		return nil
	}
	cond := conditions[0]

	if nb, ok := xmlutil.Attr(cond, "NotBefore"); ok && nb != "" {
		t, err := time.Parse(time.RFC3339, nb)
		if err != nil {
			return fmt.Errorf("parsing Conditions/@NotBefore: %w", ErrInvalidTime)
		}
		a.notBefore = t
	}
	if noa, ok := xmlutil.Attr(cond, "NotOnOrAfter"); ok && noa != "" {
		t, err := time.Parse(time.RFC3339, noa)
		if err != nil {
			return fmt.Errorf("parsing Conditions/@NotOnOrAfter: %w", ErrInvalidTime)
		}
		a.notOnOrAfter = t
	}
	if !a.notBefore.Before(a.notOnOrAfter) {
		return fmt.Errorf("NotBefore must precede NotOnOrAfter: %w", ErrInvalidTime)
	}

	for _, ar := range xmlutil.LocalNameChildren(cond, "AudienceRestriction") {
		for _, aud := range xmlutil.LocalNameChildren(ar, "Audience") {
			if a.audience == "" {
				a.audience = strings.TrimSpace(aud.Text())
			}
		}
	}

	return nil
}

// parseAuthnStatements records the SessionIndex of the first
// AuthnStatement. A SAML Response can legally carry more than one
// AuthnStatement (re-authentication, step-up auth); the first one wins,
// matching how most SAML SPs key their local session off the
// AuthnRequest/AuthnStatement pair that answered it.
func parseAuthnStatements(el *etree.Element, a *Assertion) {
	statements := xmlutil.LocalNameChildren(el, "AuthnStatement")
	if len(statements) == 0 {
		return
	}
	if si, ok := xmlutil.Attr(statements[0], "SessionIndex"); ok {
		a.sessionIndex = si
	}
}

func parseAttributeStatements(el *etree.Element, a *Assertion) {
	for _, stmt := range xmlutil.LocalNameChildren(el, "AttributeStatement") {
		for _, attr := range xmlutil.LocalNameChildren(stmt, "Attribute") {
			name, ok := xmlutil.Attr(attr, "Name")
			if !ok || name == "" {
				continue
			}
			for _, v := range xmlutil.LocalNameChildren(attr, "AttributeValue") {
				a.attributes[name] = append(a.attributes[name], strings.TrimSpace(v.Text()))
			}
		}
	}
}

// ID returns the assertion's xsd:ID.
func (a *Assertion) ID() string { return a.id }

// Issuer returns the asserting party's entity ID.
func (a *Assertion) Issuer() string { return a.issuer }

// NameID returns the subject's name identifier.
func (a *Assertion) NameID() string { return a.nameID }

// NameIDFormat returns the subject's name identifier format URI.
func (a *Assertion) NameIDFormat() string { return a.nameIDFormat }

// Name is a convenience alias for NameID, matching the identity most
// callers actually want (the logged-in principal's name).
func (a *Assertion) Name() string { return a.nameID }

// SessionIndex returns the SessionIndex of the first AuthnStatement, or
// the empty string if there was none.
func (a *Assertion) SessionIndex() string { return a.sessionIndex }

// Attributes returns every saml:Attribute carried in the assertion's
// AttributeStatement(s), keyed by Name, each with all of its values in
// document order. The returned map must not be mutated by callers.
func (a *Assertion) Attributes() map[string][]string { return a.attributes }

// Attribute returns the first value of the named attribute, and whether
// the attribute was present at all.
func (a *Assertion) Attribute(name string) (string, bool) {
	vs, ok := a.attributes[name]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// InResponseTo returns the InResponseTo value recorded on the subject's
// bearer SubjectConfirmationData, or the empty string if there was none.
func (a *Assertion) InResponseTo() string { return a.inResponseTo }

// ResponseStatus returns the enclosing Response's top-level StatusCode
// URI, or the empty string if this Assertion was parsed without one.
func (a *Assertion) ResponseStatus() string { return a.responseStatus }

// NotBefore and NotOnOrAfter return the assertion's validity window.
func (a *Assertion) NotBefore() time.Time    { return a.notBefore }
func (a *Assertion) NotOnOrAfter() time.Time { return a.notOnOrAfter }

// Valid reports whether the assertion is currently usable: the clock is
// within [NotBefore, NotOnOrAfter) — NotBefore inclusive, NotOnOrAfter
// exclusive, per its name — audience is provided and equals the
// assertion's own audience, and inResponseTo matches when the assertion
// recorded one. An assertion with no recorded InResponseTo accepts any
// caller-supplied value, since unsolicited (IdP-initiated) responses
// never have one. Unlike InResponseTo, audience has no such carve-out:
// a missing or mismatched audience always invalidates the assertion.
func (a *Assertion) Valid(audience, inResponseTo string) bool {
	now := a.clock.Now().UTC()

	if now.Before(a.notBefore) {
		return false
	}
	if !now.Before(a.notOnOrAfter) {
		return false
	}

	if audience == "" || audience != a.audience {
		return false
	}

	if a.inResponseTo != "" && a.inResponseTo != inResponseTo {
		return false
	}

	return true
}
