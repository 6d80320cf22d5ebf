package said

// Prefixer is a self-certifying identifier: either non-digestive (the
// identifier equals a single public key's qb64) or digestive (the
// identifier is the SAID of the controlling inception event). A KEL's
// identifier is fixed at inception and never changes.
type Prefixer struct {
	pre string
}

// NewPrefixer wraps an existing prefix string.
func NewPrefixer(pre string) *Prefixer { return &Prefixer{pre: pre} }

// Pre returns the prefix's text form.
func (p *Prefixer) Pre() string { return p.pre }

// IsDigestive reports whether this prefix is a SAID (digest code) rather
// than a bare verification key.
func (p *Prefixer) IsDigestive() bool {
	_, err := NewDigerFromQb64(p.pre)
	return err == nil
}

// Verify checks that the prefix is consistent with an inception key-event
// map: for a non-digestive prefix, that it equals the event's single
// signing key; for a digestive prefix, that it equals the event's own
// SAID (field "d"). allowNonDigestive permits the non-digestive case; when
// false, only digestive prefixes verify.
func (p *Prefixer) Verify(ked *Dat, allowNonDigestive bool) (bool, error) {
	if p.IsDigestive() {
		d := ked.Get("d")
		if d == nil || !d.IsString() {
			return false, nil
		}
		return d.String() == p.pre, nil
	}
	if !allowNonDigestive {
		return false, nil
	}
	keys := ked.Get("k")
	if keys == nil || !keys.IsArray() || len(keys.Items()) != 1 {
		return false, nil
	}
	return keys.Items()[0].String() == p.pre, nil
}

// DerivePrefixer computes the prefix for an inception event per the
// builder rule: a lone key with no delegator and no explicit digest code
// yields a non-digestive prefix equal to that key; otherwise the prefix is
// the event's own SAID, computed by the caller via Saidify and passed in
// as saidQb64.
func DerivePrefixer(keys []string, delegated bool, explicitDigestCode bool, saidQb64 string) (*Prefixer, error) {
	if !delegated && !explicitDigestCode && len(keys) == 1 {
		return &Prefixer{pre: keys[0]}, nil
	}
	if delegated && saidQb64 == "" {
		return nil, ErrDelegationNeedsSAID
	}
	return &Prefixer{pre: saidQb64}, nil
}
