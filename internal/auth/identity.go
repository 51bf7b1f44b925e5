package auth

// Attribute keys carried in Identity.Attributes.
const (
	AttrEmail   = "email"
	AttrName    = "name"
	AttrPicture = "picture"
)

// Identity is the external identity asserted by an OAuth provider after a
// successful authorization. ExternalID is the provider-assigned subject and
// is the only field used to address stored state; Attributes are advisory.
type Identity struct {
	Provider   string            // e.g. "google"
	ExternalID string            // provider-scoped unique user identifier (sub)
	Attributes map[string]string // email, name, ... never used as a key
}

// NewIdentity copies attrs so the returned Identity cannot be mutated
// through the caller's map.
func NewIdentity(provider, externalID string, attrs map[string]string) Identity {
	copied := make(map[string]string, len(attrs))
	for k, v := range attrs {
		if v != "" {
			copied[k] = v
		}
	}
	return Identity{
		Provider:   provider,
		ExternalID: externalID,
		Attributes: copied,
	}
}

// Attribute returns an advisory display attribute, or "" if absent.
func (i Identity) Attribute(key string) string {
	return i.Attributes[key]
}

// Credential is the bearer access token issued for an identity.
type Credential struct {
	Value     string
	IssuedFor string // Identity.ExternalID
}
