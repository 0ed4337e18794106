package domain

import "connectgate/internal/money"

// AuthType tags the shape of a ConnectorAuth (§6 x-auth header).
type AuthType string

const (
	AuthTypeNone AuthType = "no-key"
	AuthTypeHeaderKey AuthType = "header-key"
	AuthTypeBodyKey AuthType = "body-key"
	AuthTypeSignatureKey AuthType = "signature-key"
	AuthTypeMultiAuth AuthType = "multi-auth-key"
	AuthTypeCertificate AuthType = "certificate-auth"
)

// ConnectorAuth is the tagged variant describing how a connector is
// authenticated. Exactly one of the field groups is populated, selected by
// Type. Two conventions observed in the source system and preserved here
// per spec §9: BodyKey's APIKey is also used as OAuth client_id by
// connectors that need it, and BodyKey's Key1 doubles as client_secret —
// this is documented per connector adapter, not encoded as a protocol rule.
type ConnectorAuth struct {
	Type AuthType

	APIKey money.Secret[string] // header-key, body-key, signature-key, multi-auth-key
	Key1 money.Secret[string] // body-key, signature-key, multi-auth-key
	APISecret money.Secret[string] // signature-key, multi-auth-key
	Key2 money.Secret[string] // multi-auth-key

	Certificate money.Secret[string] // certificate-auth
	PrivateKey money.Secret[string] // certificate-auth
}

func secret(v string) money.Secret[string] {
	return money.NewStringSecret(v, money.MaskAuthKey)
}

// NewHeaderKeyAuth builds a header-key ConnectorAuth.
func NewHeaderKeyAuth(apiKey string) ConnectorAuth {
	return ConnectorAuth{Type: AuthTypeHeaderKey, APIKey: secret(apiKey)}
}

// NewBodyKeyAuth builds a body-key ConnectorAuth.
func NewBodyKeyAuth(apiKey, key1 string) ConnectorAuth {
	return ConnectorAuth{Type: AuthTypeBodyKey, APIKey: secret(apiKey), Key1: secret(key1)}
}

// NewSignatureKeyAuth builds a signature-key ConnectorAuth.
func NewSignatureKeyAuth(apiKey, key1, apiSecret string) ConnectorAuth {
	return ConnectorAuth{
		Type:      AuthTypeSignatureKey,
		APIKey:    secret(apiKey),
		Key1:      secret(key1),
		APISecret: secret(apiSecret),
	}
}

// NewMultiAuth builds a multi-auth-key ConnectorAuth.
func NewMultiAuth(apiKey, key1, apiSecret, key2 string) ConnectorAuth {
	return ConnectorAuth{
		Type:      AuthTypeMultiAuth,
		APIKey:    secret(apiKey),
		Key1:      secret(key1),
		APISecret: secret(apiSecret),
		Key2:      secret(key2),
	}
}

// NewCertificateAuth builds a certificate-auth ConnectorAuth.
func NewCertificateAuth(certificate, privateKey string) ConnectorAuth {
	return ConnectorAuth{
		Type:        AuthTypeCertificate,
		Certificate: secret(certificate),
		PrivateKey:  secret(privateKey),
	}
}

// MaskedKeys returns a display-safe rendering of every populated key,
// masked per money.MaskAuthKey: first two and last two characters shown,
// the rest starred, keys of length <= 4 fully starred (property 6).
func (a ConnectorAuth) MaskedKeys() map[string]string {
	out := map[string]string{}
	add := func(name string, s money.Secret[string]) {
		if s.Expose() != "" {
			out[name] = s.String()
		}
	}
	add("api_key", a.APIKey)
	add("key1", a.Key1)
	add("api_secret", a.APISecret)
	add("key2", a.Key2)
	add("certificate", a.Certificate)
	add("private_key", a.PrivateKey)
	return out
}

// ClientCredentials returns (client_id, client_secret) for connectors that
// read api_key as client_id and key1 as client_secret — a per-connector
// convention, not a protocol rule.
func (a ConnectorAuth) ClientCredentials() (clientID, clientSecret string) {
	return a.APIKey.Expose(), a.Key1.Expose()
}
