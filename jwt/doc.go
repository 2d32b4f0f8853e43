// Package jwt verifies the id tokens returned by the identity provider's token
// endpoint and, for tests and local tooling, signs them.
package jwt
