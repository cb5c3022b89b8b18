// Package gatekeeper provides stateless bearer-token authentication for
// HTTP services: credential verification against a persistent directory,
// HS256 JWT issuance and validation, and the shared claim and identity
// types consumed by the enforcement middleware.
//
// Enforcement points:
//   - middleware/requestauth runs in-process at a backend service. It
//     validates the bearer token, re-derives the subject's role set from
//     the directory, and installs a RequestIdentity for the remainder of
//     the request.
//   - middleware/edgeauth runs at a gateway in front of one or more
//     backends. It validates the same tokens but rewrites the forwarded
//     request with identity headers instead of installing a context.
//     Backends reachable only through the gateway may trust those headers.
//
// Tokens are self-contained: validity is determined entirely by the HMAC
// signature and the embedded expiry. There is no server-side session state,
// no revocation list, and a single static signing key shared by issuance
// and every verification point.
package gatekeeper
