// Package webhooks contains the delivery verification and classification
// components the dispute pipeline runs before touching a payload.
//
// Verification is signature-based (HMAC-SHA256 over the exact raw body
// bytes); classification reads the delivery topic and originating shop
// domain from headers and applies the fixed dispute topic set.
package webhooks
