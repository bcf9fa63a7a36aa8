// Package acl is the anti-corruption layer between provider APIs and the
// domain. Provider DTOs and error bodies stay in this package; callers only
// see domain types and domain errors.
//
// # Adapters
//
//   - [ResendClient]: ports.NotificationGateway over the Resend REST API
//
// New adapters embed [BaseAdapter], keep their DTOs unexported and report
// failures through [MapHTTPError].
//
// # Error Handling Strategy
//
// The email provider fails in three distinct ways, and dispatch treats
// them differently in logs and metrics:
//
//   - credentials or sender wrong (401/403, key and from errors) → [domain.ErrConfiguration]
//   - the message itself rejected (400/422) → [domain.ErrValidation]
//   - provider or network trouble (429, 5xx, transport, open breaker) → [domain.ErrUnavailable]
//
// Sends are never retried here. A failed recipient is recorded on the
// dispatch report and the batch moves on.
package acl
