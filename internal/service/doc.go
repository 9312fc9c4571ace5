// Package service implements the task tracker's use cases on top of the
// domain types and the store interfaces.
//
// Three services live here:
//
//   - IdentityResolver turns the email carried by a verified token into the
//     acting user record.
//   - TaskService is the task lifecycle. Every operation takes the acting
//     user explicitly and consults internal/domain/policy before touching a
//     task; listings are narrowed by the policy's visibility filter. Reads
//     that are followed by writes run inside one store.TxRunner transaction.
//   - AccountService registers users and exchanges credentials or refresh
//     tokens for a token pair.
//
// Errors keep their sentinels (domain.ErrUnauthorized, store.ErrTaskNotFound,
// ErrUsernameTaken, ...) reachable through errors.Is so the HTTP layer can
// map them without knowing which service produced them.
package service
