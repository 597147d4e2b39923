// Package kyc defines the compliance console's domain entities: applicants,
// companies, screening checks and hits, cases, documents, webhooks, devices,
// audit events, team membership and workspace settings, plus the filter and
// page types that travel through cache keys and service calls.
//
// Entities are plain data with ozzo-validation schemas. Clone produces deep
// copies for optimistic cache transforms, so staged values never alias what
// is already cached.
package kyc
