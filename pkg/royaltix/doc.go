// Package royaltix implements the RoyalTix AI creation pipeline: generate or
// accept a piece of content, register it as an IP asset with external
// providers (content pinning plus an on-chain registration gateway), and
// persist the resulting record for marketplace and dashboard reads.
//
// The Service orchestrates injected providers (ImageGenerator,
// TextGenerator, Registrar) over a Store. Providers live in the generate,
// pinning and registry subpackages; stores live under store/.
//
// Failure policy, in one place: missing configuration fails before any
// external call; generation and registration are single-attempt and fatal
// for the request; pinning degrades to placeholder identifiers recorded on
// the record's Storage field; persistence after a successful registration is
// retried because the registration cannot be rolled back.
package royaltix
