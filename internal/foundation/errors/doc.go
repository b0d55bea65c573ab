// Package errors provides the classified error primitives used across the viewer.
//
// A ClassifiedError carries a category (config, auth, network, api, storage, ...),
// a severity, a retry hint and structured context. The fluent builder keeps
// construction uniform:
//
//	err := errors.APIError("board service returned an error").
//		WithContext("status", 404).
//		WithContext("url", reqURL).
//		WithCause(originalErr).
//		Build()
//
// CLIErrorAdapter turns these into exit codes and one-line messages for the CLI.
package errors
