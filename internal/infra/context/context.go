// Package context holds typed context values threaded through the shell:
// the authenticated session and a per-command trace id.
package context

type contextKey string
