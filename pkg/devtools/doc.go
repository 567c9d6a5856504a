// Package devtools provides a local state inspector for development.
//
// The inspector exposes an HTTP endpoint with a redacted JSON snapshot
// of registered stores, a Prometheus /metrics endpoint and a WebSocket
// feed that streams store changes as they happen. Credential header
// values are always redacted before leaving the process.
//
//	insp := devtools.New(devtools.WithName("admin-console"))
//	insp.RegisterAuth(authStore)
//	insp.RegisterSidebar(sidebar)
//	go insp.ListenAndServe("localhost:7677")
package devtools
