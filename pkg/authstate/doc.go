// Package authstate holds the authentication header state of an admin
// console: which credential scheme is active and the derived Authorization
// header value, persisted across restarts through a persist.Slot.
//
// The store is not a credential vault. It keeps a formatted header string in
// whatever storage backend the console is configured with, unencrypted; its
// job is surviving reloads, not protecting secrets.
//
// Example:
//
//	slot := persist.NewSlot[authstate.Session](store, "statekit:auth")
//	auth := authstate.New(slot)
//
//	if err := auth.SetBasicCredentials(ctx, "alice", "secret"); err != nil {
//	    // base64 unavailable in this environment
//	}
//	header, ok := auth.AuthorizationHeader() // "Basic YWxpY2U6c2VjcmV0", true
package authstate
