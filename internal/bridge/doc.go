// Package bridge turns one successful OAuth authentication into durable state
// plus a best-effort notification.
//
// CompleteAuthentication writes the access token to the credential store
// and only then posts a notification to the configured sink. A failed store
// write fails the authentication and suppresses the notification. A failed
// notification is logged and otherwise ignored. Neither step is retried.
package bridge
