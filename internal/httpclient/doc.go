// Package httpclient issues the individual GET requests of a run.
//
// A [Client] is bound to one target URL and is safe for concurrent use by
// all load units. Requests carry no body, no custom headers beyond cache
// suppression, and no per-request timeout: a hung request holds its unit
// until the transport itself gives up.
//
//	client := httpclient.New(cfg.TargetURL, httpclient.Options{Tracing: tp})
//	status, snippet, err := client.Do(ctx)
//
// A transport-level failure is returned as err with no status. An HTTP
// error status (>= 400) is NOT an error from Do; callers decide what a
// status means.
package httpclient
