// Package httputil provides shared HTTP plumbing for the render server
// and for clients of external stores.
//
// # Overview
//
// This package provides two small groups of helpers:
//
//   - [Retry]: Automatic retry with exponential backoff
//   - [WriteJSON], [WriteError]: JSON response helpers for HTTP handlers
//
// # Retry
//
// [Retry] re-runs an operation when it fails with a transient error.
// Wrap errors worth retrying (connection drops, server-side timeouts) in
// [RetryableError]; anything else aborts immediately:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    if err := store.Save(ctx, entry); err != nil {
//	        if isTransient(err) {
//	            return &httputil.RetryableError{Err: err}
//	        }
//	        return err
//	    }
//	    return nil
//	})
//
// The delay doubles after each failed attempt (1s, 2s, 4s, ...).
//
// # Responses
//
// HTTP handlers write JSON with [WriteJSON] and report failures with
// [WriteError], which maps an error code from the errors package to the
// matching HTTP status:
//
//	entry, err := store.Get(ctx, id)
//	if err != nil {
//	    httputil.WriteError(w, err)  // RENDER_NOT_FOUND -> 404
//	    return
//	}
//	httputil.WriteJSON(w, http.StatusOK, entry)
//
// The error envelope is {"error": "...", "code": "..."}; the message is
// the user-facing text from errors.UserMessage, never the wrapped cause.
package httputil
