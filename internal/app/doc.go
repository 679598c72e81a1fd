// Package app holds the pieces around the page engine that a host program
// needs: a Store that keeps pages by id and serializes edits to them,
// JSON action decoding, summaries, dispatch metrics and a leveled logger.
// Application ties them to the configuration and reapplies it on change.
//
// Pages themselves perform no locking. Every edit goes through
// Store.Dispatch, which holds the store lock while the page changes, and
// readers get deep copies from Store.Snapshot.
package app
