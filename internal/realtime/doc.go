// Package realtime keeps live, per-user mirrors of the stored collections.
//
// A [Registry] turns change-feed notifications into full collection
// snapshots delivered to subscribers. A [Sync] uses one registry to mirror a
// single signed-in user's subjects, grades, reminders, notes and profile,
// discarding deliveries that belong to a previous user.
package realtime
