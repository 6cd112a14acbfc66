// Package analytics turns snapshots of study sessions and group memberships
// into dashboard figures: hour buckets, streaks, group ranks and the merged
// activity feed.
//
// Every function here is a pure computation over its arguments. Callers
// fetch records, pass them in together with the current moment and a
// Calendar, and discard the result when the snapshot is refreshed. Nothing
// is cached or shared between calls, so concurrent callers need no locking.
package analytics
