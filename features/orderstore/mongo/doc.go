// Package mongo provides MongoDB-backed storage for order records and
// notification preferences.
//
// Use clients/mongo to build the low-level client and pass it to NewStore to
// obtain an orders.Store consumed by the fetch activities.
package mongo
