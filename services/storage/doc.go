/*
Package storage provides the key/value layer under the build cache.

Values are stored whole and read back whole; an update of one field of an
object rewrites the object. Stores are namespaced by name and every
operation runs inside a transaction. A BoltDB backed implementation is used
on disk and an in memory implementation serves tests and runs without a
cache file.
*/
package storage
